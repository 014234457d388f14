package session

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bila9630/giraffen-voice/pkg/core"
	"github.com/bila9630/giraffen-voice/pkg/realtime"
	"github.com/bila9630/giraffen-voice/pkg/tools"
)

// DefaultRealtimeURL is the streaming endpoint the demo talks to.
const DefaultRealtimeURL = "wss://api.openai.com/v1/realtime?model=gpt-4o-realtime-preview-2024-12-17"

const instructions = "You are a helpful travel planning assistant. Provide concise, friendly advice about destinations, itineraries, and travel tips. When users mention a specific destination or ask about a place, use the appropriate function to show it on the map."

// DefaultSessionConfig is the one-time configuration sent right after the
// socket opens: audio formats, voice activity detection, and the static
// tool list.
func DefaultSessionConfig() realtime.SessionConfig {
	return realtime.SessionConfig{
		Modalities:        []string{"text", "audio"},
		Instructions:      instructions,
		Voice:             "alloy",
		InputAudioFormat:  realtime.AudioFormatPCM16,
		OutputAudioFormat: realtime.AudioFormatPCM16,
		InputAudioTranscription: &realtime.Transcription{
			Model: "whisper-1",
		},
		TurnDetection: &realtime.TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMS:   300,
			SilenceDurationMS: 500,
		},
		Tools:      tools.Definitions(),
		ToolChoice: "auto",
	}
}

// WebsocketDialer dials the realtime endpoint with the credential carried
// in the websocket subprotocols, the way the browser clients do it.
func WebsocketDialer(realtimeURL string) Dialer {
	return func(ctx context.Context, credential string) (Conn, error) {
		d := websocket.Dialer{
			Subprotocols: []string{
				"realtime",
				"openai-insecure-api-key." + credential,
				"openai-beta.realtime-v1",
			},
		}
		conn, resp, err := d.DialContext(ctx, realtimeURL, http.Header{})
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			return nil, &core.TransportError{Op: "dial", URL: realtimeURL, Err: err}
		}
		return conn, nil
	}
}
