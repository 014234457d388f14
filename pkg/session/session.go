// Package session owns the realtime socket lifecycle: the configuration
// handshake, the routing of inbound events to playback, transcript, and
// tool execution, and teardown of every resource on disconnect.
package session

import (
	"context"

	"github.com/bila9630/giraffen-voice/pkg/tools"
)

// ConnectionStatus tracks the socket lifecycle.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// VoiceStatus tracks where the conversation turn is.
type VoiceStatus string

const (
	VoiceIdle       VoiceStatus = "idle"
	VoiceListening  VoiceStatus = "listening"
	VoiceProcessing VoiceStatus = "processing"
	VoiceSpeaking   VoiceStatus = "speaking"
)

// StatusSink receives presentation state. It has no feedback into the
// controller.
type StatusSink interface {
	SetConnectionStatus(s ConnectionStatus)
	SetVoiceStatus(v VoiceStatus)
	SetTranscript(text string)
	ReportError(err error)
}

// Recorder is the microphone side as the controller sees it.
// *voice.Capture satisfies it.
type Recorder interface {
	Start(onFrame func(frame []byte), onErr func(error))
	Stop()
}

// Playback is the speaker side. *voice.Player satisfies it.
type Playback interface {
	Enqueue(pcm []byte)
	ClearQueue()
	Stop()
}

// Executor runs function calls. *tools.Dispatcher satisfies it.
type Executor interface {
	Execute(ctx context.Context, inv tools.Invocation) tools.Result
}

// Conn is the subset of the websocket connection the controller uses.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens the realtime socket with the given credential.
type Dialer func(ctx context.Context, credential string) (Conn, error)
