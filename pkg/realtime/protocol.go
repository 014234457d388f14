// Package realtime defines the JSON wire protocol spoken over the live
// websocket: a small set of client frames and the server events the
// session reacts to. Every frame carries a "type" discriminator.
package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Client event types.
const (
	TypeSessionUpdate    = "session.update"
	TypeInputAudioAppend = "input_audio_buffer.append"
	TypeItemCreate       = "conversation.item.create"
	TypeResponseCreate   = "response.create"
)

// Server event types.
const (
	TypeSessionCreated         = "session.created"
	TypeSpeechStarted          = "input_audio_buffer.speech_started"
	TypeSpeechStopped          = "input_audio_buffer.speech_stopped"
	TypeTranscriptionCompleted = "conversation.item.input_audio_transcription.completed"
	TypeFunctionCallDone       = "response.function_call_arguments.done"
	TypeAudioDelta             = "response.audio.delta"
	TypeAudioDone              = "response.audio.done"
	TypeError                  = "error"
)

// AudioFormatPCM16 is the only audio format the session negotiates:
// 16-bit signed little-endian mono PCM at 24 kHz.
const AudioFormatPCM16 = "pcm16"

// TurnDetection configures server-side voice activity detection.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMS   int     `json:"prefix_padding_ms"`
	SilenceDurationMS int     `json:"silence_duration_ms"`
}

// Transcription selects the input transcription model.
type Transcription struct {
	Model string `json:"model"`
}

// ToolDefinition declares one callable function and its argument schema.
type ToolDefinition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SessionConfig is the one-time configuration payload sent after the
// socket opens: audio formats, VAD thresholds, and the static tool list.
type SessionConfig struct {
	Modalities              []string         `json:"modalities"`
	Instructions            string           `json:"instructions"`
	Voice                   string           `json:"voice"`
	InputAudioFormat        string           `json:"input_audio_format"`
	OutputAudioFormat       string           `json:"output_audio_format"`
	InputAudioTranscription *Transcription   `json:"input_audio_transcription,omitempty"`
	TurnDetection           *TurnDetection   `json:"turn_detection,omitempty"`
	Tools                   []ToolDefinition `json:"tools,omitempty"`
	ToolChoice              string           `json:"tool_choice,omitempty"`
}

// SessionUpdate is the handshake frame.
type SessionUpdate struct {
	Type    string        `json:"type"`
	EventID string        `json:"event_id,omitempty"`
	Session SessionConfig `json:"session"`
}

// NewSessionUpdate wraps a SessionConfig in its envelope.
func NewSessionUpdate(cfg SessionConfig) SessionUpdate {
	return SessionUpdate{Type: TypeSessionUpdate, EventID: newEventID(), Session: cfg}
}

// InputAudioAppend carries one base64-encoded PCM16 capture frame.
type InputAudioAppend struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
	Audio   string `json:"audio"`
}

// NewInputAudioAppend builds an append frame from base64 PCM.
func NewInputAudioAppend(audioB64 string) InputAudioAppend {
	return InputAudioAppend{Type: TypeInputAudioAppend, EventID: newEventID(), Audio: audioB64}
}

// FunctionCallOutput answers one tool invocation, keyed by call_id.
type FunctionCallOutput struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// ItemCreate submits a conversation item; the session only ever submits
// function_call_output items.
type ItemCreate struct {
	Type    string             `json:"type"`
	EventID string             `json:"event_id,omitempty"`
	Item    FunctionCallOutput `json:"item"`
}

// NewToolResultItem builds the function_call_output submission for callID.
func NewToolResultItem(callID, outputJSON string) ItemCreate {
	return ItemCreate{
		Type:    TypeItemCreate,
		EventID: newEventID(),
		Item: FunctionCallOutput{
			Type:   "function_call_output",
			CallID: callID,
			Output: outputJSON,
		},
	}
}

// ResponseCreate asks the remote assistant to produce its next response.
type ResponseCreate struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
}

// NewResponseCreate builds a response request frame.
func NewResponseCreate() ResponseCreate {
	return ResponseCreate{Type: TypeResponseCreate, EventID: newEventID()}
}

func newEventID() string {
	return "evt_" + uuid.NewString()
}

// ServerEvent is the discriminated union of inbound frames. Check the
// concrete type via type switch.
type ServerEvent interface {
	eventType() string
}

// SessionCreatedEvent acknowledges the handshake.
type SessionCreatedEvent struct {
	EventID string `json:"event_id"`
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
}

func (SessionCreatedEvent) eventType() string { return TypeSessionCreated }

// SpeechStartedEvent is emitted when server VAD detects speech.
type SpeechStartedEvent struct {
	EventID      string `json:"event_id"`
	AudioStartMS int    `json:"audio_start_ms"`
	ItemID       string `json:"item_id"`
}

func (SpeechStartedEvent) eventType() string { return TypeSpeechStarted }

// SpeechStoppedEvent is emitted when server VAD detects end of speech.
type SpeechStoppedEvent struct {
	EventID    string `json:"event_id"`
	AudioEndMS int    `json:"audio_end_ms"`
	ItemID     string `json:"item_id"`
}

func (SpeechStoppedEvent) eventType() string { return TypeSpeechStopped }

// TranscriptionCompletedEvent carries the finished caller transcript.
type TranscriptionCompletedEvent struct {
	EventID    string `json:"event_id"`
	ItemID     string `json:"item_id"`
	Transcript string `json:"transcript"`
}

func (TranscriptionCompletedEvent) eventType() string { return TypeTranscriptionCompleted }

// FunctionCallDoneEvent signals that a tool call's arguments are complete.
type FunctionCallDoneEvent struct {
	EventID   string `json:"event_id"`
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func (FunctionCallDoneEvent) eventType() string { return TypeFunctionCallDone }

// AudioDeltaEvent carries one base64-encoded PCM16 playback chunk.
type AudioDeltaEvent struct {
	EventID    string `json:"event_id"`
	ResponseID string `json:"response_id"`
	Delta      string `json:"delta"`
}

func (AudioDeltaEvent) eventType() string { return TypeAudioDelta }

// AudioDoneEvent marks the end of the assistant's spoken reply.
type AudioDoneEvent struct {
	EventID    string `json:"event_id"`
	ResponseID string `json:"response_id"`
}

func (AudioDoneEvent) eventType() string { return TypeAudioDone }

// ErrorEvent is a remote-reported protocol error.
type ErrorEvent struct {
	EventID string `json:"event_id"`
	Error   struct {
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
		Param   string `json:"param,omitempty"`
	} `json:"error"`
}

func (ErrorEvent) eventType() string { return TypeError }

// UnknownEvent holds frames with an unrecognized type. The session
// ignores them rather than failing the connection.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (e UnknownEvent) eventType() string { return e.Type }

// DecodeServerEvent unmarshals one inbound frame into its concrete type.
func DecodeServerEvent(data []byte) (ServerEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, fmt.Errorf("event frame missing type")
	}

	switch typ {
	case TypeSessionCreated:
		var e SessionCreatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode session.created: %w", err)
		}
		return e, nil
	case TypeSpeechStarted:
		var e SpeechStartedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode speech_started: %w", err)
		}
		return e, nil
	case TypeSpeechStopped:
		var e SpeechStoppedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode speech_stopped: %w", err)
		}
		return e, nil
	case TypeTranscriptionCompleted:
		var e TranscriptionCompletedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode transcription completed: %w", err)
		}
		return e, nil
	case TypeFunctionCallDone:
		var e FunctionCallDoneEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode function_call_arguments.done: %w", err)
		}
		return e, nil
	case TypeAudioDelta:
		var e AudioDeltaEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode audio.delta: %w", err)
		}
		return e, nil
	case TypeAudioDone:
		var e AudioDoneEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode audio.done: %w", err)
		}
		return e, nil
	case TypeError:
		var e ErrorEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode error event: %w", err)
		}
		return e, nil
	default:
		return UnknownEvent{Type: typ, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
