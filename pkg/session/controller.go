package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bila9630/giraffen-voice/pkg/core"
	"github.com/bila9630/giraffen-voice/pkg/realtime"
	"github.com/bila9630/giraffen-voice/pkg/tools"
)

// Controller drives one live voice session at a time. All inbound events
// flow through a single channel drained by one goroutine, so they are
// handled strictly in arrival order.
type Controller struct {
	dial    Dialer
	capture Recorder
	player  Playback
	exec    Executor
	status  StatusSink
	logger  *slog.Logger

	cfg realtime.SessionConfig

	mu         sync.Mutex
	conn       Conn
	connecting bool
	cancel     context.CancelFunc
	done       chan struct{}

	writeMu sync.Mutex
	closed  atomic.Bool
}

// NewController wires a controller against its collaborators. The session
// configuration defaults to DefaultSessionConfig.
func NewController(dial Dialer, capture Recorder, player Playback, exec Executor, status StatusSink, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		dial:    dial,
		capture: capture,
		player:  player,
		exec:    exec,
		status:  status,
		logger:  logger,
		cfg:     DefaultSessionConfig(),
	}
}

// Connect opens the socket and sends the configuration handshake. The
// connected state is only entered once the remote acknowledges the
// session; until then the status is connecting. A missing credential
// fails before any socket is opened.
func (c *Controller) Connect(ctx context.Context, credential string) error {
	if credential == "" {
		err := core.NewCredentialError("no API key provided")
		c.status.ReportError(err)
		return err
	}

	// Reserve the session in one critical section so two concurrent
	// Connect calls cannot both pass the guard and leak a socket.
	c.mu.Lock()
	if c.conn != nil || c.connecting {
		c.mu.Unlock()
		return core.NewProtocolError("session already active", "already_connected")
	}
	c.connecting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
	}()

	c.status.SetConnectionStatus(StatusConnecting)
	c.status.SetVoiceStatus(VoiceIdle)

	conn, err := c.dial(ctx, credential)
	if err != nil {
		c.status.SetConnectionStatus(StatusError)
		c.status.ReportError(err)
		return err
	}

	sessCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.closed.Store(false)
	c.mu.Unlock()

	if err := c.send(realtime.NewSessionUpdate(c.cfg)); err != nil {
		c.teardown(StatusError)
		terr := &core.TransportError{Op: "configure", Err: err}
		c.status.ReportError(terr)
		return terr
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()

	events := make(chan realtime.ServerEvent, 64)
	go c.readLoop(conn, events)
	go c.dispatchLoop(sessCtx, done, events)
	return nil
}

// Disconnect tears the session down from any state. It is idempotent and
// never fails: socket closed, capture stopped, playback hard-stopped,
// transcript cleared, statuses reset.
func (c *Controller) Disconnect() {
	c.teardown(StatusDisconnected)
}

func (c *Controller) teardown(final ConnectionStatus) {
	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	done := c.done
	c.conn = nil
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	c.closed.Store(true)
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if done != nil {
		<-done
	}

	c.capture.Stop()
	c.player.Stop()
	c.status.SetTranscript("")
	c.status.SetConnectionStatus(final)
	c.status.SetVoiceStatus(VoiceIdle)
}

// send serializes writes; frames and tool results come from different
// goroutines. It silently drops writes once the session is closed so a
// stale tool sequence cannot write after teardown.
func (c *Controller) send(v any) error {
	if c.closed.Load() {
		return nil
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// readLoop is the sole producer of the event channel. It exits, closing
// the channel, when the socket errors or closes.
func (c *Controller) readLoop(conn Conn, events chan<- realtime.ServerEvent) {
	defer close(events)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := realtime.DecodeServerEvent(data)
		if err != nil {
			c.logger.Warn("undecodable server event", "error", err)
			continue
		}
		events <- ev
	}
}

// dispatchLoop is the sole consumer: events are handled one at a time,
// strictly in arrival order. When the channel closes the socket is gone
// and the session winds down.
func (c *Controller) dispatchLoop(ctx context.Context, done chan struct{}, events <-chan realtime.ServerEvent) {
	defer close(done)
	for ev := range events {
		c.handle(ctx, ev)
	}
	if c.closed.CompareAndSwap(false, true) {
		// Remote-initiated close; the local side still holds resources.
		c.mu.Lock()
		conn := c.conn
		cancel := c.cancel
		c.conn = nil
		c.cancel = nil
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		if conn != nil {
			_ = conn.Close()
		}
		c.capture.Stop()
		c.status.SetConnectionStatus(StatusDisconnected)
		c.status.SetVoiceStatus(VoiceIdle)
	}
}

func (c *Controller) handle(ctx context.Context, ev realtime.ServerEvent) {
	switch e := ev.(type) {
	case realtime.SessionCreatedEvent:
		c.logger.Info("session established", "session_id", e.Session.ID)
		c.status.SetConnectionStatus(StatusConnected)
		c.status.SetVoiceStatus(VoiceListening)
		c.startCapture()

	case realtime.SpeechStartedEvent:
		c.status.SetTranscript("")
		c.status.SetVoiceStatus(VoiceListening)

	case realtime.SpeechStoppedEvent:
		c.status.SetVoiceStatus(VoiceProcessing)

	case realtime.TranscriptionCompletedEvent:
		c.status.SetTranscript(e.Transcript)

	case realtime.FunctionCallDoneEvent:
		c.status.SetVoiceStatus(VoiceProcessing)
		c.runTool(ctx, e)

	case realtime.AudioDeltaEvent:
		pcm, err := base64.StdEncoding.DecodeString(e.Delta)
		if err != nil {
			c.logger.Warn("bad audio delta", "error", err)
			return
		}
		c.status.SetVoiceStatus(VoiceSpeaking)
		c.player.Enqueue(pcm)

	case realtime.AudioDoneEvent:
		c.status.SetVoiceStatus(VoiceListening)

	case realtime.ErrorEvent:
		err := core.NewProtocolError(e.Error.Message, e.Error.Code)
		c.logger.Error("server reported error", "error", err)
		c.status.ReportError(err)
		c.status.SetConnectionStatus(StatusError)
		c.status.SetVoiceStatus(VoiceIdle)

	case realtime.UnknownEvent:
		c.logger.Debug("ignoring event", "type", e.Type)
	}
}

// runTool executes the function call synchronously inside the dispatch
// loop, so no later event is handled until the result has been posted.
func (c *Controller) runTool(ctx context.Context, e realtime.FunctionCallDoneEvent) {
	res := c.exec.Execute(ctx, tools.Invocation{
		CallID:    e.CallID,
		Name:      e.Name,
		Arguments: e.Arguments,
	})

	out, err := json.Marshal(res)
	if err != nil {
		c.logger.Error("marshal tool result", "error", err)
		return
	}
	if c.closed.Load() {
		c.logger.Debug("dropping tool result for closed session", "call_id", e.CallID)
		return
	}
	if err := c.send(realtime.NewToolResultItem(e.CallID, string(out))); err != nil {
		c.logger.Error("post tool result", "error", err)
		return
	}
	if err := c.send(realtime.NewResponseCreate()); err != nil {
		c.logger.Error("request response", "error", err)
	}
}

func (c *Controller) startCapture() {
	c.capture.Start(
		func(frame []byte) {
			msg := realtime.NewInputAudioAppend(base64.StdEncoding.EncodeToString(frame))
			if err := c.send(msg); err != nil {
				c.logger.Warn("send audio frame", "error", err)
			}
		},
		func(err error) {
			c.logger.Error("capture failed", "error", err)
			c.status.ReportError(err)
			go c.Disconnect()
		},
	)
}
