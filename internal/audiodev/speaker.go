package audiodev

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/bila9630/giraffen-voice/pkg/voice"
)

// oto allows exactly one context per process; sessions share it and open
// a fresh player each time.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func speakerContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		opts := &oto.NewContextOptions{
			SampleRate:   voice.SampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			// 4800 bytes is 100ms at 24kHz mono 16-bit. Smaller cuts
			// latency but risks glitches.
			BufferSize: 4800,
		}
		ctx, ready, err := oto.NewContext(opts)
		if err != nil {
			otoErr = fmt.Errorf("init speaker: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// Speaker is one playback session on the shared output device. It
// satisfies voice.Sink; the player pulls buffered PCM through Read.
type Speaker struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	player *oto.Player
	closed bool
}

// OpenSpeaker readies the output device and returns a fresh sink.
func OpenSpeaker() (voice.Sink, error) {
	ctx, err := speakerContext()
	if err != nil {
		return nil, err
	}
	s := &Speaker{buf: make([]byte, 0, voice.SampleRate*4)}
	s.cond = sync.NewCond(&s.mu)
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Write buffers PCM for the device to pull.
func (s *Speaker) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("speaker is closed")
	}
	s.buf = append(s.buf, pcm...)
	s.cond.Signal()
	return nil
}

// Read feeds the oto player. It blocks until data arrives or the sink
// closes; after close it returns silence so the device drains cleanly.
func (s *Speaker) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed && len(s.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Close stops the session's player and drops buffered audio. Idempotent.
func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.buf = nil
	player := s.player
	s.player = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	if player != nil {
		if err := player.Close(); err != nil {
			return fmt.Errorf("close speaker: %w", err)
		}
	}
	return nil
}
