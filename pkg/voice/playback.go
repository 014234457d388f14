package voice

import (
	"log/slog"
	"sync"
	"time"
)

// Sink is the hardware audio output port. Writes are PCM16 bytes at
// SampleRate; Close releases the device.
type Sink interface {
	Write(pcm []byte) error
	Close() error
}

// scheduler assigns each chunk a start time immediately after the
// previously scheduled chunk's end, or "now" when the schedule has
// drained. This is what keeps back-to-back chunks gapless and
// non-overlapping regardless of their arrival jitter.
type scheduler struct {
	nextStart time.Time
}

func (s *scheduler) schedule(now time.Time, d time.Duration) (start, end time.Time) {
	start = now
	if s.nextStart.After(now) {
		start = s.nextStart
	}
	end = start.Add(d)
	s.nextStart = end
	return start, end
}

func (s *scheduler) reset() {
	s.nextStart = time.Time{}
}

type scheduledChunk struct {
	pcm     []byte
	startAt time.Time
	endAt   time.Time
}

// Player schedules inbound PCM16 chunks for gapless FIFO playback
// through a single output sink. The sink is opened lazily on the first
// chunk and released by Stop.
type Player struct {
	openSink   func() (Sink, error)
	clock      Clock
	sampleRate int
	logger     *slog.Logger

	mu          sync.Mutex
	cond        *sync.Cond
	sink        Sink
	queue       []scheduledChunk
	sched       scheduler
	inFlightEnd time.Time
	running     bool
	gen         int
}

// NewPlayer creates a Player. openSink is called once per playback
// session; clock may be nil for the system clock.
func NewPlayer(openSink func() (Sink, error), clock Clock, logger *slog.Logger) *Player {
	if clock == nil {
		clock = NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		openSink:   openSink,
		clock:      clock,
		sampleRate: SampleRate,
		logger:     logger,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Enqueue appends one chunk to the playback schedule. The chunk starts
// at max(now, previous chunk's scheduled end), so a late arrival after a
// stall plays promptly while overlapping starts never occur.
func (p *Player) Enqueue(pcm []byte) {
	if len(pcm) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink == nil {
		sink, err := p.openSink()
		if err != nil {
			p.logger.Error("open audio output failed", "error", err)
			return
		}
		p.sink = sink
		p.sched.reset()
	}

	start, end := p.sched.schedule(p.clock.Now(), PCMDuration(len(pcm), p.sampleRate))
	p.queue = append(p.queue, scheduledChunk{pcm: pcm, startAt: start, endAt: end})

	if !p.running {
		p.running = true
		go p.loop(p.gen)
	}
	p.cond.Signal()
}

func (p *Player) loop(gen int) {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && p.gen == gen {
			p.cond.Wait()
		}
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		chunk := p.queue[0]
		p.queue = p.queue[1:]
		p.inFlightEnd = chunk.endAt
		p.mu.Unlock()

		if wait := chunk.startAt.Sub(p.clock.Now()); wait > 0 {
			<-p.clock.After(wait)
		}

		p.mu.Lock()
		stale := p.gen != gen
		sink := p.sink
		p.mu.Unlock()
		if stale || sink == nil {
			return
		}
		if err := sink.Write(chunk.pcm); err != nil {
			p.logger.Warn("audio sink write failed", "error", err)
		}
	}
}

// ClearQueue drops every chunk that has not started playing. The chunk
// currently sounding is left to finish; the schedule rewinds to its end,
// so the next turn's first chunk lands right after it instead of after
// the dropped chunks' reserved time.
func (p *Player) ClearQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = nil
	p.sched.nextStart = p.inFlightEnd
}

// Stop halts playback immediately, discards the queue, and releases the
// output sink. Idempotent; Enqueue after Stop reopens the sink.
func (p *Player) Stop() {
	p.mu.Lock()
	sink := p.sink
	p.sink = nil
	p.queue = nil
	p.sched.reset()
	p.inFlightEnd = time.Time{}
	p.gen++
	p.running = false
	p.cond.Broadcast()
	p.mu.Unlock()

	if sink != nil {
		if err := sink.Close(); err != nil {
			p.logger.Warn("audio sink close failed", "error", err)
		}
	}
}
