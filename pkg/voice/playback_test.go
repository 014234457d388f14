package voice

import (
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when told to; After never blocks so the drain
// loop runs at test speed.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

type fakeSink struct {
	mu     sync.Mutex
	writes [][]byte
	closed int
	gate   chan struct{} // if set, Write blocks until the gate closes
	wrote  chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{wrote: make(chan struct{}, 16)}
}

func (s *fakeSink) Write(pcm []byte) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.writes = append(s.writes, append([]byte(nil), pcm...))
	s.mu.Unlock()
	s.wrote <- struct{}{}
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSink) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func waitWrites(t *testing.T, s *fakeSink, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-s.wrote:
		case <-deadline:
			t.Fatalf("timed out waiting for write %d/%d", i+1, n)
		}
	}
}

// pcmOfDuration builds a chunk whose playback duration is exactly d.
func pcmOfDuration(d time.Duration) []byte {
	samples := int(d * SampleRate / time.Second)
	return make([]byte, samples*2)
}

func TestScheduler_BackToBackChunks(t *testing.T) {
	// Two chunks of 200ms and 150ms, the second arriving 50ms of wall
	// clock after the first: its start must equal the first chunk's end
	// exactly, independent of the arrival gap.
	var s scheduler
	t0 := time.Unix(2000, 0)

	start1, end1 := s.schedule(t0, 200*time.Millisecond)
	if !start1.Equal(t0) {
		t.Fatalf("first chunk start = %v, want now (%v)", start1, t0)
	}

	start2, end2 := s.schedule(t0.Add(50*time.Millisecond), 150*time.Millisecond)
	if !start2.Equal(end1) {
		t.Fatalf("second chunk start = %v, want first chunk end %v", start2, end1)
	}
	if got := end2.Sub(t0); got != 350*time.Millisecond {
		t.Fatalf("total scheduled duration = %v, want 350ms", got)
	}
}

func TestScheduler_SumOfDurationsNoOverlap(t *testing.T) {
	var s scheduler
	t0 := time.Unix(2000, 0)
	durations := []time.Duration{
		120 * time.Millisecond,
		80 * time.Millisecond,
		250 * time.Millisecond,
		40 * time.Millisecond,
	}

	var total time.Duration
	prevEnd := t0
	for i, d := range durations {
		// Arrivals drift later but always before the previous end.
		arrival := t0.Add(time.Duration(i) * 30 * time.Millisecond)
		start, end := s.schedule(arrival, d)
		if start.Before(prevEnd) && i > 0 {
			t.Fatalf("chunk %d overlaps: start %v < previous end %v", i, start, prevEnd)
		}
		if i > 0 && !start.Equal(prevEnd) {
			t.Fatalf("chunk %d gap: start %v != previous end %v", i, start, prevEnd)
		}
		prevEnd = end
		total += d
	}
	if got := prevEnd.Sub(t0); got != total {
		t.Fatalf("audible duration = %v, want sum %v", got, total)
	}
}

func TestScheduler_GapAfterStallResumesAtNow(t *testing.T) {
	var s scheduler
	t0 := time.Unix(2000, 0)

	_, end1 := s.schedule(t0, 100*time.Millisecond)

	// Next chunk arrives well after the schedule drained: it plays at its
	// arrival time, reflecting the real network stall.
	late := end1.Add(3 * time.Second)
	start2, _ := s.schedule(late, 100*time.Millisecond)
	if !start2.Equal(late) {
		t.Fatalf("post-stall start = %v, want arrival time %v", start2, late)
	}
}

func TestPlayer_FIFOOrder(t *testing.T) {
	sink := newFakeSink()
	clock := newFakeClock()
	p := NewPlayer(func() (Sink, error) { return sink, nil }, clock, nil)
	defer p.Stop()

	a := pcmOfDuration(20 * time.Millisecond)
	b := pcmOfDuration(30 * time.Millisecond)
	c := pcmOfDuration(10 * time.Millisecond)
	a[0], b[0], c[0] = 1, 2, 3

	p.Enqueue(a)
	p.Enqueue(b)
	p.Enqueue(c)
	waitWrites(t, sink, 3)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.writes) != 3 {
		t.Fatalf("writes = %d, want 3", len(sink.writes))
	}
	for i, marker := range []byte{1, 2, 3} {
		if sink.writes[i][0] != marker {
			t.Fatalf("write %d carries marker %d, want %d", i, sink.writes[i][0], marker)
		}
	}
}

func TestPlayer_ClearQueueKeepsInFlightChunk(t *testing.T) {
	sink := newFakeSink()
	sink.gate = make(chan struct{})
	clock := newFakeClock()
	p := NewPlayer(func() (Sink, error) { return sink, nil }, clock, nil)
	defer p.Stop()

	p.Enqueue(pcmOfDuration(50 * time.Millisecond))
	// Give the drain loop time to pick up the first chunk and block in Write.
	time.Sleep(20 * time.Millisecond)

	p.Enqueue(pcmOfDuration(50 * time.Millisecond))
	p.Enqueue(pcmOfDuration(50 * time.Millisecond))
	p.ClearQueue()
	close(sink.gate)

	waitWrites(t, sink, 1)
	time.Sleep(50 * time.Millisecond)
	if got := sink.writeCount(); got != 1 {
		t.Fatalf("writes after ClearQueue = %d, want only the in-flight chunk", got)
	}
}

func TestPlayer_ClearQueueRewindsScheduleToInFlightEnd(t *testing.T) {
	sink := newFakeSink()
	sink.gate = make(chan struct{})
	clock := newFakeClock()
	p := NewPlayer(func() (Sink, error) { return sink, nil }, clock, nil)
	defer p.Stop()

	t0 := clock.Now()
	p.Enqueue(pcmOfDuration(100 * time.Millisecond))
	// Give the drain loop time to pick up the first chunk and block in Write.
	time.Sleep(20 * time.Millisecond)

	// Two queued chunks reserve through t0+1100ms, then get dropped.
	p.Enqueue(pcmOfDuration(500 * time.Millisecond))
	p.Enqueue(pcmOfDuration(500 * time.Millisecond))
	p.ClearQueue()

	// The next turn's first chunk must start when the sounding chunk
	// ends, not after the dropped chunks' reserved time.
	p.Enqueue(pcmOfDuration(50 * time.Millisecond))
	inFlightEnd := t0.Add(100 * time.Millisecond)
	p.mu.Lock()
	if len(p.queue) != 1 {
		p.mu.Unlock()
		t.Fatalf("queue length = %d, want 1", len(p.queue))
	}
	start := p.queue[0].startAt
	p.mu.Unlock()
	if !start.Equal(inFlightEnd) {
		t.Fatalf("post-clear chunk starts at %v, want in-flight end %v", start, inFlightEnd)
	}

	close(sink.gate)
	waitWrites(t, sink, 2)
}

func TestPlayer_ClearQueueWhileSilentSchedulesAtNow(t *testing.T) {
	sink := newFakeSink()
	clock := newFakeClock()
	p := NewPlayer(func() (Sink, error) { return sink, nil }, clock, nil)
	defer p.Stop()

	p.Enqueue(pcmOfDuration(10 * time.Millisecond))
	waitWrites(t, sink, 1)

	// Everything has played out; clearing must not push the next chunk
	// into the past or the future.
	clock.Advance(time.Second)
	p.ClearQueue()
	p.Enqueue(pcmOfDuration(10 * time.Millisecond))

	// Enqueue schedules under the lock, so the reserved end is stable
	// even if the drain loop already popped the chunk.
	wantEnd := clock.Now().Add(10 * time.Millisecond)
	p.mu.Lock()
	gotEnd := p.sched.nextStart
	p.mu.Unlock()
	if !gotEnd.Equal(wantEnd) {
		t.Fatalf("schedule end after post-silence enqueue = %v, want %v", gotEnd, wantEnd)
	}
	waitWrites(t, sink, 1)
}

func TestPlayer_StopReleasesSinkAndIsIdempotent(t *testing.T) {
	sink := newFakeSink()
	clock := newFakeClock()
	opens := 0
	p := NewPlayer(func() (Sink, error) { opens++; return sink, nil }, clock, nil)

	p.Enqueue(pcmOfDuration(10 * time.Millisecond))
	waitWrites(t, sink, 1)

	p.Stop()
	p.Stop()
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times, want 1", sink.closed)
	}

	// A new chunk after Stop reopens the sink and plays promptly.
	p.Enqueue(pcmOfDuration(10 * time.Millisecond))
	waitWrites(t, sink, 1)
	if opens != 2 {
		t.Fatalf("openSink called %d times, want 2", opens)
	}
	p.Stop()
}

func TestPlayer_StopBeforeEnqueueIsSafe(t *testing.T) {
	p := NewPlayer(func() (Sink, error) { return newFakeSink(), nil }, newFakeClock(), nil)
	p.Stop()
	p.ClearQueue()
}
