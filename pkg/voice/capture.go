package voice

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bila9630/giraffen-voice/pkg/core"
)

// InputDevice is the hardware microphone port. It delivers native float
// samples at SampleRate, mono, in arbitrarily sized batches.
type InputDevice interface {
	Start(onSamples func([]float32)) error
	Stop() error
}

// Capture owns the microphone stream. It slices incoming samples into
// fixed FrameSamples blocks, converts each to PCM16, and hands frames to
// the listener. Frames are not retained after emission.
type Capture struct {
	device InputDevice
	logger *slog.Logger

	level atomic.Int32

	mu      sync.Mutex
	active  bool
	pending []float32
}

// NewCapture wires a Capture to a hardware device.
func NewCapture(device InputDevice, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{device: device, logger: logger}
}

// Start requests the microphone and begins emitting frames. A device
// failure is reported through onErr as a core DeviceError; Start never
// panics across the device callback boundary.
func (c *Capture) Start(onFrame func(frame []byte), onErr func(error)) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.pending = c.pending[:0]
	c.mu.Unlock()

	err := c.device.Start(func(samples []float32) {
		c.push(samples, onFrame)
	})
	if err != nil {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
		c.logger.Error("microphone start failed", "error", err)
		if onErr != nil {
			onErr(core.NewDeviceError(err.Error()))
		}
	}
}

func (c *Capture) push(samples []float32, onFrame func([]byte)) {
	var frames [][]byte

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.pending = append(c.pending, samples...)
	for len(c.pending) >= FrameSamples {
		frames = append(frames, EncodePCM(c.pending[:FrameSamples]))
		c.pending = c.pending[FrameSamples:]
	}
	c.mu.Unlock()

	// Emit outside the lock: the listener typically does socket I/O.
	for _, frame := range frames {
		c.level.Store(int32(LevelFromEnergy(RMSEnergy(frame))))
		if onFrame != nil {
			onFrame(frame)
		}
	}
}

// Stop releases the microphone and halts level monitoring. Idempotent and
// safe to call before Start.
func (c *Capture) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.pending = nil
	c.mu.Unlock()

	if err := c.device.Stop(); err != nil {
		c.logger.Warn("microphone stop failed", "error", err)
	}
	c.level.Store(0)
}

// Active reports whether capture is running.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Level returns the advisory 0..100 input volume for UI feedback.
func (c *Capture) Level() int {
	return int(c.level.Load())
}
