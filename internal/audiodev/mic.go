// Package audiodev binds the voice package's hardware ports to real
// devices: malgo for the microphone, oto for the speaker.
package audiodev

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/bila9630/giraffen-voice/pkg/voice"
)

const channels = 1

// Microphone is a mono capture device at voice.SampleRate. It satisfies
// voice.InputDevice.
type Microphone struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

// NewMicrophone returns an unopened microphone; the hardware is only
// touched on Start.
func NewMicrophone() *Microphone {
	return &Microphone{}
}

// Start opens the default capture device and delivers converted samples
// to onSamples from the device callback.
func (m *Microphone) Start(onSamples func([]float32)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		return nil
	}

	ctxConfig := malgo.ContextConfig{}
	ctxConfig.ThreadPriority = malgo.ThreadPriorityRealtime
	ctx, err := malgo.InitContext(nil, ctxConfig, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = channels
	deviceConfig.SampleRate = voice.SampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onSamples(voice.DecodePCM(input))
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("init microphone: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("start microphone: %w", err)
	}

	m.ctx = ctx
	m.device = device
	return nil
}

// Stop releases the capture device and its context. Safe to call when
// the microphone was never started.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("stop microphone: %w", err)
	}
	m.device.Uninit()
	m.device = nil
	_ = m.ctx.Uninit()
	m.ctx.Free()
	m.ctx = nil
	return nil
}
