// Package voice implements the two halves of the audio path: capture
// (microphone frames out) and playback (assistant chunks in). Both sides
// speak 16-bit signed little-endian mono PCM at 24 kHz.
package voice

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// SampleRate is the PCM sample rate mandated by the remote protocol.
	SampleRate = 24000

	// FrameSamples is the capture block size. ~170ms at 24 kHz; smaller
	// blocks reduce latency but raise per-frame overhead.
	FrameSamples = 4096

	bytesPerSample = 2
)

// EncodeSample converts one float sample to int16 with clamped rounding.
// The scale is asymmetric because int16 is: negatives map onto -32768,
// non-negatives onto 32767.
func EncodeSample(v float32) int16 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	if v < 0 {
		return int16(v * 0x8000)
	}
	return int16(v * 0x7FFF)
}

// DecodeSample inverts EncodeSample using the same asymmetric scale.
func DecodeSample(s int16) float32 {
	if s < 0 {
		return float32(s) / 0x8000
	}
	return float32(s) / 0x7FFF
}

// EncodePCM converts float samples to little-endian PCM16 bytes.
func EncodePCM(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(EncodeSample(v)))
	}
	return out
}

// DecodePCM converts little-endian PCM16 bytes back to float samples.
// A trailing odd byte is ignored.
func DecodePCM(pcm []byte) []float32 {
	n := len(pcm) / bytesPerSample
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = DecodeSample(s)
	}
	return out
}

// RMSEnergy computes the root-mean-square energy of PCM16 audio,
// normalized to 0.0..1.0.
func RMSEnergy(pcm []byte) float64 {
	samples := len(pcm) / bytesPerSample
	if samples == 0 {
		return 0
	}
	var sum float64
	for i := 0; i+1 < len(pcm); i += bytesPerSample {
		sample := int16(pcm[i]) | int16(pcm[i+1])<<8
		normalized := float64(sample) / 32768.0
		sum += normalized * normalized
	}
	return math.Sqrt(sum / float64(samples))
}

// LevelFromEnergy maps a 0..1 energy value to the advisory 0..100 volume
// level shown in the UI. Speech energy rarely exceeds ~0.35, so the ramp
// saturates there.
func LevelFromEnergy(energy float64) int {
	level := int(math.Round(energy / 0.35 * 100))
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// PCMDuration returns the playback duration of a PCM16 mono byte slice.
func PCMDuration(n int, sampleRate int) time.Duration {
	if sampleRate <= 0 || n <= 0 {
		return 0
	}
	return time.Duration(n/bytesPerSample) * time.Second / time.Duration(sampleRate)
}
