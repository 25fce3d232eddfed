package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// SpeechSampleRate is the rate of the raw PCM returned by the speech backend.
const SpeechSampleRate = 24000

// ErrEmptyAudio is returned when there is nothing to decode or play.
var ErrEmptyAudio = errors.New("empty audio buffer")

// Clip is decoded mono audio in the range [-1, 1].
type Clip struct {
	Samples    []float32
	SampleRate int
}

// Duration returns how long the clip plays for.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Empty reports whether the clip has no samples.
func (c Clip) Empty() bool {
	return len(c.Samples) == 0
}

// DecodePCM16 decodes little-endian signed 16-bit mono PCM. A trailing odd
// byte is dropped. Each sample is divided by 32768.
func DecodePCM16(data []byte, sampleRate int) (Clip, error) {
	if len(data) == 0 {
		return Clip{}, ErrEmptyAudio
	}
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return Clip{}, ErrEmptyAudio
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768
	}
	return Clip{Samples: samples, SampleRate: sampleRate}, nil
}

// EncodePCM16 converts the clip back to little-endian signed 16-bit PCM,
// clamping samples outside [-1, 1].
func EncodePCM16(c Clip) []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		v := math.Round(float64(s) * 32768)
		v = max(math.MinInt16, min(math.MaxInt16, v))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}

// Resample converts c to rate by linear interpolation.
func Resample(c Clip, rate int) Clip {
	if c.SampleRate == rate || c.SampleRate <= 0 || rate <= 0 || c.Empty() {
		return c
	}
	n := int(int64(len(c.Samples)) * int64(rate) / int64(c.SampleRate))
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	step := float64(c.SampleRate) / float64(rate)
	last := len(c.Samples) - 1
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = c.Samples[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = c.Samples[j]*(1-frac) + c.Samples[j+1]*frac
	}
	return Clip{Samples: out, SampleRate: rate}
}

// float32LE lays the samples out in the format oto expects for
// FormatFloat32LE. The returned slice must stay alive while it plays.
func float32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
