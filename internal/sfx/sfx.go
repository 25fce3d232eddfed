// Package sfx synthesizes the short interface sounds (clicks, pops, success
// and error jingles, musical tones) as PCM clips.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/minikastronot/minik/internal/audio"
)

// Kind names an interface sound.
type Kind int

const (
	Click Kind = iota
	Pop
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Click:
		return "click"
	case Pop:
		return "pop"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Waveform is the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
)

// Voice describes one oscillator note: a frequency sweep and a gain
// envelope, both starting at time zero.
type Voice struct {
	Wave       Waveform
	StartFreq  float64
	EndFreq    float64
	Sweep      time.Duration // exponential frequency ramp length; 0 holds StartFreq
	StartGain  float64
	EndGain    float64
	LinearGain bool // linear instead of exponential gain ramp
	Length     time.Duration
}

var voices = map[Kind]Voice{
	Click: {
		Wave: Sine, StartFreq: 800, EndFreq: 800,
		StartGain: 0.1, EndGain: 0.01, Length: 50 * time.Millisecond,
	},
	Pop: {
		Wave: Sine, StartFreq: 800, EndFreq: 50, Sweep: 100 * time.Millisecond,
		StartGain: 0.5, EndGain: 0.01, Length: 100 * time.Millisecond,
	},
	Success: {
		Wave: Sine, StartFreq: 500, EndFreq: 1000, Sweep: 100 * time.Millisecond,
		StartGain: 0.3, EndGain: 0.01, Length: 300 * time.Millisecond,
	},
	Error: {
		Wave: Sawtooth, StartFreq: 200, EndFreq: 100, Sweep: 200 * time.Millisecond,
		StartGain: 0.3, EndGain: 0.01, LinearGain: true, Length: 200 * time.Millisecond,
	},
}

// ToneVoice is a plain sine note at freq, as used by the melody game.
func ToneVoice(freq float64) Voice {
	return Voice{
		Wave: Sine, StartFreq: freq, EndFreq: freq,
		StartGain: 0.3, EndGain: 0.01, Length: 300 * time.Millisecond,
	}
}

// Render synthesizes v at the given sample rate.
func Render(v Voice, sampleRate int) audio.Clip {
	n := int(int64(v.Length) * int64(sampleRate) / int64(time.Second))
	samples := make([]float32, n)

	sweep := v.Sweep.Seconds()
	length := v.Length.Seconds()
	phase := 0.0
	for i := range samples {
		t := float64(i) / float64(sampleRate)

		freq := v.StartFreq
		if sweep > 0 && v.EndFreq != v.StartFreq {
			freq = expRamp(v.StartFreq, v.EndFreq, min(t/sweep, 1))
		}

		var gain float64
		if v.LinearGain {
			gain = v.StartGain + (v.EndGain-v.StartGain)*(t/length)
		} else {
			gain = expRamp(v.StartGain, v.EndGain, t/length)
		}

		samples[i] = float32(gain * oscillate(v.Wave, phase))
		phase += 2 * math.Pi * freq / float64(sampleRate)
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	return audio.Clip{Samples: samples, SampleRate: sampleRate}
}

func expRamp(from, to, frac float64) float64 {
	return from * math.Pow(to/from, frac)
}

func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case Sawtooth:
		x := phase / (2 * math.Pi)
		return 2 * (x - math.Floor(x+0.5))
	default:
		return math.Sin(phase)
	}
}

// Bank renders each sound once per sample rate and hands out the cached clip.
type Bank struct {
	sampleRate int

	mu    sync.Mutex
	kinds map[Kind]audio.Clip
	tones map[float64]audio.Clip
}

// NewBank creates a bank rendering at sampleRate.
func NewBank(sampleRate int) *Bank {
	return &Bank{
		sampleRate: sampleRate,
		kinds:      make(map[Kind]audio.Clip),
		tones:      make(map[float64]audio.Clip),
	}
}

// Clip returns the rendered sound for k.
func (b *Bank) Clip(k Kind) audio.Clip {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.kinds[k]; ok {
		return c
	}
	v, ok := voices[k]
	if !ok {
		v = voices[Click]
	}
	c := Render(v, b.sampleRate)
	b.kinds[k] = c
	return c
}

// Tone returns a rendered sine note.
func (b *Bank) Tone(freq float64) audio.Clip {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.tones[freq]; ok {
		return c
	}
	c := Render(ToneVoice(freq), b.sampleRate)
	b.tones[freq] = c
	return c
}
