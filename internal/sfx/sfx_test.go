package sfx

import (
	"math"
	"testing"
	"time"
)

func TestRenderLengths(t *testing.T) {
	b := NewBank(24000)

	tests := []struct {
		kind Kind
		want time.Duration
	}{
		{Click, 50 * time.Millisecond},
		{Pop, 100 * time.Millisecond},
		{Success, 300 * time.Millisecond},
		{Error, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := b.Clip(tt.kind)
			if c.SampleRate != 24000 {
				t.Errorf("sample rate = %d", c.SampleRate)
			}
			if got := c.Duration(); got != tt.want {
				t.Errorf("duration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderStaysInRange(t *testing.T) {
	b := NewBank(24000)
	clips := []struct {
		name string
		peak float64
	}{
		{"click", 0.1},
		{"pop", 0.5},
		{"success", 0.3},
		{"error", 0.3},
	}
	for i, c := range clips {
		clip := b.Clip(Kind(i))
		for j, s := range clip.Samples {
			if math.Abs(float64(s)) > c.peak+1e-6 {
				t.Fatalf("%s sample %d = %v exceeds peak %v", c.name, j, s, c.peak)
			}
		}
	}
}

func TestEnvelopeDecays(t *testing.T) {
	clip := Render(ToneVoice(440), 24000)
	n := len(clip.Samples)

	peak := func(from, to int) float64 {
		m := 0.0
		for _, s := range clip.Samples[from:to] {
			m = max(m, math.Abs(float64(s)))
		}
		return m
	}
	head := peak(0, n/10)
	tail := peak(n-n/10, n)
	if tail >= head {
		t.Errorf("tone did not decay: head %v tail %v", head, tail)
	}
}

func TestBankCaches(t *testing.T) {
	b := NewBank(24000)
	a := b.Tone(261.63)
	c := b.Tone(261.63)
	if &a.Samples[0] != &c.Samples[0] {
		t.Error("tone was rendered twice")
	}
	if len(b.Tone(523.25).Samples) != len(a.Samples) {
		t.Error("tones should share a length")
	}
}

func TestOscillateSawtooth(t *testing.T) {
	if v := oscillate(Sawtooth, 0); v != 0 {
		t.Errorf("saw(0) = %v", v)
	}
	if v := oscillate(Sawtooth, math.Pi/2); math.Abs(v-0.5) > 1e-9 {
		t.Errorf("saw(pi/2) = %v", v)
	}
}
