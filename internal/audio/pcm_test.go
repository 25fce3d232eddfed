package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

func TestDecodePCM16(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []float32
	}{
		{
			name: "zero",
			data: []byte{0x00, 0x00},
			want: []float32{0},
		},
		{
			name: "extremes",
			data: []byte{0x00, 0x80, 0xff, 0x7f},
			want: []float32{-1, 32767.0 / 32768},
		},
		{
			name: "odd length drops trailing byte",
			data: []byte{0x00, 0x40, 0x00, 0xc0, 0x7f},
			want: []float32{0.5, -0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, err := DecodePCM16(tt.data, SpeechSampleRate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(clip.Samples) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(clip.Samples), len(tt.want))
			}
			for i, s := range clip.Samples {
				if s != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, s, tt.want[i])
				}
				if s < -1 || s > 1 {
					t.Errorf("sample %d out of range: %v", i, s)
				}
			}
			if clip.SampleRate != SpeechSampleRate {
				t.Errorf("sample rate = %d", clip.SampleRate)
			}
		})
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x01}} {
		if _, err := DecodePCM16(data, SpeechSampleRate); !errors.Is(err, ErrEmptyAudio) {
			t.Errorf("DecodePCM16(%v) error = %v, want ErrEmptyAudio", data, err)
		}
	}
}

func TestDecodePCM16SampleCount(t *testing.T) {
	const n = 1000
	data := make([]byte, n*2)
	for i := range n {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i*37-18000)))
	}

	clip, err := DecodePCM16(data, SpeechSampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clip.Samples) != n {
		t.Fatalf("got %d samples, want %d", len(clip.Samples), n)
	}

	odd, err := DecodePCM16(append(data, 0x42), SpeechSampleRate)
	if err != nil {
		t.Fatalf("odd buffer: %v", err)
	}
	if len(odd.Samples) != n {
		t.Errorf("odd buffer gave %d samples, want %d", len(odd.Samples), n)
	}
}

func TestClipDuration(t *testing.T) {
	clip := Clip{Samples: make([]float32, 12000), SampleRate: 24000}
	if got := clip.Duration(); got != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", got)
	}
	if (Clip{}).Duration() != 0 {
		t.Error("zero clip should have zero duration")
	}
}

func TestEncodePCM16RoundTrip(t *testing.T) {
	data := []byte{0x00, 0x40, 0x00, 0xc0, 0x00, 0x80, 0x34, 0x12}
	clip, err := DecodePCM16(data, SpeechSampleRate)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := EncodePCM16(clip); !bytes.Equal(got, data) {
		t.Errorf("encode = %x, want %x", got, data)
	}

	clamped := EncodePCM16(Clip{Samples: []float32{2, -2}})
	if v := int16(binary.LittleEndian.Uint16(clamped)); v != 32767 {
		t.Errorf("positive clamp = %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(clamped[2:])); v != -32768 {
		t.Errorf("negative clamp = %d", v)
	}
}

func TestEncodeWAV(t *testing.T) {
	clip := Clip{Samples: []float32{0, 0.5, -0.5}, SampleRate: 24000}

	var buf bytes.Buffer
	if err := EncodeWAV(&buf, clip); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	b := buf.Bytes()
	if len(b) != 44+6 {
		t.Fatalf("wav length = %d, want 50", len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q %q %q", b[0:4], b[8:12], b[36:40])
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 24000 {
		t.Errorf("sample rate = %d", rate)
	}
	if size := binary.LittleEndian.Uint32(b[40:44]); size != 6 {
		t.Errorf("data size = %d", size)
	}

	if err := EncodeWAV(&buf, Clip{}); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("empty clip error = %v", err)
	}
}

func TestResample(t *testing.T) {
	c := Clip{Samples: []float32{0, 1, 0, -1}, SampleRate: 24000}

	if got := Resample(c, 24000); len(got.Samples) != 4 {
		t.Errorf("same rate changed length to %d", len(got.Samples))
	}

	up := Resample(c, 48000)
	if up.SampleRate != 48000 || len(up.Samples) != 8 {
		t.Fatalf("upsampled to %d samples at %d Hz", len(up.Samples), up.SampleRate)
	}
	if up.Samples[1] != 0.5 {
		t.Errorf("interpolated sample = %v, want 0.5", up.Samples[1])
	}
	if up.Duration() != c.Duration() {
		t.Errorf("duration %s, want %s", up.Duration(), c.Duration())
	}

	down := Resample(c, 12000)
	if len(down.Samples) != 2 || down.Samples[1] != 0 {
		t.Errorf("downsampled = %v", down.Samples)
	}
}
