package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeWAV writes the clip as a 16-bit mono RIFF/WAVE file.
func EncodeWAV(w io.Writer, c Clip) error {
	if c.Empty() {
		return ErrEmptyAudio
	}
	pcm := EncodePCM16(c)

	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := c.SampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + len(pcm)),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(c.SampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(len(pcm)),
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}
