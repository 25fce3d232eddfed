package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// ErrPlayerClosed is returned by operations on a closed player.
var ErrPlayerClosed = errors.New("player is closed")

// pollInterval is how often the voice watcher checks for natural completion.
const pollInterval = 20 * time.Millisecond

// Player plays clips through an oto context. Narration runs on a single
// voice track; effects are mixed on top and never interrupt it.
type Player struct {
	context *oto.Context

	mu      sync.Mutex
	voice   *track
	effects map[*track]struct{}
	closed  bool

	state  atomic.Int32  // PlayerState
	volume atomic.Uint64 // volume * 1e6

	sampleRate int
}

// track keeps a playing clip's bytes reachable until oto is done with them.
type track struct {
	player *oto.Player
	data   []byte
	stop   chan struct{}
	done   func()
	once   sync.Once
}

func (t *track) close() {
	t.once.Do(func() {
		close(t.stop)
		t.player.Close()
		t.data = nil
	})
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int
	Channels   int
	BufferSize time.Duration
	Volume     float64
}

// DefaultPlayerConfig returns the configuration used for narration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: SpeechSampleRate,
		Channels:   1,
		BufferSize: 100 * time.Millisecond,
		Volume:     1.0,
	}
}

func validateConfig(config PlayerConfig) error {
	if config.SampleRate < 8000 || config.SampleRate > 192000 {
		return fmt.Errorf("sample rate must be between 8000 and 192000 Hz, got %d", config.SampleRate)
	}
	if config.Channels != 1 {
		return fmt.Errorf("only mono output is supported, got %d channels", config.Channels)
	}
	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}
	return nil
}

// NewPlayer opens the sound device. Only one oto context may exist per
// process, so callers should create a single Player and share it.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   config.BufferSize,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	p := &Player{
		context:    ctx,
		effects:    make(map[*track]struct{}),
		sampleRate: config.SampleRate,
	}
	p.state.Store(int32(StateStopped))
	_ = p.SetVolume(config.Volume)
	return p, nil
}

// SampleRate returns the rate the device was opened with.
func (p *Player) SampleRate() int {
	return p.sampleRate
}

// Play replaces whatever is on the voice track with clip. done is called
// once if the clip plays to the end; it is never called after Stop or
// when another Play takes over the track.
func (p *Player) Play(clip Clip, done func()) error {
	if clip.Empty() {
		return ErrEmptyAudio
	}
	clip = Resample(clip, p.sampleRate)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	p.stopVoiceLocked()

	t := p.newTrack(clip)
	t.done = done
	p.voice = t
	t.player.Play()
	p.state.Store(int32(StatePlaying))

	go p.watchVoice(t)
	return nil
}

// PlayEffect mixes a short clip over the voice track.
func (p *Player) PlayEffect(clip Clip) error {
	if clip.Empty() {
		return ErrEmptyAudio
	}
	clip = Resample(clip, p.sampleRate)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	t := p.newTrack(clip)
	p.effects[t] = struct{}{}
	t.player.Play()

	go p.watchEffect(t)
	return nil
}

func (p *Player) newTrack(clip Clip) *track {
	data := float32LE(clip.Samples)
	pl := p.context.NewPlayer(bytes.NewReader(data))
	pl.SetVolume(p.getVolume())
	return &track{player: pl, data: data, stop: make(chan struct{})}
}

func (p *Player) watchVoice(t *track) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.player.IsPlaying() {
				continue
			}
			p.mu.Lock()
			if p.voice != t {
				p.mu.Unlock()
				return
			}
			p.voice = nil
			t.close()
			p.state.Store(int32(StateStopped))
			p.mu.Unlock()

			log.Debug("Voice clip finished")
			if t.done != nil {
				t.done()
			}
			return
		}
	}
}

func (p *Player) watchEffect(t *track) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.player.IsPlaying() {
				continue
			}
			p.mu.Lock()
			delete(p.effects, t)
			t.close()
			p.mu.Unlock()
			return
		}
	}
}

// Stop silences the voice track without reporting completion.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopVoiceLocked()
	return nil
}

func (p *Player) stopVoiceLocked() {
	if p.voice == nil {
		return
	}
	p.voice.player.Pause()
	p.voice.close()
	p.voice = nil
	if PlayerState(p.state.Load()) != StateClosed {
		p.state.Store(int32(StateStopped))
	}
}

// Pause suspends the device clock. Everything that is playing, the voice
// track included, holds its position until Resume.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	if err := p.context.Suspend(); err != nil {
		return fmt.Errorf("suspend audio context: %w", err)
	}
	if p.voice != nil {
		p.state.Store(int32(StatePaused))
	}
	return nil
}

// Resume restarts the device clock after Pause.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	if err := p.context.Resume(); err != nil {
		return fmt.Errorf("resume audio context: %w", err)
	}
	if p.voice != nil {
		p.state.Store(int32(StatePlaying))
	}
	return nil
}

// IsPlaying reports whether the voice track is audible.
func (p *Player) IsPlaying() bool {
	return PlayerState(p.state.Load()) == StatePlaying
}

// GetState returns the voice track state.
func (p *Player) GetState() PlayerState {
	return PlayerState(p.state.Load())
}

// SetVolume sets the playback volume (0.0 to 1.0) for current and future clips.
func (p *Player) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.volume.Store(uint64(volume * 1000000))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.voice != nil {
		p.voice.player.SetVolume(volume)
	}
	for t := range p.effects {
		t.player.SetVolume(volume)
	}
	return nil
}

func (p *Player) getVolume() float64 {
	return float64(p.volume.Load()) / 1000000.0
}

// Close stops all playback. The oto context itself lives until process exit.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.stopVoiceLocked()
	for t := range p.effects {
		t.close()
		delete(p.effects, t)
	}
	p.closed = true
	p.state.Store(int32(StateClosed))
	return nil
}
