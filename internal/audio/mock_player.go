package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PlayerState represents the current state of the voice track.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay   func(clip Clip)
	OnEffect func(clip Clip)
	OnPause  func()
	OnResume func()
	OnStop   func()
}

// MockPlayerMetrics counts calls made on a MockPlayer.
type MockPlayerMetrics struct {
	PlayCount   int64
	EffectCount int64
	PauseCount  int64
	ResumeCount int64
	StopCount   int64
}

// MockPlayer records what would have been played without touching a sound
// device. Clips never finish on their own; tests call Finish to simulate
// the end of the current clip.
type MockPlayer struct {
	mu      sync.Mutex
	state   atomic.Int32
	current *Clip
	done    func()
	played  []Clip
	effects []Clip
	volume  float64

	callbacks MockCallbacks

	playCount   atomic.Int64
	effectCount atomic.Int64
	pauseCount  atomic.Int64
	resumeCount atomic.Int64
	stopCount   atomic.Int64
}

// NewMockPlayer creates a mock player with optional callbacks.
func NewMockPlayer(callbacks MockCallbacks) *MockPlayer {
	mp := &MockPlayer{volume: 1.0, callbacks: callbacks}
	mp.state.Store(int32(StateStopped))
	return mp
}

// DefaultMockPlayer creates a mock player without callbacks.
func DefaultMockPlayer() *MockPlayer {
	return NewMockPlayer(MockCallbacks{})
}

// Play puts clip on the voice track, replacing the current one silently.
func (mp *MockPlayer) Play(clip Clip, done func()) error {
	if clip.Empty() {
		return ErrEmptyAudio
	}

	mp.mu.Lock()
	if PlayerState(mp.state.Load()) == StateClosed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	c := clip
	mp.current = &c
	mp.done = done
	mp.played = append(mp.played, clip)
	mp.state.Store(int32(StatePlaying))
	mp.playCount.Add(1)
	cb := mp.callbacks.OnPlay
	mp.mu.Unlock()

	if cb != nil {
		cb(clip)
	}
	return nil
}

// PlayEffect records an effect clip.
func (mp *MockPlayer) PlayEffect(clip Clip) error {
	if clip.Empty() {
		return ErrEmptyAudio
	}

	mp.mu.Lock()
	if PlayerState(mp.state.Load()) == StateClosed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	mp.effects = append(mp.effects, clip)
	mp.effectCount.Add(1)
	cb := mp.callbacks.OnEffect
	mp.mu.Unlock()

	if cb != nil {
		cb(clip)
	}
	return nil
}

// Finish simulates the current clip reaching its end. It reports whether
// a clip was playing.
func (mp *MockPlayer) Finish() bool {
	mp.mu.Lock()
	if mp.current == nil || PlayerState(mp.state.Load()) != StatePlaying {
		mp.mu.Unlock()
		return false
	}
	done := mp.done
	mp.current = nil
	mp.done = nil
	mp.state.Store(int32(StateStopped))
	mp.mu.Unlock()

	if done != nil {
		done()
	}
	return true
}

// Stop clears the voice track without reporting completion.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	mp.current = nil
	mp.done = nil
	if PlayerState(mp.state.Load()) != StateClosed {
		mp.state.Store(int32(StateStopped))
	}
	mp.stopCount.Add(1)
	cb := mp.callbacks.OnStop
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// Pause marks the voice track paused.
func (mp *MockPlayer) Pause() error {
	mp.mu.Lock()
	state := PlayerState(mp.state.Load())
	if state == StateClosed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	if state == StatePlaying {
		mp.state.Store(int32(StatePaused))
	}
	mp.pauseCount.Add(1)
	cb := mp.callbacks.OnPause
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// Resume undoes Pause.
func (mp *MockPlayer) Resume() error {
	mp.mu.Lock()
	state := PlayerState(mp.state.Load())
	if state == StateClosed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	if state == StatePaused {
		mp.state.Store(int32(StatePlaying))
	}
	mp.resumeCount.Add(1)
	cb := mp.callbacks.OnResume
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (mp *MockPlayer) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	mp.mu.Lock()
	mp.volume = volume
	mp.mu.Unlock()
	return nil
}

// Close marks the player closed.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.current = nil
	mp.done = nil
	mp.state.Store(int32(StateClosed))
	return nil
}

// GetState returns the voice track state.
func (mp *MockPlayer) GetState() PlayerState {
	return PlayerState(mp.state.Load())
}

// IsPlaying reports whether a clip is on the voice track and not paused.
func (mp *MockPlayer) IsPlaying() bool {
	return mp.GetState() == StatePlaying
}

// Current returns the clip on the voice track.
func (mp *MockPlayer) Current() (Clip, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.current == nil {
		return Clip{}, false
	}
	return *mp.current, true
}

// Played returns every clip passed to Play, in order.
func (mp *MockPlayer) Played() []Clip {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	out := make([]Clip, len(mp.played))
	copy(out, mp.played)
	return out
}

// Effects returns every clip passed to PlayEffect, in order.
func (mp *MockPlayer) Effects() []Clip {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	out := make([]Clip, len(mp.effects))
	copy(out, mp.effects)
	return out
}

// GetVolume returns the current volume.
func (mp *MockPlayer) GetVolume() float64 {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.volume
}

// GetMetrics returns playback metrics for testing.
func (mp *MockPlayer) GetMetrics() MockPlayerMetrics {
	return MockPlayerMetrics{
		PlayCount:   mp.playCount.Load(),
		EffectCount: mp.effectCount.Load(),
		PauseCount:  mp.pauseCount.Load(),
		ResumeCount: mp.resumeCount.Load(),
		StopCount:   mp.stopCount.Load(),
	}
}
