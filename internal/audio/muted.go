package audio

import (
	"sync"
	"time"
)

// MutedPlayer is used when no sound device is available. It keeps the
// timing of real playback, so narration still advances through its queue,
// but produces no sound.
type MutedPlayer struct {
	mu        sync.Mutex
	timer     *time.Timer
	remaining time.Duration
	started   time.Time
	done      func()
	gen       uint64
	paused    bool
}

// NewMutedPlayer returns a player that plays nothing.
func NewMutedPlayer() *MutedPlayer {
	return &MutedPlayer{}
}

// Play schedules done after the clip's duration.
func (m *MutedPlayer) Play(clip Clip, done func()) error {
	if clip.Empty() {
		return ErrEmptyAudio
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	m.gen++
	m.done = done
	m.remaining = clip.Duration()
	if !m.paused {
		m.startLocked()
	}
	return nil
}

func (m *MutedPlayer) startLocked() {
	gen := m.gen
	m.started = time.Now()
	m.timer = time.AfterFunc(m.remaining, func() {
		m.mu.Lock()
		if m.gen != gen || m.done == nil {
			m.mu.Unlock()
			return
		}
		done := m.done
		m.done = nil
		m.timer = nil
		m.mu.Unlock()
		done()
	})
}

func (m *MutedPlayer) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.done = nil
	m.gen++
}

// PlayEffect does nothing.
func (m *MutedPlayer) PlayEffect(Clip) error { return nil }

// Stop cancels the pending completion.
func (m *MutedPlayer) Stop() error {
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
	return nil
}

// Pause freezes the remaining time of the current clip.
func (m *MutedPlayer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paused {
		return nil
	}
	m.paused = true
	if m.timer != nil && m.timer.Stop() {
		m.remaining -= time.Since(m.started)
		m.timer = nil
	}
	return nil
}

// Resume continues the countdown frozen by Pause.
func (m *MutedPlayer) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.paused {
		return nil
	}
	m.paused = false
	if m.done != nil && m.timer == nil {
		m.remaining = max(m.remaining, 0)
		m.startLocked()
	}
	return nil
}

// Close cancels the pending completion.
func (m *MutedPlayer) Close() error {
	return m.Stop()
}
