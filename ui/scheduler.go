package ui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// runMsg carries a game callback into the Bubble Tea loop so game state is
// only touched from Update.
type runMsg struct{ fn func() }

// programScheduler implements minigame.Scheduler on top of a running
// tea.Program.
type programScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func newProgramScheduler() *programScheduler {
	return &programScheduler{}
}

func (s *programScheduler) bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *programScheduler) After(d time.Duration, fn func()) func() {
	var canceled atomic.Bool
	t := time.AfterFunc(d, func() {
		if canceled.Load() {
			return
		}
		s.deliver(runMsg{fn: func() {
			if !canceled.Load() {
				fn()
			}
		}})
	})
	return func() {
		canceled.Store(true)
		t.Stop()
	}
}

// Post may be called from inside Update, where a synchronous Send would
// block the loop it is waiting on.
func (s *programScheduler) Post(fn func()) {
	go s.deliver(runMsg{fn: fn})
}

func (s *programScheduler) notify(msg tea.Msg) {
	go s.deliver(msg)
}

func (s *programScheduler) deliver(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
