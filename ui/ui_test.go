package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/session"
)

type silentSynth struct{}

func (silentSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	return make([]byte, 2*len(text)), nil
}

func newTestModel(t *testing.T) (model, *minigame.ManualScheduler) {
	t.Helper()
	sess := session.New(session.Config{
		Synth:   silentSynth{},
		Voice:   audio.DefaultMockPlayer(),
		Effects: audio.DefaultMockPlayer(),
	})
	t.Cleanup(sess.Close)
	sched := minigame.NewManualScheduler()
	return newModel(Config{}, sess, sched), sched
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCharacterSelectToMap(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), "ASTRONOTUNU SEÇ") {
		t.Fatalf("character screen missing:\n%s", m.View())
	}

	m = press(t, m, down, down, enter)
	c, ok := m.sess.Store().Character()
	if !ok || c.ID != progress.Coco {
		t.Fatalf("selected %v %v", c.ID, ok)
	}
	if m.sess.Store().Screen() != progress.ScreenMap {
		t.Fatal("not on the map")
	}
	if !strings.Contains(m.View(), "GÜNEŞ SİSTEMİ") {
		t.Errorf("map heading should use Turkish casing:\n%s", m.View())
	}
}

func TestLockedPlanetNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, runes("1"), runes("3"))

	if m.notice != content.LockedPlanet {
		t.Errorf("notice = %q", m.notice)
	}
	if m.host != nil {
		t.Error("host opened for a locked planet")
	}
}

func TestPlayMercuryFromMap(t *testing.T) {
	m, sched := newTestModel(t)
	m = press(t, m, runes("2"), enter)

	if m.host == nil || m.host.Planet() != progress.Mercury {
		t.Fatalf("host = %v", m.host)
	}
	if !strings.Contains(m.View(), content.ListeningText) {
		t.Errorf("intro should show the listening label:\n%s", m.View())
	}

	m = press(t, m, enter)
	if m.host.Stage() != minigame.StageIntro {
		t.Fatal("started before the gate opened")
	}

	sched.Advance(minigame.IntroDelay(m.host.Message()))
	m = press(t, m, enter)
	if m.host.Stage() != minigame.StagePlaying {
		t.Fatalf("stage = %s", m.host.Stage())
	}

	g := m.host.Game().(*minigame.Mercury)
	for i, it := range g.Items() {
		if it.Good {
			m = press(t, m, runes(string(rune('1'+i))))
			break
		}
	}
	if m.host.Mistakes() != 0 {
		t.Errorf("good rock counted as a mistake")
	}

	m = press(t, m, esc)
	if m.host != nil || m.sess.Store().Screen() != progress.ScreenMap {
		t.Error("esc did not return to the map")
	}
}

func TestNeptuneArrowKeys(t *testing.T) {
	m, sched := newTestModel(t)
	store := m.sess.Store()
	for _, id := range progress.PlanetOrder()[:7] {
		store.UnlockNextPlanet(id)
	}
	m = press(t, m, runes("4"))
	m.planetCursor = 7
	m = press(t, m, enter)
	sched.Advance(10 * time.Second)
	m = press(t, m, enter)

	g, ok := m.host.Game().(*minigame.Neptune)
	if !ok {
		t.Fatalf("game = %T", m.host.Game())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if g.Facing() != minigame.Left {
		t.Errorf("facing = %v", g.Facing())
	}
}

func TestPauseToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m.speaking = true
	m = press(t, m, runes("p"))
	if !m.paused {
		t.Fatal("p should pause while speaking")
	}
	m = press(t, m, runes("p"))
	if m.paused {
		t.Fatal("p should resume")
	}

	next, _ := m.Update(speakingMsg(false))
	if next.(model).speaking {
		t.Error("speaking flag not cleared")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRunMsgExecutes(t *testing.T) {
	m, _ := newTestModel(t)
	ran := false
	m.Update(runMsg{fn: func() { ran = true }})
	if !ran {
		t.Error("callback not run")
	}
}

func TestProgramSchedulerCancel(t *testing.T) {
	s := newProgramScheduler()
	got := make(chan tea.Msg, 4)
	s.bind(func(msg tea.Msg) { got <- msg })

	fired := make(chan struct{}, 2)
	cancel := s.After(time.Hour, func() { fired <- struct{}{} })
	cancel()

	s.After(time.Millisecond, func() { fired <- struct{}{} })
	select {
	case msg := <-got:
		msg.(runMsg).fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timer never delivered")
	}
	if len(fired) != 1 {
		t.Errorf("fired %d callbacks, want 1", len(fired))
	}

	s.Post(func() {})
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("post never delivered")
	}
}

func TestDigit(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"9", 8, true},
		{"0", 0, false},
		{"a", 0, false},
		{"enter", 0, false},
	}
	for _, tt := range tests {
		got, ok := digit(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("digit(%q) = %d, %v", tt.key, got, ok)
		}
	}
}
