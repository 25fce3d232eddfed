package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/progress"
)

type call struct{ text, voice string }

type fakeSynth struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeSynth) Synthesize(_ context.Context, text, voice string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{text, voice})
	f.mu.Unlock()
	return make([]byte, 48), nil
}

func (f *fakeSynth) saw(c call) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, got := range f.calls {
		if got == c {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestSession(t *testing.T) (*Session, *fakeSynth, *audio.MockPlayer, *audio.MockPlayer) {
	t.Helper()
	synth := &fakeSynth{}
	voice := audio.DefaultMockPlayer()
	effects := audio.DefaultMockPlayer()
	s := New(Config{Synth: synth, Voice: voice, Effects: effects})
	t.Cleanup(s.Close)
	return s, synth, voice, effects
}

func TestSelectCharacterGreetsInOwnVoice(t *testing.T) {
	s, synth, voice, effects := newTestSession(t)

	c, err := s.SelectCharacter(progress.Coco)
	if err != nil {
		t.Fatalf("SelectCharacter: %v", err)
	}
	waitFor(t, "greeting", func() bool { return len(voice.Played()) == 1 })
	if !synth.saw(call{c.Greeting, "Puck"}) {
		t.Errorf("greeting not synthesized in Puck: %+v", synth.calls)
	}
	if len(effects.Effects()) != 1 {
		t.Errorf("effects = %d, want a click", len(effects.Effects()))
	}

	if _, err := s.SelectCharacter(progress.Mimi); !errors.Is(err, progress.ErrCharacterAlreadySelected) {
		t.Errorf("second select: %v", err)
	}
}

func TestOpenPlanet(t *testing.T) {
	s, synth, voice, _ := newTestSession(t)
	if err := s.OpenPlanet(progress.Mercury); !errors.Is(err, progress.ErrNoCharacter) {
		t.Fatalf("open before selecting a character: %v", err)
	}
	if _, ok := s.Store().CurrentPlanet(); ok {
		t.Fatal("planet opened without a character")
	}
	if _, err := s.SelectCharacter(progress.Roko); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "greeting", func() bool { return len(voice.Played()) == 1 })
	voice.Finish()
	waitFor(t, "idle", func() bool { return !s.Narrator().Speaking() })

	if err := s.OpenPlanet(progress.Venus); !errors.Is(err, progress.ErrPlanetLocked) {
		t.Fatalf("locked planet: %v", err)
	}
	waitFor(t, "locked line", func() bool { return synth.saw(call{content.LockedPlanet, "Fenrir"}) })
	if _, ok := s.Store().CurrentPlanet(); ok {
		t.Error("locked planet became current")
	}

	if err := s.OpenPlanet(progress.Mercury); err != nil {
		t.Fatalf("OpenPlanet: %v", err)
	}
	waitFor(t, "intro", func() bool { return synth.saw(call{content.Intro(progress.Mercury), "Fenrir"}) })
	if id, _ := s.Store().CurrentPlanet(); id != progress.Mercury {
		t.Errorf("current planet = %s", id)
	}

	if err := s.OpenPlanet("Vulkan"); !errors.Is(err, progress.ErrUnknownPlanet) {
		t.Errorf("unknown planet: %v", err)
	}
}

func TestNewHost(t *testing.T) {
	s, _, _, effects := newTestSession(t)
	sched := minigame.NewManualScheduler()

	if _, err := s.NewHost(sched); err == nil {
		t.Fatal("host without a current planet")
	}
	if _, err := s.SelectCharacter(progress.Mimi); err != nil {
		t.Fatal(err)
	}
	if err := s.OpenPlanet(progress.Mercury); err != nil {
		t.Fatal(err)
	}
	h, err := s.NewHost(sched)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	sched.Advance(minigame.IntroDelay(h.Message()))
	before := len(effects.Effects())
	if !h.Start() {
		t.Fatal("Start refused")
	}
	if len(effects.Effects()) != before+1 {
		t.Error("start did not click through the session")
	}
	h.Back()
	if _, ok := s.Store().CurrentPlanet(); ok {
		t.Error("Back left the planet open")
	}
}

func TestFromContext(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	ctx := WithContext(context.Background(), s)
	if FromContext(ctx) != s {
		t.Error("wrong session")
	}
	if s.ID() == "" {
		t.Error("empty session id")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic without a session")
		}
	}()
	FromContext(context.Background())
}

func TestPreloadWarmsNarration(t *testing.T) {
	s, synth, _, _ := newTestSession(t)
	plan := content.DefaultPlan()
	plan.BatchDelay = 0

	r := s.Preload(context.Background(), plan)
	if r.Requested != plan.Len() || r.Failed != 0 {
		t.Fatalf("report = %+v", r)
	}
	c, _ := progress.LookupCharacter(progress.Titi)
	if !s.Narrator().Cached(c.Greeting, c.VoiceName) {
		t.Error("greeting not cached in its own voice")
	}
	if !synth.saw(call{content.LockedPlanet, content.NarratorVoice}) {
		t.Error("locked line not preloaded")
	}
}
