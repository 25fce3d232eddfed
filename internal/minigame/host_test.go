package minigame

import (
	"testing"
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
)

type fakeVoice struct {
	said  []string
	stops int
}

func (v *fakeVoice) Say(text string) { v.said = append(v.said, text) }
func (v *fakeVoice) Stop()           { v.stops++ }

func (v *fakeVoice) last() string {
	if len(v.said) == 0 {
		return ""
	}
	return v.said[len(v.said)-1]
}

// scriptedGame lets tests drive the host's reporter by hand.
type scriptedGame struct {
	env     Env
	started bool
	stopped bool
}

func (g *scriptedGame) Planet() progress.PlanetID { return progress.Mars }
func (g *scriptedGame) Start()                    { g.started = true }
func (g *scriptedGame) Stop()                     { g.stopped = true }
func (g *scriptedGame) Level() int                { return 1 }

type hostRig struct {
	host  *Host
	store *progress.Store
	voice *fakeVoice
	sound *fakeSound
	sched *ManualScheduler
	games []*scriptedGame
}

func newHostRig(t *testing.T, planet progress.PlanetID) *hostRig {
	t.Helper()
	r := &hostRig{
		store: progress.NewStore(),
		voice: &fakeVoice{},
		sound: &fakeSound{},
		sched: NewManualScheduler(),
	}
	r.host = NewHost(planet, HostConfig{
		Voice:     r.voice,
		Sound:     r.sound,
		Progress:  r.store,
		Scheduler: r.sched,
		NewGame: func(_ progress.PlanetID, env Env) Game {
			g := &scriptedGame{env: env}
			r.games = append(r.games, g)
			return g
		},
	})
	return r
}

func (r *hostRig) game() *scriptedGame {
	return r.games[len(r.games)-1]
}

func (r *hostRig) play(t *testing.T) {
	t.Helper()
	r.sched.Advance(IntroDelay(content.Intro(r.host.Planet())))
	if !r.host.Start() {
		t.Fatal("Start refused after the intro delay")
	}
}

func TestIntroDelay(t *testing.T) {
	tests := []struct {
		msg  string
		want time.Duration
	}{
		{"", time.Second},
		{"Kısa", time.Second},
		{string(make([]rune, 100)), 4 * time.Second},
		{"ğğğğğğğğğğğğğğğğğğğğğğğğğğğğğğ", 1200 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := IntroDelay(tt.msg); got != tt.want {
			t.Errorf("IntroDelay(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestStartGate(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	h := r.host

	if h.Stage() != StageIntro || h.Message() != content.Intro(progress.Mercury) {
		t.Fatalf("stage %s, message %q", h.Stage(), h.Message())
	}
	if h.StartLabel() != content.ListeningText {
		t.Errorf("label = %q", h.StartLabel())
	}
	if h.Start() {
		t.Fatal("Start allowed before the gate opened")
	}

	r.sched.Advance(IntroDelay(h.Message()) - time.Millisecond)
	if h.CanStart() {
		t.Fatal("gate opened early")
	}
	r.sched.Advance(time.Millisecond)
	if !h.CanStart() || h.StartLabel() != content.StartButton {
		t.Fatal("gate did not open")
	}

	if !h.Start() {
		t.Fatal("Start refused")
	}
	if h.Stage() != StagePlaying || h.Message() != content.StartLine {
		t.Errorf("after start: %s %q", h.Stage(), h.Message())
	}
	if r.voice.stops != 1 || r.sound.lastEffect() != sfx.Click {
		t.Errorf("start should stop narration and click")
	}
	if !r.game().started {
		t.Error("game not started")
	}
}

func TestStarsFor(t *testing.T) {
	tests := []struct{ mistakes, stars int }{
		{0, 3}, {1, 2}, {2, 1}, {3, 1}, {7, 1},
	}
	for _, tt := range tests {
		if got := StarsFor(tt.mistakes); got != tt.stars {
			t.Errorf("StarsFor(%d) = %d, want %d", tt.mistakes, got, tt.stars)
		}
	}
}

func TestWinRatesByMistakes(t *testing.T) {
	for mistakes, want := range []int{3, 2, 1} {
		r := newHostRig(t, progress.Mercury)
		r.play(t)
		rep := r.game().env.Reporter
		for i := 0; i < mistakes; i++ {
			rep.Feedback("Aynı değil!", Error)
		}
		rep.Finish()

		h := r.host
		if h.Stage() != StageWon || h.Stars() != want {
			t.Errorf("%d mistakes: stage %s stars %d, want %d", mistakes, h.Stage(), h.Stars(), want)
		}
		if p, _ := r.store.Planet(progress.Venus); !p.Unlocked {
			t.Error("next planet not unlocked")
		}
		if p, _ := r.store.Planet(progress.Mercury); p.Stars != want {
			t.Errorf("stored stars = %d", p.Stars)
		}
		if r.voice.last() != content.WinLine(want) || r.sound.lastEffect() != sfx.Success {
			t.Errorf("win narration %q", r.voice.last())
		}
		if !r.game().stopped {
			t.Error("game not stopped after win")
		}
	}
}

func TestExplicitStarsWin(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	r.play(t)
	rep := r.game().env.Reporter
	rep.Feedback("Dikkat! Kırmızı yakar!", Error)
	rep.Feedback("Dikkat! Kırmızı yakar!", Error)
	rep.FinishWithStars(3)

	if r.host.Stars() != 3 {
		t.Errorf("stars = %d, want explicit 3", r.host.Stars())
	}
}

func TestZeroStarsFails(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	r.play(t)
	r.game().env.Reporter.FinishWithStars(0)

	if r.host.Stage() != StageFailed {
		t.Fatalf("stage = %s", r.host.Stage())
	}
	if r.voice.last() != content.FailLine || r.sound.lastEffect() != sfx.Error {
		t.Errorf("fail narration %q", r.voice.last())
	}
	if p, _ := r.store.Planet(progress.Venus); p.Unlocked {
		t.Error("failure unlocked the next planet")
	}
}

func TestFeedbackRouting(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	r.play(t)
	rep := r.game().env.Reporter

	tests := []struct {
		kind     FeedbackKind
		effect   sfx.Kind
		spoken   bool
		mistakes int
	}{
		{Neutral, sfx.Click, false, 0},
		{Success, sfx.Success, true, 0},
		{Error, sfx.Error, true, 1},
	}
	for _, tt := range tests {
		said := len(r.voice.said)
		rep.Feedback("line "+tt.kind.String(), tt.kind)
		if r.sound.lastEffect() != tt.effect {
			t.Errorf("%s: effect %v", tt.kind, r.sound.lastEffect())
		}
		if (len(r.voice.said) > said) != tt.spoken {
			t.Errorf("%s: spoken = %v", tt.kind, !tt.spoken)
		}
		if r.host.Mistakes() != tt.mistakes {
			t.Errorf("%s: mistakes = %d", tt.kind, r.host.Mistakes())
		}
		if r.host.Message() != "line "+tt.kind.String() {
			t.Errorf("%s: message %q", tt.kind, r.host.Message())
		}
	}
}

func TestRestartDiscardsOldGame(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	r.play(t)
	old := r.game()
	old.env.Reporter.Feedback("x", Error)
	old.env.Reporter.Fail()

	r.host.Restart()
	if r.host.Stage() != StagePlaying || r.host.Mistakes() != 0 || r.host.Message() != content.RestartLine {
		t.Fatalf("after restart: %s %d %q", r.host.Stage(), r.host.Mistakes(), r.host.Message())
	}
	if len(r.games) != 2 || !old.stopped {
		t.Fatal("restart did not build a fresh game")
	}

	old.env.Reporter.Finish()
	old.env.Reporter.Feedback("stale", Error)
	if r.host.Stage() != StagePlaying || r.host.Mistakes() != 0 {
		t.Error("stale game reached the host")
	}
}

func TestBackClearsCurrentPlanet(t *testing.T) {
	r := newHostRig(t, progress.Mercury)
	if _, err := r.store.SelectCharacter(progress.Mimi); err != nil {
		t.Fatal(err)
	}
	if err := r.store.SetCurrentPlanet(progress.Mercury); err != nil {
		t.Fatal(err)
	}
	r.play(t)
	r.host.Back()

	if _, ok := r.store.CurrentPlanet(); ok {
		t.Error("current planet still set")
	}
	if !r.game().stopped {
		t.Error("game left running")
	}
}

func TestNextLabel(t *testing.T) {
	if got := newHostRig(t, progress.Mercury).host.NextLabel(); got != content.NextPlanet {
		t.Errorf("Mercury: %q", got)
	}
	if got := newHostRig(t, progress.Pluto).host.NextLabel(); got != content.BackToSystem {
		t.Errorf("Pluto: %q", got)
	}
}

func TestReplaySaysMessage(t *testing.T) {
	r := newHostRig(t, progress.Saturn)
	r.host.Replay()
	if r.voice.last() != content.Intro(progress.Saturn) {
		t.Errorf("replayed %q", r.voice.last())
	}
}

func TestNewHostPanicsOnUnknownPlanet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewHost("Vulkan", HostConfig{Scheduler: NewManualScheduler()})
}
