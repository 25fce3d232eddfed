package minigame

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
)

type report struct {
	text string
	kind FeedbackKind
}

type recorder struct {
	feedback []report
	finished int
	stars    []int
	failed   int
}

func (r *recorder) Feedback(text string, kind FeedbackKind) {
	r.feedback = append(r.feedback, report{text, kind})
}
func (r *recorder) Finish()                   { r.finished++ }
func (r *recorder) FinishWithStars(stars int) { r.stars = append(r.stars, stars) }
func (r *recorder) Fail()                     { r.failed++ }

func (r *recorder) last() report {
	if len(r.feedback) == 0 {
		return report{}
	}
	return r.feedback[len(r.feedback)-1]
}

func (r *recorder) count(kind FeedbackKind) int {
	n := 0
	for _, f := range r.feedback {
		if f.kind == kind {
			n++
		}
	}
	return n
}

type fakeSound struct {
	mu      sync.Mutex
	effects []sfx.Kind
	tones   []float64
}

func (s *fakeSound) Effect(k sfx.Kind) {
	s.mu.Lock()
	s.effects = append(s.effects, k)
	s.mu.Unlock()
}

func (s *fakeSound) Tone(f float64) {
	s.mu.Lock()
	s.tones = append(s.tones, f)
	s.mu.Unlock()
}

func (s *fakeSound) lastEffect() sfx.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.effects) == 0 {
		return -1
	}
	return s.effects[len(s.effects)-1]
}

type stubImages struct{}

func (stubImages) PuzzleImage(_ context.Context, stage int) (string, bool) {
	return "https://example.test/" + string(rune('0'+stage)), false
}

type rig struct {
	rec   *recorder
	sched *ManualScheduler
	sound *fakeSound
	env   Env
}

func newRig(seed uint64) *rig {
	r := &rig{rec: &recorder{}, sched: NewManualScheduler(), sound: &fakeSound{}}
	r.env = Env{
		Reporter:  r.rec,
		Scheduler: r.sched,
		Sound:     r.sound,
		Images:    stubImages{},
		Rand:      rand.New(rand.NewPCG(seed, seed+1)),
	}
	return r
}

func (r *rig) start(planet progress.PlanetID) Game {
	g := New(planet, r.env)
	g.Start()
	return g
}

// settle runs posted callbacks until cond holds.
func settle(t *testing.T, s *ManualScheduler, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.Flush()
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for posted work")
		}
		time.Sleep(time.Millisecond)
	}
}
