// Package minigame implements the nine planet games and the host that
// runs one of them: intro gate, feedback routing, star rating and the
// win/fail outcome.
//
// Games are plain state machines. They never sleep or spawn goroutines;
// delays go through a Scheduler so the caller decides which loop the
// callbacks run on.
package minigame

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
)

// FeedbackKind classifies a game event.
type FeedbackKind int

const (
	Neutral FeedbackKind = iota
	Success
	Error
)

func (k FeedbackKind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "neutral"
	}
}

// Reporter receives a game's events.
type Reporter interface {
	Feedback(text string, kind FeedbackKind)
	// Finish ends the game; the host rates it from the mistake count.
	Finish()
	// FinishWithStars ends the game with an explicit rating.
	FinishWithStars(stars int)
	Fail()
}

// Scheduler runs callbacks on the caller's event loop.
type Scheduler interface {
	// After runs fn once d has elapsed unless the returned cancel is
	// called first.
	After(d time.Duration, fn func()) (cancel func())
	// Post runs fn on the loop as soon as possible. It is safe to call
	// from any goroutine.
	Post(fn func())
}

// Sound plays short effects that games trigger directly.
type Sound interface {
	Effect(kind sfx.Kind)
	Tone(freq float64)
}

// ImageSource supplies the jigsaw picture for a stage. It may block.
type ImageSource interface {
	PuzzleImage(ctx context.Context, stage int) (uri string, generated bool)
}

// Env is what a game needs from its host.
type Env struct {
	Reporter  Reporter
	Scheduler Scheduler
	Sound     Sound
	Images    ImageSource
	Rand      *rand.Rand
}

// Game is one planet's mini-game.
type Game interface {
	Planet() progress.PlanetID
	// Start sets up the first stage.
	Start()
	// Stop cancels pending timers. A stopped game never reports again.
	Stop()
	// Level is the current stage, starting at 1.
	Level() int
}

// Levels is the number of stages every game has.
const Levels = 3

// New builds the game of planet. It panics for a planet without a game.
func New(planet progress.PlanetID, env Env) Game {
	if env.Rand == nil {
		env.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if env.Sound == nil {
		env.Sound = silence{}
	}
	b := base{env: env, level: 1, timers: make(map[int]func())}

	switch planet {
	case progress.Mercury:
		return &Mercury{base: b}
	case progress.Venus:
		return &Venus{base: b}
	case progress.Earth:
		return &Earth{base: b}
	case progress.Mars:
		return &Mars{base: b}
	case progress.Jupiter:
		return &Jupiter{base: b}
	case progress.Saturn:
		return &Saturn{base: b}
	case progress.Uranus:
		return &Uranus{base: b}
	case progress.Neptune:
		return &Neptune{base: b}
	case progress.Pluto:
		return &Pluto{base: b}
	default:
		panic(fmt.Sprintf("minigame: no game for planet %q", planet))
	}
}

// base carries what every game shares: the environment, the stage counter
// and the pending timers.
type base struct {
	env     Env
	level   int
	stopped bool

	nextTimer int
	timers    map[int]func()
}

func (b *base) Level() int {
	return b.level
}

func (b *base) Stop() {
	b.stopped = true
	for id, cancel := range b.timers {
		cancel()
		delete(b.timers, id)
	}
}

func (b *base) after(d time.Duration, fn func()) {
	if b.stopped {
		return
	}
	id := b.nextTimer
	b.nextTimer++
	b.timers[id] = b.env.Scheduler.After(d, func() {
		delete(b.timers, id)
		if !b.stopped {
			fn()
		}
	})
}

func (b *base) feedback(text string, kind FeedbackKind) {
	if !b.stopped {
		b.env.Reporter.Feedback(text, kind)
	}
}

func (b *base) finish() {
	if !b.stopped {
		b.env.Reporter.Finish()
	}
}

func (b *base) shuffle(n int, swap func(i, j int)) {
	b.env.Rand.Shuffle(n, swap)
}

type silence struct{}

func (silence) Effect(sfx.Kind) {}
func (silence) Tone(float64)    {}
