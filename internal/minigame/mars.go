package minigame

import (
	"slices"
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
)

type countRange struct {
	min, max, options int
}

var marsLevels = [Levels]countRange{
	{1, 3, 3},
	{3, 6, 4},
	{5, 9, 5},
}

// Mars shows a handful of stars and asks how many there are.
type Mars struct {
	base
	target  int
	options []int
	locked  bool
}

func (g *Mars) Planet() progress.PlanetID { return progress.Mars }

func (g *Mars) Start() {
	g.newRound()
}

// Target is the number of stars on screen.
func (g *Mars) Target() int { return g.target }

// Options are the answers offered, ascending.
func (g *Mars) Options() []int { return append([]int(nil), g.options...) }

func (g *Mars) newRound() {
	cfg := marsLevels[g.level-1]
	pick := func() int { return cfg.min + g.env.Rand.IntN(cfg.max-cfg.min+1) }

	g.locked = false
	g.target = pick()
	g.options = []int{g.target}
	for len(g.options) < cfg.options {
		if n := pick(); !slices.Contains(g.options, n) {
			g.options = append(g.options, n)
		}
	}
	slices.Sort(g.options)
}

// Choose answers n.
func (g *Mars) Choose(n int) {
	if g.stopped || g.locked {
		return
	}
	if n != g.target {
		g.feedback(content.RandomRetry(g.env.Rand), Error)
		return
	}
	g.locked = true
	g.feedback(content.RandomPraise(g.env.Rand), Success)
	g.after(1500*time.Millisecond, func() {
		if g.level < Levels {
			g.level++
			g.newRound()
			return
		}
		g.finish()
	})
}
