package minigame

import (
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
)

// Symbol is a pattern element.
type Symbol struct {
	ID    string
	Glyph string
}

type saturnLevel struct {
	items   []Symbol
	pattern []int // indexes into items; the last slot is the blank
	answer  int
}

var saturnLevels = [Levels]saturnLevel{
	{
		items:   []Symbol{{"c", "●"}, {"s", "■"}},
		pattern: []int{0, 1, 0, 1, 0},
		answer:  1,
	},
	{
		items:   []Symbol{{"g", "🟢"}, {"y", "🟡"}, {"p", "🟣"}},
		pattern: []int{0, 0, 1, 1, 2},
		answer:  2,
	},
	{
		items:   []Symbol{{"star", "⭐"}, {"moon", "🌙"}, {"sun", "☀️"}},
		pattern: []int{0, 1, 2, 0, 1},
		answer:  2,
	},
}

// Saturn asks for the symbol that completes a repeating pattern.
type Saturn struct {
	base
	options []Symbol
	solved  bool
}

func (g *Saturn) Planet() progress.PlanetID { return progress.Saturn }

func (g *Saturn) Start() {
	g.setup()
}

// Pattern is the current sequence; the blank is nil until solved.
func (g *Saturn) Pattern() []*Symbol {
	lvl := saturnLevels[g.level-1]
	out := make([]*Symbol, 0, len(lvl.pattern)+1)
	for _, i := range lvl.pattern {
		s := lvl.items[i]
		out = append(out, &s)
	}
	if g.solved {
		s := lvl.items[lvl.answer]
		return append(out, &s)
	}
	return append(out, nil)
}

// Options are the symbols on offer, shuffled.
func (g *Saturn) Options() []Symbol { return append([]Symbol(nil), g.options...) }

func (g *Saturn) setup() {
	lvl := saturnLevels[g.level-1]
	g.solved = false
	g.options = append([]Symbol(nil), lvl.items...)
	g.shuffle(len(g.options), func(i, j int) { g.options[i], g.options[j] = g.options[j], g.options[i] })
}

// Choose picks option i.
func (g *Saturn) Choose(i int) {
	if g.stopped || g.solved || i < 0 || i >= len(g.options) {
		return
	}
	lvl := saturnLevels[g.level-1]
	if g.options[i].ID != lvl.items[lvl.answer].ID {
		g.feedback("Bu uymadı, tekrar dene!", Error)
		return
	}

	g.solved = true
	g.feedback(content.RandomPraise(g.env.Rand), Success)
	g.after(time.Second, func() {
		if g.level < Levels {
			g.level++
			g.setup()
			return
		}
		g.finish()
	})
}
