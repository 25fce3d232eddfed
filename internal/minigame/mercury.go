package minigame

import (
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
)

const (
	mercuryGood   = 5
	mercuryBad    = 3
	mercuryHearts = 3
)

// MercuryItem is a rock on the board. Good rocks are collected; bad
// ones burn.
type MercuryItem struct {
	Good bool
	// X and Y place the rock on a 0..100 board.
	X, Y float64
	// Gone is set once the rock was tapped.
	Gone bool
}

// Mercury asks the player to collect every good rock without touching
// the bad ones. Three hearts; each bad tap costs one.
type Mercury struct {
	base
	items  []MercuryItem
	hearts int
}

func (g *Mercury) Planet() progress.PlanetID { return progress.Mercury }

func (g *Mercury) Start() {
	g.hearts = mercuryHearts
	g.spawn()
}

// Items returns the board of the current round.
func (g *Mercury) Items() []MercuryItem {
	return append([]MercuryItem(nil), g.items...)
}

// Hearts left.
func (g *Mercury) Hearts() int { return g.hearts }

func (g *Mercury) spawn() {
	g.items = make([]MercuryItem, 0, mercuryGood+mercuryBad)
	for i := 0; i < mercuryGood+mercuryBad; i++ {
		g.items = append(g.items, MercuryItem{
			Good: i < mercuryGood,
			X:    g.env.Rand.Float64()*80 + 10,
			Y:    g.env.Rand.Float64()*80 + 10,
		})
	}
	g.shuffle(len(g.items), func(i, j int) { g.items[i], g.items[j] = g.items[j], g.items[i] })
}

// Tap touches rock i.
func (g *Mercury) Tap(i int) {
	if g.stopped || g.hearts <= 0 || i < 0 || i >= len(g.items) || g.items[i].Gone {
		return
	}
	g.items[i].Gone = true

	if !g.items[i].Good {
		g.hearts--
		g.feedback("Dikkat! Kırmızı yakar!", Error)
		if g.hearts <= 0 {
			g.env.Reporter.Fail()
		}
		return
	}

	g.feedback(content.RandomPraise(g.env.Rand), Success)
	for _, it := range g.items {
		if it.Good && !it.Gone {
			return
		}
	}
	g.after(300*time.Millisecond, func() {
		if g.level < Levels {
			g.level++
			g.spawn()
			return
		}
		g.env.Reporter.FinishWithStars(g.hearts)
	})
}
