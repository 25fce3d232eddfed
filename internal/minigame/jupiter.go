package minigame

import (
	"fmt"
	"time"

	"github.com/minikastronot/minik/internal/progress"
)

// JupiterIcons are the card faces; stage n uses the first n+1 of them.
var JupiterIcons = []string{"🚀", "🌍", "🌟", "☀️", "🌙", "☄️", "🛰️", "🔭"}

var jupiterPairs = [Levels]int{2, 3, 4}

// Card is one memory card.
type Card struct {
	Icon    string
	Flipped bool
	Matched bool
}

// Jupiter is a memory game: flip two cards, keep them if they match.
type Jupiter struct {
	base
	cards   []Card
	flipped []int
	locked  bool
}

func (g *Jupiter) Planet() progress.PlanetID { return progress.Jupiter }

func (g *Jupiter) Start() {
	g.deal()
}

// Cards of the current stage.
func (g *Jupiter) Cards() []Card { return append([]Card(nil), g.cards...) }

// Columns the board is laid out in.
func (g *Jupiter) Columns() int { return jupiterPairs[g.level-1] }

func (g *Jupiter) deal() {
	pairs := jupiterPairs[g.level-1]
	g.cards = make([]Card, 0, pairs*2)
	for _, icon := range JupiterIcons[:pairs] {
		g.cards = append(g.cards, Card{Icon: icon}, Card{Icon: icon})
	}
	g.shuffle(len(g.cards), func(i, j int) { g.cards[i], g.cards[j] = g.cards[j], g.cards[i] })
	g.flipped = nil
	g.locked = false
}

// Flip turns card i face up.
func (g *Jupiter) Flip(i int) {
	if g.stopped || g.locked || i < 0 || i >= len(g.cards) || g.cards[i].Flipped || g.cards[i].Matched {
		return
	}
	g.cards[i].Flipped = true
	g.flipped = append(g.flipped, i)
	if len(g.flipped) < 2 {
		return
	}

	a, b := g.flipped[0], g.flipped[1]
	g.flipped = nil
	if g.cards[a].Icon != g.cards[b].Icon {
		g.locked = true
		g.feedback("Aynı değil!", Error)
		g.after(time.Second, func() {
			g.cards[a].Flipped = false
			g.cards[b].Flipped = false
			g.locked = false
		})
		return
	}

	g.feedback("Eşleşti!", Success)
	g.cards[a].Matched = true
	g.cards[b].Matched = true
	for _, c := range g.cards {
		if !c.Matched {
			return
		}
	}

	g.locked = true
	g.after(time.Second, func() {
		if g.level < Levels {
			g.level++
			g.deal()
			g.feedback(fmt.Sprintf("Harika! Seviye %d başlıyor.", g.level), Success)
			return
		}
		g.finish()
	})
}
