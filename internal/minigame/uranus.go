package minigame

import (
	"fmt"
	"time"

	"github.com/minikastronot/minik/internal/progress"
)

// UranusSlots is the number of holes.
const UranusSlots = 9

type moleLevel struct {
	target int
	speed  time.Duration
	icon   string
}

var uranusLevels = [Levels]moleLevel{
	{3, 1500 * time.Millisecond, "👻"},
	{4, 1100 * time.Millisecond, "👽"},
	{5, 800 * time.Millisecond, "👾"},
}

// Uranus is whack-a-mole: a creature pops out of a random hole on every
// tick and the player taps it before it moves.
type Uranus struct {
	base
	active int
	score  int
	done   bool
}

func (g *Uranus) Planet() progress.PlanetID { return progress.Uranus }

func (g *Uranus) Start() {
	g.active = -1
	g.tick()
}

// Active is the occupied hole, or -1.
func (g *Uranus) Active() int { return g.active }

// Score is the number of catches this stage.
func (g *Uranus) Score() int { return g.score }

// Target is the number of catches the stage needs.
func (g *Uranus) Target() int { return uranusLevels[g.level-1].target }

// Icon is the creature of the stage.
func (g *Uranus) Icon() string { return uranusLevels[g.level-1].icon }

func (g *Uranus) tick() {
	level := g.level
	g.after(uranusLevels[level-1].speed, func() {
		if g.done || level != g.level {
			return
		}
		g.active = g.env.Rand.IntN(UranusSlots)
		g.tick()
	})
}

// Tap hits hole i. Misses are ignored.
func (g *Uranus) Tap(i int) {
	if g.stopped || g.done || i != g.active || i < 0 {
		return
	}
	g.feedback("Yakaladın!", Success)
	g.score++
	g.active = -1

	if g.score < uranusLevels[g.level-1].target {
		return
	}
	if g.level >= Levels {
		g.done = true
		g.finish()
		return
	}
	g.done = true
	g.after(500*time.Millisecond, func() {
		g.done = false
		g.score = 0
		g.level++
		g.feedback(fmt.Sprintf("Harika! Seviye %d hızlanıyor!", g.level), Success)
		g.tick()
	})
}
