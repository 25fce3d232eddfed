package minigame

import (
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
)

// VenusNotes are the pad tones: C4, E4, G4 and C5.
var VenusNotes = [4]float64{261.63, 329.63, 392.00, 523.25}

const venusStep = 600 * time.Millisecond

// Venus plays a growing sequence of coloured pads that the player
// repeats. Stage n uses a sequence of n+1 pads.
type Venus struct {
	base
	sequence []int
	input    []int
	playing  bool
	lit      int
}

func (g *Venus) Planet() progress.PlanetID { return progress.Venus }

func (g *Venus) Start() {
	g.startLevel()
}

// Sequence is the pattern of the current stage.
func (g *Venus) Sequence() []int { return append([]int(nil), g.sequence...) }

// Entered is what the player has pressed so far.
func (g *Venus) Entered() int { return len(g.input) }

// Demonstrating reports whether the pattern is still being played.
func (g *Venus) Demonstrating() bool { return g.playing }

// Lit is the pad being demonstrated, or -1.
func (g *Venus) Lit() int { return g.lit }

func (g *Venus) startLevel() {
	g.input = nil
	g.sequence = make([]int, g.level+1)
	for i := range g.sequence {
		g.sequence[i] = g.env.Rand.IntN(len(VenusNotes))
	}
	g.playing = true
	g.lit = -1
	g.demo(0)
}

func (g *Venus) demo(step int) {
	g.after(venusStep, func() {
		pad := g.sequence[step]
		g.lit = pad
		g.env.Sound.Tone(VenusNotes[pad])
		if step+1 < len(g.sequence) {
			g.demo(step + 1)
			return
		}
		g.playing = false
		g.lit = -1
		g.feedback("Sıra sende!", Neutral)
	})
}

// Press hits pad i.
func (g *Venus) Press(pad int) {
	if g.stopped || g.playing || pad < 0 || pad >= len(VenusNotes) || len(g.input) >= len(g.sequence) {
		return
	}
	g.env.Sound.Tone(VenusNotes[pad])
	g.input = append(g.input, pad)

	n := len(g.input) - 1
	if g.input[n] != g.sequence[n] {
		g.feedback("Hata oldu, tekrar deneyelim!", Error)
		g.playing = true
		g.after(time.Second, g.startLevel)
		return
	}
	if len(g.input) < len(g.sequence) {
		return
	}

	g.feedback(content.RandomPraise(g.env.Rand), Success)
	if g.level < Levels {
		g.after(time.Second, func() {
			g.level++
			g.startLevel()
		})
		return
	}
	g.finish()
}
