package minigame

import (
	"context"
	"slices"
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
)

// EarthSize is the side of the jigsaw board.
const EarthSize = 3

// Earth is a 3×3 jigsaw over a generated planet picture. Pieces are taken
// from a tray and dropped on their own slot.
type Earth struct {
	base
	shapes   []PieceShape
	slots    []int
	tray     []int
	selected int
	image    string
	loading  bool
	// load counts image requests so a late answer for an old stage is
	// dropped.
	load int
}

func (g *Earth) Planet() progress.PlanetID { return progress.Earth }

func (g *Earth) Start() {
	g.startLevel()
}

// Shapes of the current board, indexed by piece.
func (g *Earth) Shapes() []PieceShape { return append([]PieceShape(nil), g.shapes...) }

// Slots maps each board slot to the piece in it, or -1.
func (g *Earth) Slots() []int { return append([]int(nil), g.slots...) }

// Tray lists the pieces still to place.
func (g *Earth) Tray() []int { return append([]int(nil), g.tray...) }

// Selected is the picked tray piece, or -1.
func (g *Earth) Selected() int { return g.selected }

// Image is the picture URI of the stage, empty while loading.
func (g *Earth) Image() string { return g.image }

// Loading reports whether the stage picture is still on its way.
func (g *Earth) Loading() bool { return g.loading }

// LoadingText is shown while Loading.
func (g *Earth) LoadingText() string { return content.LoadingImage }

func (g *Earth) startLevel() {
	n := EarthSize * EarthSize
	g.shapes = GenerateShapes(EarthSize, g.env.Rand)
	g.slots = make([]int, n)
	g.tray = make([]int, n)
	for i := range g.slots {
		g.slots[i] = -1
		g.tray[i] = i
	}
	g.shuffle(n, func(i, j int) { g.tray[i], g.tray[j] = g.tray[j], g.tray[i] })
	g.selected = -1
	g.image = ""
	g.loading = true

	g.load++
	load, stage := g.load, g.level-1
	if g.env.Images == nil {
		g.image, g.loading = "", false
		return
	}
	images, sched := g.env.Images, g.env.Scheduler
	go func() {
		uri, _ := images.PuzzleImage(context.Background(), stage)
		sched.Post(func() {
			if g.stopped || load != g.load {
				return
			}
			g.image = uri
			g.loading = false
		})
	}()
}

// SelectPiece picks a piece from the tray.
func (g *Earth) SelectPiece(piece int) {
	if g.stopped || g.loading || !slices.Contains(g.tray, piece) {
		return
	}
	g.env.Sound.Effect(sfx.Click)
	g.selected = piece
}

// Place drops the selected piece on slot.
func (g *Earth) Place(slot int) {
	if g.stopped || g.loading || g.selected < 0 || slot < 0 || slot >= len(g.slots) {
		return
	}
	if g.slots[slot] >= 0 {
		g.feedback("Orası dolu!", Error)
		return
	}
	if slot != g.selected {
		g.feedback("Bu parça buraya ait değil.", Error)
		return
	}

	g.env.Sound.Effect(sfx.Pop)
	g.slots[slot] = g.selected
	g.tray = slices.DeleteFunc(g.tray, func(p int) bool { return p == g.selected })
	g.selected = -1

	if slices.Contains(g.slots, -1) {
		return
	}
	g.feedback(content.RandomPraise(g.env.Rand), Success)
	g.after(time.Second, func() {
		if g.level < Levels {
			g.level++
			g.startLevel()
			return
		}
		g.finish()
	})
}
