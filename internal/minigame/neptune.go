package minigame

import (
	"time"

	"github.com/minikastronot/minik/internal/progress"
)

// Cell is a maze square.
type Cell int

const (
	Path Cell = iota
	Wall
	StartCell
	Exit
	BlackHole
)

// Direction the rocket faces or moves.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// MazeSize is the side of every maze.
const MazeSize = 5

var neptuneMaps = [Levels][MazeSize][MazeSize]Cell{
	{
		{1, 1, 1, 1, 1},
		{2, 0, 0, 0, 1},
		{1, 1, 1, 0, 1},
		{1, 1, 1, 3, 1},
		{1, 1, 1, 1, 1},
	},
	{
		{1, 1, 1, 1, 1},
		{2, 0, 0, 1, 1},
		{1, 4, 0, 0, 3},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	},
	{
		{1, 2, 0, 1, 1},
		{1, 1, 0, 0, 1},
		{1, 4, 1, 0, 1},
		{1, 0, 0, 0, 1},
		{1, 3, 1, 1, 1},
	},
}

// Point is a maze coordinate.
type Point struct{ X, Y int }

// Neptune steers a rocket through a maze to the exit, avoiding walls and
// black holes.
type Neptune struct {
	base
	pos    Point
	facing Direction
	done   bool
}

func (g *Neptune) Planet() progress.PlanetID { return progress.Neptune }

func (g *Neptune) Start() {
	g.reset()
}

// Map is the maze of the current stage.
func (g *Neptune) Map() [MazeSize][MazeSize]Cell { return neptuneMaps[g.level-1] }

// Position of the rocket.
func (g *Neptune) Position() Point { return g.pos }

// Facing is the rocket's heading.
func (g *Neptune) Facing() Direction { return g.facing }

func (g *Neptune) reset() {
	g.done = false
	m := neptuneMaps[g.level-1]
	for y := range m {
		for x := range m[y] {
			if m[y][x] == StartCell {
				g.pos = Point{x, y}
				g.facing = Right
			}
		}
	}
}

// Move tries one step in dir. The rocket turns even when the step is
// blocked.
func (g *Neptune) Move(dir Direction) {
	if g.stopped || g.done {
		return
	}
	g.facing = dir

	next := g.pos
	switch dir {
	case Up:
		next.Y--
	case Right:
		next.X++
	case Down:
		next.Y++
	case Left:
		next.X--
	default:
		return
	}

	if next.X < 0 || next.X >= MazeSize || next.Y < 0 || next.Y >= MazeSize {
		g.feedback("Duvara çarptık!", Error)
		return
	}

	switch neptuneMaps[g.level-1][next.Y][next.X] {
	case Wall:
		g.feedback("Duvar var, geçemeyiz!", Error)
	case BlackHole:
		g.feedback("Olamaz! Kara delik! Başa dönüyoruz.", Error)
		g.reset()
	case Exit:
		g.pos = next
		g.done = true
		if g.level < Levels {
			g.feedback("Çıkışı buldun! Harika!", Success)
			g.after(1500*time.Millisecond, func() {
				g.level++
				g.reset()
			})
			return
		}
		g.feedback("Labirentten kaçtık! Süpersin!", Success)
		g.finish()
	default:
		g.pos = next
		g.feedback("İleri!", Neutral)
	}
}
