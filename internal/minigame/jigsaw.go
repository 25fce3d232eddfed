package minigame

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Edge is one side of a jigsaw piece.
type Edge int

const (
	Hole Edge = -1
	Flat Edge = 0
	Tab  Edge = 1
)

// PieceShape holds the four edges of a piece.
type PieceShape struct {
	Top, Right, Bottom, Left Edge
}

// GenerateShapes cuts a size×size board. Neighbouring edges always
// interlock and the border is flat.
func GenerateShapes(size int, r *rand.Rand) []PieceShape {
	shapes := make([]PieceShape, size*size)
	randomEdge := func() Edge {
		if r.Float64() > 0.5 {
			return Tab
		}
		return Hole
	}
	for i := range shapes {
		row, col := i/size, i%size
		var s PieceShape
		if row > 0 {
			s.Top = -shapes[(row-1)*size+col].Bottom
		}
		if col > 0 {
			s.Left = -shapes[row*size+col-1].Right
		}
		if row < size-1 {
			s.Bottom = randomEdge()
		}
		if col < size-1 {
			s.Right = randomEdge()
		}
		shapes[i] = s
	}
	return shapes
}

const tabDepth = 25

// PiecePath returns the SVG path of a piece drawn in a 100×100 box.
// Tabs reach 25 units outside the box, so a viewBox of "-25 -25 150 150"
// shows the whole piece.
func PiecePath(s PieceShape) string {
	var b strings.Builder
	b.WriteString("M 0 0")

	if s.Top == Flat {
		b.WriteString(" L 100 0")
	} else {
		d := tabDepth
		if s.Top == Tab {
			d = -tabDepth
		}
		fmt.Fprintf(&b, " L 35 0 C 35 0 35 %d 50 %d C 65 %d 65 0 65 0 L 100 0", d, d, d)
	}

	if s.Right == Flat {
		b.WriteString(" L 100 100")
	} else {
		x := 100 + tabDepth*int(s.Right)
		fmt.Fprintf(&b, " L 100 35 C 100 35 %d 35 %d 50 C %d 65 100 65 100 65 L 100 100", x, x, x)
	}

	if s.Bottom == Flat {
		b.WriteString(" L 0 100")
	} else {
		y := 100 + tabDepth*int(s.Bottom)
		fmt.Fprintf(&b, " L 65 100 C 65 100 65 %d 50 %d C 35 %d 35 100 35 100 L 0 100", y, y, y)
	}

	if s.Left == Flat {
		b.WriteString(" L 0 0")
	} else {
		x := -tabDepth * int(s.Left)
		fmt.Fprintf(&b, " L 0 65 C 0 65 %d 65 %d 50 C %d 35 0 35 0 35 L 0 0", x, x, x)
	}

	b.WriteString(" Z")
	return b.String()
}
