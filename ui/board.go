package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/minikastronot/minik/internal/minigame"
)

// boardModel draws the running game and turns keys into game moves. The
// cursor belongs to one game instance and resets when the host swaps it.
type boardModel struct {
	game   minigame.Game
	cursor int
}

func (b *boardModel) reset(g minigame.Game) {
	if b.game != g {
		b.game = g
		b.cursor = 0
	}
}

// move steps the cursor by delta within n entries.
func (b *boardModel) move(delta, n int) {
	if n <= 0 {
		b.cursor = 0
		return
	}
	b.cursor = ((b.cursor+delta)%n + n) % n
}

func (b *boardModel) handleKey(key string) {
	idx, isDigit := digit(key)
	pressed := key == "enter" || key == " "

	switch g := b.game.(type) {
	case *minigame.Mercury:
		n := len(g.Items())
		switch {
		case key == "left" || key == "h":
			b.move(-1, n)
		case key == "right" || key == "l":
			b.move(1, n)
		case pressed:
			g.Tap(b.cursor)
		case isDigit:
			g.Tap(idx)
		}

	case *minigame.Venus:
		if isDigit && idx < len(minigame.VenusNotes) {
			g.Press(idx)
		}

	case *minigame.Earth:
		tray := g.Tray()
		switch {
		case key == "left" || key == "h":
			b.move(-1, len(tray))
		case key == "right" || key == "l":
			b.move(1, len(tray))
		case pressed && b.cursor < len(tray):
			g.SelectPiece(tray[b.cursor])
		case isDigit:
			g.Place(idx)
			b.cursor = min(b.cursor, max(0, len(g.Tray())-1))
		}

	case *minigame.Mars:
		if opts := g.Options(); isDigit && idx < len(opts) {
			g.Choose(opts[idx])
		}

	case *minigame.Jupiter:
		cards, cols := g.Cards(), g.Columns()
		switch key {
		case "left", "h":
			b.move(-1, len(cards))
		case "right", "l":
			b.move(1, len(cards))
		case "up", "k":
			b.move(-cols, len(cards))
		case "down", "j":
			b.move(cols, len(cards))
		case "enter", " ":
			g.Flip(b.cursor)
		}

	case *minigame.Saturn:
		if isDigit {
			g.Choose(idx)
		}

	case *minigame.Uranus:
		if isDigit {
			g.Tap(idx)
		}

	case *minigame.Neptune:
		switch key {
		case "up", "k":
			g.Move(minigame.Up)
		case "right", "l":
			g.Move(minigame.Right)
		case "down", "j":
			g.Move(minigame.Down)
		case "left", "h":
			g.Move(minigame.Left)
		}

	case *minigame.Pluto:
		if opts := g.Options(); isDigit && idx < len(opts) {
			g.Answer(opts[idx])
		}
	}
}

func (b *boardModel) view(spin string) string {
	switch g := b.game.(type) {
	case *minigame.Mercury:
		return b.mercuryView(g)
	case *minigame.Venus:
		return venusView(g)
	case *minigame.Earth:
		return b.earthView(g, spin)
	case *minigame.Mars:
		return marsView(g)
	case *minigame.Jupiter:
		return b.jupiterView(g)
	case *minigame.Saturn:
		return saturnView(g)
	case *minigame.Uranus:
		return uranusView(g)
	case *minigame.Neptune:
		return neptuneView(g)
	case *minigame.Pluto:
		return plutoView(g)
	}
	return ""
}

func (b *boardModel) mercuryView(g *minigame.Mercury) string {
	var s strings.Builder
	s.WriteString(strings.Repeat("❤️ ", g.Hearts()) + "\n\n")
	for i, it := range g.Items() {
		cell := "·"
		switch {
		case it.Gone:
		case it.Good:
			cell = "🪨"
		default:
			cell = "🔥"
		}
		label := fmt.Sprintf("%d %s", i+1, cell)
		if i == b.cursor {
			label = litStyle.Render(label)
		}
		s.WriteString(label + "  ")
	}
	s.WriteString(helpStyle.Render("\nTaşları topla, ateşe dokunma! ←/→ + enter ya da rakam"))
	return s.String()
}

var venusPads = [4]string{"🟥", "🟦", "🟩", "🟨"}

func venusView(g *minigame.Venus) string {
	var s strings.Builder
	for i, pad := range venusPads {
		label := fmt.Sprintf(" %d %s ", i+1, pad)
		if g.Lit() == i {
			label = litStyle.Render(label)
		}
		s.WriteString(label)
	}
	s.WriteString("\n\n")
	if g.Demonstrating() {
		s.WriteString(subtleStyle.Render("İzle ve dinle..."))
	} else {
		s.WriteString(fmt.Sprintf("Sıra sende! %d/%d", g.Entered(), len(g.Sequence())))
	}
	return s.String()
}

func edgeGlyph(e minigame.Edge) string {
	switch e {
	case minigame.Tab:
		return "+"
	case minigame.Hole:
		return "-"
	default:
		return "·"
	}
}

// shapeLabel lists a piece's edges clockwise from the top.
func shapeLabel(s minigame.PieceShape) string {
	return edgeGlyph(s.Top) + edgeGlyph(s.Right) + edgeGlyph(s.Bottom) + edgeGlyph(s.Left)
}

func (b *boardModel) earthView(g *minigame.Earth, spin string) string {
	if g.Loading() {
		return spin + " " + g.LoadingText()
	}

	shapes := g.Shapes()
	var s strings.Builder
	if img := g.Image(); img != "" {
		s.WriteString(subtleStyle.Render("🖼  "+truncate.StringWithTail(img, 48, "…")) + "\n\n")
	}
	for i, piece := range g.Slots() {
		cell := subtleStyle.Render(fmt.Sprintf("%d:%s", i+1, shapeLabel(shapes[i])))
		if piece >= 0 {
			cell = colored("#22c55e", fmt.Sprintf("%d:%s", i+1, "████"))
		}
		s.WriteString(cell + "  ")
		if (i+1)%minigame.EarthSize == 0 {
			s.WriteString("\n")
		}
	}
	s.WriteString("\nParçalar: ")
	for i, piece := range g.Tray() {
		label := shapeLabel(shapes[piece])
		switch {
		case piece == g.Selected():
			label = buttonStyle.Render(label)
		case i == b.cursor:
			label = litStyle.Render(label)
		}
		s.WriteString(label + " ")
	}
	s.WriteString(helpStyle.Render("\n←/→ parça seç • enter al • rakam ile yerleştir"))
	return s.String()
}

func marsView(g *minigame.Mars) string {
	var s strings.Builder
	s.WriteString(strings.Repeat("👾", g.Target()) + "\n\nKaç tane uzaylı var?\n")
	for i, n := range g.Options() {
		s.WriteString(fmt.Sprintf("  %d) %s", i+1, buttonStyle.Render(fmt.Sprint(n))))
	}
	return s.String()
}

func (b *boardModel) jupiterView(g *minigame.Jupiter) string {
	var s strings.Builder
	cols := g.Columns()
	for i, c := range g.Cards() {
		face := "❔"
		if c.Flipped || c.Matched {
			face = c.Icon
		}
		cell := " " + face + " "
		if i == b.cursor {
			cell = litStyle.Render(cell)
		}
		s.WriteString(cell)
		if (i+1)%cols == 0 {
			s.WriteString("\n")
		}
	}
	s.WriteString(helpStyle.Render("oklar ile gez • enter çevir"))
	return s.String()
}

func saturnView(g *minigame.Saturn) string {
	var s strings.Builder
	for _, sym := range g.Pattern() {
		if sym == nil {
			s.WriteString(" ❓ ")
			continue
		}
		s.WriteString(" " + sym.Glyph + " ")
	}
	s.WriteString("\n\nSırada hangisi var?\n")
	for i, o := range g.Options() {
		s.WriteString(fmt.Sprintf("  %d) %s", i+1, o.Glyph))
	}
	return s.String()
}

func uranusView(g *minigame.Uranus) string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s %d/%d\n\n", g.Icon(), g.Score(), g.Target())
	for i := 0; i < minigame.UranusSlots; i++ {
		cell := fmt.Sprintf(" %d ⚫ ", i+1)
		if g.Active() == i {
			cell = litStyle.Render(fmt.Sprintf(" %d %s ", i+1, g.Icon()))
		}
		s.WriteString(cell)
		if (i+1)%3 == 0 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

var rocketFacing = map[minigame.Direction]string{
	minigame.Up:    "▲",
	minigame.Right: "▶",
	minigame.Down:  "▼",
	minigame.Left:  "◀",
}

func neptuneView(g *minigame.Neptune) string {
	var s strings.Builder
	grid, pos := g.Map(), g.Position()
	for y, row := range grid {
		for x, cell := range row {
			glyph := " · "
			switch cell {
			case minigame.Wall:
				glyph = "███"
			case minigame.Exit:
				glyph = " 🏁"
			case minigame.BlackHole:
				glyph = " 🌀"
			case minigame.StartCell:
				glyph = " ○ "
			}
			if pos.X == x && pos.Y == y {
				glyph = cursorStyle.Render(" " + rocketFacing[g.Facing()] + " ")
			}
			s.WriteString(glyph)
		}
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("oklar ile roketi sür"))
	return s.String()
}

func plutoView(g *minigame.Pluto) string {
	var s strings.Builder
	for _, c := range g.Clues() {
		fmt.Fprintf(&s, "%s = %s\n", strings.Join(c.Icons, " "), c.Code)
	}
	fmt.Fprintf(&s, "\n%s = ???\n\n", strings.Join(g.Question(), " "))
	for i, o := range g.Options() {
		s.WriteString(fmt.Sprintf("  %d) %s", i+1, buttonStyle.Render(o)))
	}
	return s.String()
}
