package minigame

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
)

// PlutoIcons is the symbol pool for the code breaker.
var PlutoIcons = []string{"🍎", "🚀", "⭐", "🐶", "🚗", "🎈", "🍕", "⚽"}

const plutoOptions = 3

// Clue is a row of icons with its code.
type Clue struct {
	Icons []string
	Code  string
}

// Pluto is a code breaker: three icons stand for the digits 1..3, the
// clues reveal the mapping and the player decodes a new row.
type Pluto struct {
	base
	clues    []Clue
	question []string
	answer   string
	options  []string
	solved   bool
}

func (g *Pluto) Planet() progress.PlanetID { return progress.Pluto }

func (g *Pluto) Start() {
	g.generate()
}

// Clues of the current round.
func (g *Pluto) Clues() []Clue { return append([]Clue(nil), g.clues...) }

// Question is the icon row to decode.
func (g *Pluto) Question() []string { return append([]string(nil), g.question...) }

// Options are the offered codes, ascending.
func (g *Pluto) Options() []string { return append([]string(nil), g.options...) }

func (g *Pluto) generate() {
	pool := append([]string(nil), PlutoIcons...)
	g.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	icons := pool[:3]

	digit := make(map[string]int, len(icons))
	for i, icon := range icons {
		digit[icon] = i + 1
	}
	encode := func(row []string) string {
		var b strings.Builder
		for _, icon := range row {
			b.WriteString(strconv.Itoa(digit[icon]))
		}
		return b.String()
	}

	combos := [][]string{
		{icons[0], icons[1], icons[2]},
		{icons[0], icons[0], icons[1]},
		{icons[2], icons[1], icons[0]},
	}
	g.shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
	g.clues = g.clues[:0]
	for _, row := range combos {
		g.clues = append(g.clues, Clue{Icons: row, Code: encode(row)})
	}

	g.question = append([]string(nil), icons...)
	g.shuffle(len(g.question), func(i, j int) { g.question[i], g.question[j] = g.question[j], g.question[i] })
	g.answer = encode(g.question)

	g.options = []string{g.answer}
	for len(g.options) < plutoOptions {
		var b strings.Builder
		for i := 0; i < 3; i++ {
			b.WriteString(strconv.Itoa(1 + g.env.Rand.IntN(3)))
		}
		if s := b.String(); !slices.Contains(g.options, s) {
			g.options = append(g.options, s)
		}
	}
	slices.Sort(g.options)
	g.solved = false
}

// Answer submits a code.
func (g *Pluto) Answer(code string) {
	if g.stopped || g.solved {
		return
	}
	if code != g.answer {
		g.feedback("Yanlış şifre. İpuçlarına dikkat et!", Error)
		return
	}
	g.solved = true
	g.feedback(content.RandomPraise(g.env.Rand), Success)
	if g.level < Levels {
		g.after(time.Second, func() {
			g.level++
			g.generate()
		})
		return
	}
	g.finish()
}
