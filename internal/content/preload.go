package content

import (
	"time"

	"github.com/minikastronot/minik/internal/progress"
)

// Line is one (text, voice) pair to synthesize ahead of time.
type Line struct {
	Text  string
	Voice string
}

// Plan lists lines to warm. Greetings are fetched together; Others are
// fetched BatchSize at a time with BatchDelay between batches.
type Plan struct {
	Greetings  []Line
	Others     []Line
	BatchSize  int
	BatchDelay time.Duration
}

// Len is the total number of lines in the plan.
func (p Plan) Len() int {
	return len(p.Greetings) + len(p.Others)
}

// DefaultPlan warms every character greeting in its own voice, then the
// planet intros, common feedback and the locked-planet line in the
// narrator voice.
func DefaultPlan() Plan {
	p := Plan{BatchSize: 3, BatchDelay: time.Second}
	for _, c := range progress.Characters() {
		p.Greetings = append(p.Greetings, Line{Text: c.Greeting, Voice: c.VoiceName})
	}
	for _, id := range progress.PlanetOrder() {
		p.Others = append(p.Others, Line{Text: Intro(id), Voice: NarratorVoice})
	}
	for _, s := range CommonFeedback {
		p.Others = append(p.Others, Line{Text: s, Voice: NarratorVoice})
	}
	p.Others = append(p.Others, Line{Text: LockedPlanet, Voice: NarratorVoice})
	return p
}
