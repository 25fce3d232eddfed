package minigame

import (
	"slices"
	"time"
	"unicode/utf8"

	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
)

// Stage is the host's top-level state.
type Stage int

const (
	StageIntro Stage = iota
	StagePlaying
	StageWon
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StagePlaying:
		return "playing"
	case StageWon:
		return "won"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Voice speaks the robot's lines.
type Voice interface {
	Say(text string)
	Stop()
}

// Progress is the part of the progress store a host writes to.
type Progress interface {
	UnlockNextPlanet(current progress.PlanetID) (progress.PlanetID, bool)
	AddStars(id progress.PlanetID, stars int) error
	IsLastPlanet(id progress.PlanetID) bool
	ClearCurrentPlanet()
}

// HostConfig wires a host to the rest of the session.
type HostConfig struct {
	Voice     Voice
	Sound     Sound
	Progress  Progress
	Scheduler Scheduler
	Images    ImageSource
	// NewGame overrides game construction, mainly for tests.
	NewGame func(planet progress.PlanetID, env Env) Game
	// Env seeds every game's environment; Rand is the useful field.
	Env Env
}

const (
	minIntroDelay = time.Second
	introPerRune  = 40 * time.Millisecond
)

// IntroDelay is how long the start button stays disabled for msg.
func IntroDelay(msg string) time.Duration {
	return max(minIntroDelay, time.Duration(utf8.RuneCountInString(msg))*introPerRune)
}

// StarsFor converts a mistake count into a rating.
func StarsFor(mistakes int) int {
	switch {
	case mistakes <= 0:
		return 3
	case mistakes == 1:
		return 2
	default:
		return 1
	}
}

// Host runs one planet's game. It must only be used from the scheduler's
// event loop.
type Host struct {
	planet progress.PlanetID
	cfg    HostConfig

	stage    Stage
	canStart bool
	mistakes int
	stars    int
	message  string

	game       Game
	gen        int
	cancelGate func()
}

// NewHost opens planet in its intro stage and arms the start gate. It
// panics for a planet without a game.
func NewHost(planet progress.PlanetID, cfg HostConfig) *Host {
	if !slices.Contains(progress.PlanetOrder(), planet) {
		panic("minigame: unknown planet " + string(planet))
	}
	if cfg.NewGame == nil {
		cfg.NewGame = New
	}
	if cfg.Sound == nil {
		cfg.Sound = silence{}
	}
	h := &Host{planet: planet, cfg: cfg, stage: StageIntro}
	h.message = content.Intro(planet)
	h.cancelGate = cfg.Scheduler.After(IntroDelay(h.message), func() {
		h.canStart = true
	})
	return h
}

// Planet being played.
func (h *Host) Planet() progress.PlanetID { return h.planet }

// Stage is the current state.
func (h *Host) Stage() Stage { return h.stage }

// CanStart reports whether the intro gate has opened.
func (h *Host) CanStart() bool { return h.canStart }

// StartLabel is the text of the start button.
func (h *Host) StartLabel() string {
	if h.canStart {
		return content.StartButton
	}
	return content.ListeningText
}

// Message is the robot's current line.
func (h *Host) Message() string { return h.message }

// Mistakes counted this attempt.
func (h *Host) Mistakes() int { return h.mistakes }

// Stars earned by the last win.
func (h *Host) Stars() int { return h.stars }

// Game is the running game, or nil outside StagePlaying.
func (h *Host) Game() Game {
	if h.stage != StagePlaying {
		return nil
	}
	return h.game
}

// IsLastPlanet reports whether winning here ends the tour.
func (h *Host) IsLastPlanet() bool { return h.cfg.Progress.IsLastPlanet(h.planet) }

// NextLabel is the caption of the win panel's forward button.
func (h *Host) NextLabel() string {
	if h.IsLastPlanet() {
		return content.BackToSystem
	}
	return content.NextPlanet
}

// Start leaves the intro. It reports false while the gate is closed.
func (h *Host) Start() bool {
	if h.stage != StageIntro || !h.canStart {
		return false
	}
	h.cfg.Voice.Stop()
	h.cfg.Sound.Effect(sfx.Click)
	h.message = content.StartLine
	h.launch()
	return true
}

// Restart throws the current game away and plays a fresh one.
func (h *Host) Restart() {
	if h.stage == StageIntro {
		return
	}
	h.cfg.Voice.Stop()
	h.cfg.Sound.Effect(sfx.Click)
	h.mistakes = 0
	h.message = content.RestartLine
	h.launch()
}

// Back leaves the planet for the map.
func (h *Host) Back() {
	h.cfg.Voice.Stop()
	h.cfg.Sound.Effect(sfx.Click)
	h.Close()
	h.cfg.Progress.ClearCurrentPlanet()
}

// Next leaves a won planet; the map then offers the newly unlocked one.
func (h *Host) Next() {
	h.Back()
}

// Replay says the current message again.
func (h *Host) Replay() {
	h.cfg.Voice.Say(h.message)
}

// Close stops timers without touching progress.
func (h *Host) Close() {
	if h.cancelGate != nil {
		h.cancelGate()
	}
	h.dropGame()
}

func (h *Host) launch() {
	h.dropGame()
	h.stage = StagePlaying
	h.gen++

	env := h.cfg.Env
	env.Reporter = &hostReporter{host: h, gen: h.gen}
	env.Scheduler = h.cfg.Scheduler
	env.Sound = h.cfg.Sound
	env.Images = h.cfg.Images
	h.game = h.cfg.NewGame(h.planet, env)
	h.game.Start()
}

func (h *Host) dropGame() {
	if h.game != nil {
		h.game.Stop()
		h.game = nil
	}
}

func (h *Host) feedback(text string, kind FeedbackKind) {
	h.message = text
	switch kind {
	case Success:
		h.cfg.Sound.Effect(sfx.Success)
	case Error:
		h.cfg.Sound.Effect(sfx.Error)
		h.mistakes++
	default:
		h.cfg.Sound.Effect(sfx.Click)
	}
	if kind != Neutral {
		h.cfg.Voice.Say(text)
	}
}

// win rates the attempt. explicit < 0 means "use the mistake count".
func (h *Host) win(explicit int) {
	stars := explicit
	if explicit < 0 {
		stars = StarsFor(h.mistakes)
	}
	if stars <= 0 {
		h.fail()
		return
	}
	stars = min(stars, progress.MaxStars)

	h.dropGame()
	h.stage = StageWon
	h.stars = stars
	h.cfg.Progress.UnlockNextPlanet(h.planet)
	_ = h.cfg.Progress.AddStars(h.planet, stars)
	h.cfg.Sound.Effect(sfx.Success)
	h.message = content.WinLine(stars)
	h.cfg.Voice.Say(h.message)
}

func (h *Host) fail() {
	h.dropGame()
	h.stage = StageFailed
	h.cfg.Sound.Effect(sfx.Error)
	h.message = content.FailLine
	h.cfg.Voice.Say(h.message)
}

// hostReporter ties a game instance to the host. Reports from a game that
// has been replaced are dropped.
type hostReporter struct {
	host *Host
	gen  int
}

func (r *hostReporter) live() bool {
	return r.gen == r.host.gen && r.host.stage == StagePlaying
}

func (r *hostReporter) Feedback(text string, kind FeedbackKind) {
	if r.live() {
		r.host.feedback(text, kind)
	}
}

func (r *hostReporter) Finish() {
	if r.live() {
		r.host.win(-1)
	}
}

func (r *hostReporter) FinishWithStars(stars int) {
	if r.live() {
		r.host.win(stars)
	}
}

func (r *hostReporter) Fail() {
	if r.live() {
		r.host.fail()
	}
}
