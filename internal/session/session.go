// Package session ties one player's progress, narration and sound
// effects together and performs the actions that touch more than one of
// them.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/content"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/narration"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/sfx"
	"github.com/minikastronot/minik/internal/speech"
)

// EffectPlayer mixes short clips over the narration.
type EffectPlayer interface {
	PlayEffect(clip audio.Clip) error
}

// Config assembles a session.
type Config struct {
	Synth        speech.Synthesizer
	Voice        narration.Player
	Effects      EffectPlayer
	Images       minigame.ImageSource
	DefaultVoice string
	// SampleRate is the rate effects are rendered at. Speech keeps the
	// backend rate and the player resamples it.
	SampleRate   int
	Rand         *rand.Rand
}

// Session is one play-through. Progress lives only as long as the session.
type Session struct {
	id       string
	started  time.Time
	store    *progress.Store
	narrator *narration.Narrator
	effects  EffectPlayer
	bank     *sfx.Bank
	images   minigame.ImageSource
	rand     *rand.Rand
}

// New starts a fresh session.
func New(cfg Config) *Session {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.SpeechSampleRate
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	}
	store := progress.NewStore()
	s := &Session{
		id:      uuid.NewString(),
		started: time.Now(),
		store:   store,
		effects: cfg.Effects,
		bank:    sfx.NewBank(cfg.SampleRate),
		images:  cfg.Images,
		rand:    cfg.Rand,
	}
	s.narrator = narration.New(cfg.Synth, cfg.Voice, narration.Config{
		DefaultVoice: cfg.DefaultVoice,
		Voice:        store.VoiceName,
	})
	log.Debug("Session started", "id", s.id)
	return s
}

// ID identifies the session.
func (s *Session) ID() string { return s.id }

// Started is when the session was created.
func (s *Session) Started() time.Time { return s.started }

// Store is the session's progress.
func (s *Session) Store() *progress.Store { return s.store }

// Narrator is the session's narrator.
func (s *Session) Narrator() *narration.Narrator { return s.narrator }

// Preload warms narration with plan.
func (s *Session) Preload(ctx context.Context, plan content.Plan) narration.PreloadReport {
	return s.narrator.Preload(ctx, plan)
}

// SelectCharacter picks the player's astronaut and greets in its voice,
// interrupting anything being said.
func (s *Session) SelectCharacter(id progress.CharacterID) (progress.Character, error) {
	s.Effect(sfx.Click)
	c, err := s.store.SelectCharacter(id)
	if err != nil {
		return c, err
	}
	s.narrator.Speak(c.Greeting, narration.WithVoice(c.VoiceName), narration.WithPriority())
	return c, nil
}

// OpenPlanet is a tap on the map. An unlocked planet is introduced and
// becomes current; a locked one only earns a reminder.
func (s *Session) OpenPlanet(id progress.PlanetID) error {
	s.Effect(sfx.Click)
	p, ok := s.store.Planet(id)
	if !ok {
		return progress.ErrUnknownPlanet
	}
	if _, ok := s.store.Character(); !ok {
		return progress.ErrNoCharacter
	}
	if !p.Unlocked {
		s.narrator.Speak(content.LockedPlanet)
		return progress.ErrPlanetLocked
	}
	s.narrator.Speak(content.Intro(id), narration.WithPriority())
	return s.store.SetCurrentPlanet(id)
}

// NewHost opens the current planet's game on sched.
func (s *Session) NewHost(sched minigame.Scheduler) (*minigame.Host, error) {
	id, ok := s.store.CurrentPlanet()
	if !ok {
		return nil, errors.New("no planet selected")
	}
	return minigame.NewHost(id, minigame.HostConfig{
		Voice:     s,
		Sound:     s,
		Progress:  s.store,
		Scheduler: sched,
		Images:    s.images,
		Env:       minigame.Env{Rand: s.rand},
	}), nil
}

// Say narrates text in the resolved voice.
func (s *Session) Say(text string) { s.narrator.Speak(text) }

// Stop silences narration.
func (s *Session) Stop() { s.narrator.Stop() }

// Effect plays a sound effect.
func (s *Session) Effect(kind sfx.Kind) {
	s.play(s.bank.Clip(kind))
}

// Tone plays a musical note.
func (s *Session) Tone(freq float64) {
	s.play(s.bank.Tone(freq))
}

func (s *Session) play(clip audio.Clip) {
	if s.effects == nil {
		return
	}
	if err := s.effects.PlayEffect(clip); err != nil {
		log.Debug("Effect dropped", "err", err)
	}
}

// Close stops narration and abandons background fetches.
func (s *Session) Close() {
	s.narrator.Close()
	log.Debug("Session closed", "id", s.id, "played", time.Since(s.started).Round(time.Second))
}

type ctxKey struct{}

// WithContext attaches s to ctx.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx. It panics when there
// is none: every caller runs under a session and a missing one is a
// wiring bug.
func FromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok {
		panic("session: no session in context")
	}
	return s
}
