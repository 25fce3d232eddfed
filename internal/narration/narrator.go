// Package narration turns lines of text into spoken audio. It caches
// synthesized clips per (text, voice), joins concurrent requests for the
// same clip and makes sure only one line is spoken at a time.
package narration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/speech"
)

// DefaultVoice is used when neither the request nor the resolver names one.
const DefaultVoice = "Kore"

// ErrNoAudio is returned by Clip when the backend produced nothing.
var ErrNoAudio = errors.New("no audio for line")

// Player is the voice track the narrator drives. onDone must be called
// once when a clip ends on its own and never after Stop or a newer Play.
type Player interface {
	Play(clip audio.Clip, onDone func()) error
	Stop() error
	Pause() error
	Resume() error
}

// Request is one line to speak.
type Request struct {
	Text     string
	Voice    string
	Priority bool
}

// Key identifies the clip of a request in the cache.
func (r Request) Key() string {
	return r.Text + "-" + r.Voice
}

// Option adjusts a Speak call.
type Option func(*Request)

// WithVoice overrides the resolved voice.
func WithVoice(voice string) Option {
	return func(r *Request) {
		r.Voice = voice
	}
}

// WithPriority makes the line interrupt whatever is being spoken.
func WithPriority() Option {
	return func(r *Request) {
		r.Priority = true
	}
}

// Config configures a Narrator.
type Config struct {
	// DefaultVoice is the last step of voice resolution.
	DefaultVoice string
	// Voice returns the voice of the selected character, or "".
	Voice func() string
	// SampleRate of the PCM produced by the synthesizer.
	SampleRate int
}

// Narrator speaks lines through a Player.
type Narrator struct {
	synth  speech.Synthesizer
	player Player
	cfg    Config
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu        sync.Mutex
	clips     map[string]audio.Clip
	busy      bool
	queued    *Request
	gen       uint64
	listeners []func(bool)
}

// New returns a narrator that fetches through synth and plays on player.
func New(synth speech.Synthesizer, player Player, cfg Config) *Narrator {
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = DefaultVoice
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.SpeechSampleRate
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Narrator{
		synth:  synth,
		player: player,
		cfg:    cfg,
		logger: log.WithPrefix("narration"),
		ctx:    ctx,
		cancel: cancel,
		clips:  make(map[string]audio.Clip),
	}
}

// Speak queues text for narration and returns immediately.
//
// While a line is being fetched or played, a normal request replaces the
// single queued slot and a priority request stops the current line, drops
// the queue and takes over. When idle the line is resolved and played;
// the queued request, if any, follows once it finishes. Failures are
// logged and never surface to the caller.
func (n *Narrator) Speak(text string, opts ...Option) {
	if strings.TrimSpace(text) == "" {
		return
	}
	req := Request{Text: text}
	for _, opt := range opts {
		opt(&req)
	}
	req.Voice = n.resolveVoice(req.Voice)

	n.mu.Lock()
	if n.busy {
		if !req.Priority {
			n.queued = &req
			n.mu.Unlock()
			n.logger.Debug("Line queued", "text", req.Text)
			return
		}
		n.queued = nil
		n.stopPlayerLocked()
	}
	n.gen++
	gen := n.gen
	notify := n.setBusyLocked(true)
	n.mu.Unlock()

	notify()
	go n.run(gen, req)
}

// Stop silences the current line and forgets the queued one. Fetches in
// flight keep running and still fill the cache.
func (n *Narrator) Stop() {
	n.mu.Lock()
	n.gen++
	n.queued = nil
	n.stopPlayerLocked()
	notify := n.setBusyLocked(false)
	n.mu.Unlock()
	notify()
}

// Pause suspends audio output.
func (n *Narrator) Pause() {
	if err := n.player.Pause(); err != nil {
		n.logger.Warn("Pause failed", "err", err)
	}
}

// Resume restarts suspended audio output.
func (n *Narrator) Resume() {
	if err := n.player.Resume(); err != nil {
		n.logger.Warn("Resume failed", "err", err)
	}
}

// Speaking reports whether a line owns the narrator.
func (n *Narrator) Speaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.busy
}

// OnSpeakingChanged registers fn to be called whenever Speaking flips.
// fn runs without the narrator lock held, on an arbitrary goroutine.
func (n *Narrator) OnSpeakingChanged(fn func(speaking bool)) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}

// Clip resolves the audio for (text, voice) through the cache without
// playing it. An empty voice goes through normal resolution.
func (n *Narrator) Clip(ctx context.Context, text, voice string) (audio.Clip, error) {
	if strings.TrimSpace(text) == "" {
		return audio.Clip{}, ErrNoAudio
	}
	return n.resolve(ctx, text, n.resolveVoice(voice))
}

// Cached reports whether (text, voice) is already decoded in memory.
func (n *Narrator) Cached(text, voice string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.clips[Request{Text: text, Voice: voice}.Key()]
	return ok
}

// Close stops narration and abandons background fetches.
func (n *Narrator) Close() {
	n.Stop()
	n.cancel()
}

func (n *Narrator) resolveVoice(override string) string {
	if override != "" {
		return override
	}
	if n.cfg.Voice != nil {
		if v := n.cfg.Voice(); v != "" {
			return v
		}
	}
	return n.cfg.DefaultVoice
}

func (n *Narrator) run(gen uint64, req Request) {
	clip, err := n.resolve(n.ctx, req.Text, req.Voice)

	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	if err == nil {
		err = n.player.Play(clip, func() { n.finished(gen) })
		if err == nil {
			n.mu.Unlock()
			return
		}
	}
	n.mu.Unlock()

	n.logger.Error("Narration failed", "text", req.Text, "voice", req.Voice, "err", err)
	n.finished(gen)
}

// finished releases the narrator for gen and starts the queued request.
func (n *Narrator) finished(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	next := n.queued
	n.queued = nil
	if next == nil {
		notify := n.setBusyLocked(false)
		n.mu.Unlock()
		notify()
		return
	}
	n.gen++
	g := n.gen
	n.mu.Unlock()

	go n.run(g, *next)
}

func (n *Narrator) resolve(ctx context.Context, text, voice string) (audio.Clip, error) {
	key := Request{Text: text, Voice: voice}.Key()

	n.mu.Lock()
	clip, ok := n.clips[key]
	n.mu.Unlock()
	if ok {
		return clip, nil
	}

	// The fetch belongs to the narrator, not to whoever asked first, so a
	// caller giving up does not fail the others waiting on it.
	ch := n.group.DoChan(key, func() (any, error) {
		return n.fetch(key, text, voice)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return audio.Clip{}, res.Err
		}
		if res.Shared {
			n.logger.Debug("Joined in-flight fetch", "text", text, "voice", voice)
		}
		return res.Val.(audio.Clip), nil
	case <-ctx.Done():
		return audio.Clip{}, ctx.Err()
	}
}

// fetch synthesizes and decodes one clip into the cache. A fetch that
// landed between the caller's cache miss and this call is reused.
func (n *Narrator) fetch(key, text, voice string) (audio.Clip, error) {
	n.mu.Lock()
	clip, ok := n.clips[key]
	n.mu.Unlock()
	if ok {
		return clip, nil
	}

	pcm, err := n.synth.Synthesize(n.ctx, text, voice)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("synthesize: %w", err)
	}
	if len(pcm) == 0 {
		return audio.Clip{}, ErrNoAudio
	}
	clip, err = audio.DecodePCM16(pcm, n.cfg.SampleRate)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("decode: %w", err)
	}
	n.mu.Lock()
	n.clips[key] = clip
	n.mu.Unlock()
	return clip, nil
}

func (n *Narrator) stopPlayerLocked() {
	if err := n.player.Stop(); err != nil {
		n.logger.Warn("Stop failed", "err", err)
	}
}

// setBusyLocked records the new state and returns the listener fan-out to
// run once the lock is released.
func (n *Narrator) setBusyLocked(busy bool) func() {
	if n.busy == busy {
		return func() {}
	}
	n.busy = busy
	listeners := slices.Clone(n.listeners)
	return func() {
		for _, fn := range listeners {
			fn(busy)
		}
	}
}
