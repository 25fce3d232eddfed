package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/cache"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/session"
	"github.com/minikastronot/minik/internal/speech"
)

type runtimeOptions struct {
	// speakers opens the sound device; otherwise playback is simulated.
	speakers bool
}

// runtime owns everything a command needs to run a session.
type runtime struct {
	sess   *session.Session
	output audio.Output
	images minigame.ImageSource
	cache  *cache.DiskCache
}

func newRuntime(s settings, e envConfig, o runtimeOptions) (*runtime, error) {
	rt := &runtime{}

	var (
		synth speech.Synthesizer
		gen   speech.ImageGenerator
	)
	if key := e.Key(); key != "" {
		client, err := speech.NewClient(s.speechConfig(key))
		if err != nil {
			return nil, fmt.Errorf("unable to create speech client: %w", err)
		}
		synth, gen = client, client
	} else {
		log.Warn("No API key set; narration is silent and pictures use the stock pool")
		offline := speech.Offline{}
		synth, gen = offline, offline
	}

	if s.Speech.CacheEnabled {
		dir := s.Speech.CacheDir
		if dir == "" {
			d, err := gap.NewScope(gap.User, "minik").CacheDir()
			if err != nil {
				return nil, fmt.Errorf("unable to find cache directory: %w", err)
			}
			dir = d
		}
		dc, err := cache.NewDiskCache(dir, defaultCacheSize, s.Speech.CacheLevel)
		if err != nil {
			return nil, fmt.Errorf("unable to open speech cache: %w", err)
		}
		rt.cache = dc
		synth = speech.NewCachedSynthesizer(synth, dc)
		log.Debug("Speech cache enabled", "dir", dir)
	}

	if s.Image.Enabled {
		rt.images = speech.NewImagePicker(gen)
	} else {
		rt.images = speech.NewImagePicker(nil)
	}

	rt.output = openOutput(s, o)
	rt.sess = session.New(session.Config{
		Synth:        synth,
		Voice:        rt.output,
		Effects:      rt.output,
		Images:       rt.images,
		DefaultVoice: s.Voice,
		SampleRate:   s.Audio.SampleRate,
	})
	return rt, nil
}

// openOutput falls back to a muted player when the sound device is
// unavailable so the game still runs on headless machines.
func openOutput(s settings, o runtimeOptions) audio.Output {
	if !o.speakers {
		return audio.NewMutedPlayer()
	}
	cfg := audio.DefaultPlayerConfig()
	cfg.SampleRate = s.Audio.SampleRate
	cfg.Volume = s.Audio.Volume
	p, err := audio.NewPlayer(cfg)
	if err != nil {
		log.Warn("Sound device unavailable, continuing muted", "err", err)
		return audio.NewMutedPlayer()
	}
	return p
}

func (rt *runtime) Close() {
	rt.sess.Close()
	if err := rt.output.Close(); err != nil {
		log.Debug("Closing audio output", "err", err)
	}
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			log.Warn("Closing speech cache", "err", err)
		}
	}
}
