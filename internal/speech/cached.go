package speech

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/minikastronot/minik/internal/cache"
)

// CachedSynthesizer persists synthesized PCM on disk so narration survives
// restarts without going back to the backend.
type CachedSynthesizer struct {
	next  Synthesizer
	store *cache.DiskCache
}

// NewCachedSynthesizer wraps next with store.
func NewCachedSynthesizer(next Synthesizer, store *cache.DiskCache) *CachedSynthesizer {
	return &CachedSynthesizer{next: next, store: store}
}

// Synthesize returns the stored PCM for (text, voice), or asks next and
// stores a non-empty answer.
func (c *CachedSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	key := cache.Key(text, voice)
	if pcm, ok := c.store.Get(key); ok {
		log.Debug("Speech cache hit", "voice", voice, "size", humanize.Bytes(uint64(len(pcm))))
		return pcm, nil
	}

	pcm, err := c.next.Synthesize(ctx, text, voice)
	if err != nil || len(pcm) == 0 {
		return pcm, err
	}
	if err := c.store.Put(key, pcm); err != nil {
		log.Warn("Could not store speech", "voice", voice, "err", err)
	} else {
		log.Debug("Speech cached", "voice", voice, "size", humanize.Bytes(uint64(len(pcm))))
	}
	return pcm, nil
}
