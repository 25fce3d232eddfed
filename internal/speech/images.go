package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	PuzzleImageSize   = "1K"
	PuzzleAspectRatio = "1:1"
)

// FallbackImages are shown when image generation is unavailable.
var FallbackImages = []string{
	"https://images.unsplash.com/photo-1614726365723-498aa67c5f7b?q=80&w=1080",
	"https://images.unsplash.com/photo-1632395623788-b7c405c935bc?q=80&w=1080",
	"https://images.unsplash.com/photo-1541873676-a18131494184?q=80&w=1080",
	"https://images.unsplash.com/photo-1579546929518-9e396f3cc809?q=80&w=1080",
	"https://images.unsplash.com/photo-1534293630396-6b22eb84610e?q=80&w=1080",
}

// PuzzlePrompts holds one image prompt per jigsaw stage.
var PuzzlePrompts = []string{
	"cute 3d cartoon earth planet with a happy face, space background, colorful illustration, vibrant colors, pixar style, simple vector art",
	"cute 3d cartoon mars planet, red and orange, funny aliens waving, space background, colorful illustration, vibrant colors, pixar style",
	"cute 3d cartoon saturn planet with colorful rings, purple and blue colors, space background, colorful illustration, vibrant colors, pixar style",
}

// FallbackImage returns the stock picture for a stage.
func FallbackImage(stage int) string {
	if stage < 0 {
		stage = -stage
	}
	return FallbackImages[stage%len(FallbackImages)]
}

// ImagePicker chooses the picture for a jigsaw stage, preferring a
// generated one and remembering what it produced.
type ImagePicker struct {
	gen ImageGenerator

	mu   sync.Mutex
	seen map[int]string
}

// NewImagePicker returns a picker. A nil gen always yields fallbacks.
func NewImagePicker(gen ImageGenerator) *ImagePicker {
	return &ImagePicker{gen: gen, seen: make(map[int]string)}
}

// PuzzleImage returns an image URI for stage and whether it was generated.
// It never fails: any backend problem resolves to FallbackImage(stage).
func (p *ImagePicker) PuzzleImage(ctx context.Context, stage int) (string, bool) {
	p.mu.Lock()
	if uri, ok := p.seen[stage]; ok {
		p.mu.Unlock()
		return uri, true
	}
	p.mu.Unlock()

	if p.gen == nil {
		return FallbackImage(stage), false
	}

	prompt := PuzzlePrompts[0]
	if stage >= 0 && stage < len(PuzzlePrompts) {
		prompt = PuzzlePrompts[stage]
	}

	uri, err := p.gen.GenerateImage(ctx, prompt, PuzzleImageSize, PuzzleAspectRatio)
	if err != nil {
		var se *Error
		if errors.As(err, &se) && se.IsQuota() {
			log.Warn("Image generation unavailable, using stock picture", "stage", stage, "code", se.Code)
		} else {
			log.Error("Image generation failed", "stage", stage, "err", err)
		}
		return FallbackImage(stage), false
	}

	p.mu.Lock()
	p.seen[stage] = uri
	p.mu.Unlock()
	return uri, true
}
