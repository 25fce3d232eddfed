// Package speech talks to the Gemini generative API: text-to-speech for
// narration and image generation for puzzle pictures.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultVoice       = "Kore"
)

// Synthesizer turns text into raw 16-bit PCM at 24kHz.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ImageGenerator turns a prompt into an image URI.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size, aspectRatio string) (string, error)
}

// Config configures the backend client.
type Config struct {
	APIKey      string
	BaseURL     string
	SpeechModel string
	ImageModel  string

	// Retries is the number of extra speech attempts after the first.
	Retries int
	// BaseDelay is doubled per retry: the n-th retry waits BaseDelay * 2^n.
	BaseDelay time.Duration

	RequestsPerMinute int
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// DefaultConfig returns the stock backend settings without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		SpeechModel:       DefaultSpeechModel,
		ImageModel:        DefaultImageModel,
		Retries:           2,
		BaseDelay:         time.Second,
		RequestsPerMinute: 60,
		Timeout:           60 * time.Second,
	}
}

// Client is a Gemini REST client.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient validates cfg and fills unset fields from DefaultConfig.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = def.SpeechModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:     cfg,
		http:    hc,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute),
		logger:  log.WithPrefix("speech"),
	}, nil
}

// Synthesize requests speech for text in the named prebuilt voice and
// returns the raw PCM. Blank text yields nil without contacting the
// backend. Retryable failures are retried with exponential backoff; the
// last error is returned once attempts run out.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if voice == "" {
		voice = DefaultVoice
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BaseDelay << attempt
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		pcm, err := c.synthesizeOnce(ctx, text, voice)
		if err == nil {
			return pcm, nil
		}
		lastErr = err

		// An answer without audio will not change on a retry.
		if errors.Is(err, ErrNoAudio) {
			break
		}
		var se *Error
		if errors.As(err, &se) && !se.IsRetryable() {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("Speech request failed",
			"attempt", attempt+1, "of", c.cfg.Retries+1, "voice", voice, "err", err)
	}

	c.logger.Error("Speech failed after retries", "text", text, "err", lastErr)
	return nil, lastErr
}

func (c *Client) synthesizeOnce(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := buildSpeechRequest(text, voice)
	if err != nil {
		return nil, err
	}
	resp, err := c.generate(ctx, c.cfg.SpeechModel, body)
	if err != nil {
		return nil, err
	}

	data := gjson.GetBytes(resp, "candidates.0.content.parts.0.inlineData.data").String()
	if data == "" {
		return nil, ErrNoAudio
	}
	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &Error{Code: ErrorCodeMalformed, Message: "audio payload is not base64", Cause: err}
	}
	return pcm, nil
}

// GenerateImage asks the image model for a picture and returns it as a
// data URI. Permission and quota refusals come back as *Error with
// IsQuota set; callers are expected to fall back to a stock image.
func (c *Client) GenerateImage(ctx context.Context, prompt, size, aspectRatio string) (string, error) {
	body, err := buildImageRequest(prompt, aspectRatio)
	if err != nil {
		return "", err
	}
	// The flash image model ignores size; it is accepted for parity with
	// models that support it.
	_ = size

	resp, err := c.generate(ctx, c.cfg.ImageModel, body)
	if err != nil {
		return "", err
	}

	for _, part := range gjson.GetBytes(resp, "candidates.0.content.parts").Array() {
		inline := part.Get("inlineData")
		if !inline.Exists() {
			continue
		}
		mime := inline.Get("mimeType").String()
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + inline.Get("data").String(), nil
	}
	return "", ErrNoImage
}

func (c *Client) generate(ctx context.Context, model string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: ErrorCodeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrorCodeNetwork, Message: "read response", Cause: err}
	}
	c.logger.Debug("Backend call", "model", model, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, classifyResponse(resp.StatusCode, data)
	}
	if !gjson.ValidBytes(data) {
		return nil, &Error{Code: ErrorCodeMalformed, Status: resp.StatusCode, Message: "response is not JSON"}
	}
	return data, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

func buildSpeechRequest(text, voice string) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "contents", []content{{Parts: []part{{Text: text}}}})
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	body, err = sjson.SetBytes(body, "generationConfig.responseModalities", []string{"AUDIO"})
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	body, err = sjson.SetBytes(body, "generationConfig.speechConfig.voiceConfig.prebuiltVoiceConfig.voiceName", voice)
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	return body, nil
}

func buildImageRequest(prompt, aspectRatio string) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "contents", []content{{Parts: []part{{Text: prompt}}}})
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	if aspectRatio != "" {
		body, err = sjson.SetBytes(body, "generationConfig.imageConfig.aspectRatio", aspectRatio)
		if err != nil {
			return nil, fmt.Errorf("build image request: %w", err)
		}
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
