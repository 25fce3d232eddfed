package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minikastronot/minik/internal/audio"
	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/progress"
	"github.com/minikastronot/minik/internal/session"
	"github.com/minikastronot/minik/internal/speech"
)

type characterJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Greeting    string `json:"greeting"`
	Voice       string `json:"voice"`
	Image       string `json:"image"`
}

type planetJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Stars       int    `json:"stars"`
}

type stateJSON struct {
	Screen        string         `json:"screen"`
	Character     *characterJSON `json:"character,omitempty"`
	Planets       []planetJSON   `json:"planets"`
	CurrentPlanet string         `json:"currentPlanet,omitempty"`
	TotalStars    int            `json:"totalStars"`
}

func toCharacterJSON(c progress.Character) characterJSON {
	return characterJSON{
		ID:          string(c.ID),
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
		Greeting:    c.Greeting,
		Voice:       c.VoiceName,
		Image:       c.ImageURL,
	}
}

func toStateJSON(snap progress.Snapshot) stateJSON {
	out := stateJSON{
		Screen:     snap.Screen().String(),
		Planets:    make([]planetJSON, len(snap.Planets)),
		TotalStars: snap.TotalStars,
	}
	if snap.Character != nil {
		c := toCharacterJSON(*snap.Character)
		out.Character = &c
	}
	if snap.CurrentPlanet != nil {
		out.CurrentPlanet = string(*snap.CurrentPlanet)
	}
	for i, p := range snap.Planets {
		out.Planets[i] = planetJSON{
			ID:          string(p.ID),
			Name:        p.Name,
			Color:       p.Color,
			Description: p.Description,
			Unlocked:    p.Unlocked,
			Stars:       p.Stars,
		}
	}
	return out
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, toStateJSON(sess.Store().Snapshot()))
}

func (s *Server) characters(w http.ResponseWriter, r *http.Request) {
	all := progress.Characters()
	out := make([]characterJSON, len(all))
	for i, c := range all {
		out[i] = toCharacterJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"characters": out})
}

func (s *Server) selectCharacter(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if _, err := sess.SelectCharacter(progress.CharacterID(urlParam(r, "id"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateJSON(sess.Store().Snapshot()))
}

func (s *Server) openPlanet(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id, ok := progress.ParsePlanetID(urlParam(r, "id"))
	if !ok {
		writeError(w, progress.ErrUnknownPlanet)
		return
	}
	if err := sess.OpenPlanet(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateJSON(sess.Store().Snapshot()))
}

type starsRequest struct {
	Stars int `json:"stars"`
}

// addStars records a win reported by an external game client.
func (s *Server) addStars(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id, ok := progress.ParsePlanetID(urlParam(r, "id"))
	if !ok {
		writeError(w, progress.ErrUnknownPlanet)
		return
	}
	var req starsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Stars < 1 || req.Stars > progress.MaxStars {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stars must be between 1 and 3"})
		return
	}

	store := sess.Store()
	if _, ok := store.Character(); !ok {
		writeError(w, progress.ErrNoCharacter)
		return
	}
	if p, _ := store.Planet(id); !p.Unlocked {
		writeError(w, progress.ErrPlanetLocked)
		return
	}
	if err := store.AddStars(id, req.Stars); err != nil {
		writeError(w, err)
		return
	}
	store.UnlockNextPlanet(id)
	writeJSON(w, http.StatusOK, toStateJSON(store.Snapshot()))
}

func (s *Server) backToMap(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Stop()
	sess.Store().ClearCurrentPlanet()
	writeJSON(w, http.StatusOK, toStateJSON(sess.Store().Snapshot()))
}

// narration renders a line as WAV, resolving it through the session's
// narration cache.
func (s *Server) narration(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	clip, err := sess.Narrator().Clip(r.Context(), text, r.URL.Query().Get("voice"))
	if err != nil {
		s.logger.Warn("Narration unavailable", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "narration unavailable"})
		return
	}

	var buf bytes.Buffer
	if err := audio.EncodeWAV(&buf, clip); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) earthImage(w http.ResponseWriter, r *http.Request) {
	stage, err := strconv.Atoi(r.URL.Query().Get("stage"))
	if err != nil || stage < 0 {
		stage = 0
	}

	uri, generated := speech.FallbackImage(stage), false
	if s.images != nil {
		uri, generated = s.images.PuzzleImage(r.Context(), stage)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stage":     stage,
		"url":       uri,
		"generated": generated,
	})
}

// pieceViewBox fits a piece path including its tabs.
const pieceViewBox = "-25 -25 150 150"

type pieceJSON struct {
	Index  int    `json:"index"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
	Left   int    `json:"left"`
	Path   string `json:"path"`
}

// earthPieces cuts a jigsaw board for browser clients. The same seed
// always yields the same board.
func (s *Server) earthPieces(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseUint(r.URL.Query().Get("seed"), 10, 64)
	if err != nil {
		seed = rand.Uint64()
	}

	shapes := minigame.GenerateShapes(minigame.EarthSize, rand.New(rand.NewPCG(seed, 0)))
	pieces := make([]pieceJSON, len(shapes))
	for i, sh := range shapes {
		pieces[i] = pieceJSON{
			Index:  i,
			Top:    int(sh.Top),
			Right:  int(sh.Right),
			Bottom: int(sh.Bottom),
			Left:   int(sh.Left),
			Path:   minigame.PiecePath(sh),
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seed":    strconv.FormatUint(seed, 10),
		"size":    minigame.EarthSize,
		"viewBox": pieceViewBox,
		"pieces":  pieces,
	})
}

// urlParam returns the decoded path parameter; chi matches on the raw path
// when it carries escapes, as Turkish planet names do.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, progress.ErrUnknownCharacter), errors.Is(err, progress.ErrUnknownPlanet):
		status = http.StatusNotFound
	case errors.Is(err, progress.ErrCharacterAlreadySelected), errors.Is(err, progress.ErrPlanetLocked),
		errors.Is(err, progress.ErrNoCharacter):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
