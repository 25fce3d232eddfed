// Package server exposes a session over HTTP so a browser or a script can
// drive the game and fetch narration audio.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/minikastronot/minik/internal/minigame"
	"github.com/minikastronot/minik/internal/session"
)

// SessionHeader carries the session id on every response.
const SessionHeader = "X-Minik-Session"

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves one session.
type Server struct {
	sess   *session.Session
	images minigame.ImageSource
	logger *log.Logger
	mux    *chi.Mux
}

// New builds the router. images may be nil, in which case stock pictures
// are served.
func New(sess *session.Session, images minigame.ImageSource) *Server {
	s := &Server{
		sess:   sess,
		images: images,
		logger: log.WithPrefix("server"),
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	r := s.mux
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(s.attachSession)

	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.state)
		r.Get("/characters", s.characters)
		r.Post("/character/{id}", s.selectCharacter)
		r.Post("/map", s.backToMap)
		r.Get("/narration", s.narration)

		r.Route("/planets", func(r chi.Router) {
			r.Get("/earth/image", s.earthImage)
			r.Get("/earth/pieces", s.earthPieces)
			r.Post("/{id}/open", s.openPlanet)
			r.Post("/{id}/stars", s.addStars)
		})
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr, "session", s.sess.ID())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) attachSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(SessionHeader, s.sess.ID())
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), s.sess)))
	})
}
