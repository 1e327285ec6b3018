package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"rohatours/internal/domain"
)

// MaxBodyBytes bounds a create request body.
const MaxBodyBytes = 1 << 20

// BookingPaths are the routes the bookings handler answers on. The /api
// forms match what the site's frontend already calls.
var BookingPaths = []string{"/bookings", "/api/bookings"}

// Handlers adapts a Router to net/http.
type Handlers struct{ Router *Router }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	for _, p := range BookingPaths {
		s.mux.Handle(p, h)
	}
}

func (h *Handlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	var resp Response
	if err != nil {
		resp = ErrorResponse(fmt.Errorf("%w: read body: %v", domain.ErrValidation, err))
	} else {
		resp = h.Router.Route(r.Context(), Request{Method: r.Method, Path: r.URL.Path, Body: body})
	}
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp Response) {
	for k, vs := range resp.Header {
		w.Header()[k] = append([]string(nil), vs...)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return
	}
	if _, err := w.Write(resp.Body); err != nil {
		log.Error().Err(err).Msg("write bookings response failed")
	}
}
