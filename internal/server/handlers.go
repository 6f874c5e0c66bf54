package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/pipeline"
	"github.com/matzehuels/exhibitnet/pkg/render"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.data.Years())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.runner.Rebuild(r.Context(), s.data, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := render.JSON(l)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Run-ID", l.RunID)
	_, _ = w.Write(data)
}

func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	l, err := s.runner.Rebuild(r.Context(), s.data, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if hit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Run-ID", l.RunID)
	w.Header().Set("X-Cache", cacheStatus)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// requestOptions overlays query parameters on the base options.
func (s *Server) requestOptions(q url.Values) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = append([]string(nil), s.base.Formats...)

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidYear, "invalid year: %q", v)
		}
		opts.Year = year
	}
	if v := q.Get("mode"); v != "" {
		mode, err := network.ParseMode(v)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidMode, err, "invalid mode: %q", v)
		}
		opts.Network.Mode = mode
	}
	if v := q.Get("cross_links"); v != "" {
		opts.Network.CrossLinks = network.CrossLinkPolicy(v)
	}

	var err error
	if opts.Network.FuzzyOnly, err = boolParam(q, "fuzzy_only", opts.Network.FuzzyOnly); err != nil {
		return opts, err
	}
	if opts.Labels, err = boolParam(q, "labels", opts.Labels); err != nil {
		return opts, err
	}
	if opts.AllEdges, err = boolParam(q, "all_edges", opts.AllEdges); err != nil {
		return opts, err
	}

	t := opts.Transform
	if t.K, err = floatParam(q, "k", t.K); err != nil {
		return opts, err
	}
	if t.X, err = floatParam(q, "x", t.X); err != nil {
		return opts, err
	}
	if t.Y, err = floatParam(q, "y", t.Y); err != nil {
		return opts, err
	}
	if t.K <= 0 {
		return opts, errs.New(errs.ErrCodeInvalidInput, "zoom scale k must be positive")
	}
	opts.Transform = t

	if err := opts.ValidateForLayout(); err != nil {
		return opts, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", name, v)
	}
	return b, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", name, v)
	}
	return f, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errs.GetCode(err)
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code == errs.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// respondError writes a coded error. Internal failures are logged in full
// and reported with a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errs.GetCode(err))
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
		code = string(errs.ErrCodeInternal)
		msg = "internal error"
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}
