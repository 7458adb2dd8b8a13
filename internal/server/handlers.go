package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rowgraph/pkg/buildinfo"
	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/layout"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/pipeline"
)

// graphRequest is the body of /v1/materialize and /v1/layout.
type graphRequest struct {
	Mapping   *mapping.Config   `json:"mapping"`
	Data      dataset.Datasets  `json:"data"`
	Selection *filter.Selection `json:"selection,omitempty"`
	Layout    *layout.Options   `json:"layout,omitempty"`
	Refresh   bool              `json:"refresh,omitempty"`
}

// newGraphRequest seeds the layout with base so that decoding a partial
// "layout" object only overrides the fields it names.
func newGraphRequest(base layout.Options) graphRequest {
	return graphRequest{Layout: &base}
}

func (req graphRequest) options(base layout.Options) pipeline.Options {
	opts := pipeline.Options{
		Mapping:   req.Mapping,
		Data:      req.Data,
		Selection: req.Selection,
		Refresh:   req.Refresh,
		Layout:    base,
	}
	if req.Layout != nil {
		opts.Layout = *req.Layout
	}
	return opts
}

type statsResponse struct {
	Rows        int `json:"rows"`
	DroppedRows int `json:"droppedRows"`
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`
	Overlays    int `json:"overlays"`
}

type graphResponse struct {
	Graph  *graph.Graph  `json:"graph"`
	Stats  statsResponse `json:"stats"`
	Cached bool          `json:"cached,omitempty"`
}

type renderRequest struct {
	Graph    *graph.Graph `json:"graph"`
	Format   string       `json:"format"`
	Detailed bool         `json:"detailed,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatDOT:   "text/vnd.graphviz",
	pipeline.FormatPDF:   "application/pdf",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatTable: "text/plain; charset=utf-8",
	pipeline.FormatTree:  "text/plain; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	req := newGraphRequest(s.base)
	if !s.decode(w, r, &req) {
		return
	}

	res, stats, err := s.runner.MaterializeWithStats(r.Context(), req.options(s.base))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graphResponse{Graph: res.Graph(), Stats: toStats(stats)})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := newGraphRequest(s.base)
	if !s.decode(w, r, &req) {
		return
	}
	opts := req.options(s.base)

	var resp graphResponse
	run := func(ctx context.Context) error {
		res, stats, err := s.runner.MaterializeWithStats(ctx, opts)
		if err != nil {
			return err
		}
		g, hit, err := s.runner.LayoutWithCacheInfo(ctx, res, opts)
		if err != nil {
			return err
		}
		resp = graphResponse{Graph: g, Stats: toStats(stats), Cached: hit}
		return nil
	}

	var err error
	if client := r.Header.Get(ClientIDHeader); client != "" {
		if err := errors.ValidateClientID(client); err != nil {
			s.writeError(w, r, err)
			return
		}
		err = s.slots.Do(r.Context(), client, run)
	} else {
		err = run(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelLayout(w http.ResponseWriter, r *http.Request) {
	client := r.Header.Get(ClientIDHeader)
	if err := errors.ValidateClientID(client); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.slots.Cancel(client)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Graph == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "graph is required"))
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	artifacts, err := s.runner.Render(r.Context(), req.Graph, pipeline.Options{
		Formats:  []string{req.Format},
		Detailed: req.Detailed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[req.Format])
}

// =============================================================================
// Encoding
// =============================================================================

// decode reads a JSON body bounded by the configured size. It writes the
// error response itself and reports whether decoding succeeded.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(r, "BODY_TOO_LARGE", "request body too large"))
			return false
		}
		if errors.GetCode(err) != "" {
			s.writeError(w, r, err)
			return false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func toStats(st pipeline.Stats) statsResponse {
	return statsResponse{
		Rows:        st.RowCount,
		DroppedRows: st.DroppedRows,
		Nodes:       st.NodeCount,
		Edges:       st.EdgeCount,
		Overlays:    st.OverlayCount,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func errorBody(r *http.Request, code, msg string) errorResponse {
	return errorResponse{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	}
	s.writeJSON(w, status, errorBody(r, string(code), errors.UserMessage(err)))
}

// statusFor maps an error code to its HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMapping, errors.ErrCodeInvalidDataset,
		errors.ErrCodeInvalidSelection, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStale:
		return http.StatusConflict
	case errors.ErrCodeLayoutFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
