package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJPEG: "image/jpeg",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type resolveResponse struct {
	DocHash    string      `json:"doc_hash"`
	Cached     bool        `json:"cached"`
	References *layout.Map `json:"references"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.SetResolveDefaults()

	refs, hash, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), opts.Document, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resolveResponse{DocHash: hash, Cached: hit, References: refs})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "format"))
		return
	}

	opts, err := s.requestOptions(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	if scale := r.URL.Query().Get("scale"); scale != "" {
		v, err := strconv.ParseFloat(scale, 64)
		if err != nil || v <= 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", scale))
			return
		}
		opts.Scale = v
	}
	opts.Background = r.URL.Query().Get("background")
	opts.Rasterizer = r.URL.Query().Get("rasterizer")
	if err := pipeline.ValidateRasterizer(opts.Rasterizer); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "rasterizer"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Doc-Hash", result.DocHash)
	w.Header().Set("X-Cache", strconv.FormatBool(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Warn("write response failed", "err", err)
	}
}

// requestOptions decodes the body document and query overrides.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	format, err := bodyFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return pipeline.Options{}, err
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	doc, err := lio.ReadDocument(body, format)
	if err != nil {
		return pipeline.Options{}, err
	}

	q := r.URL.Query()
	opts := pipeline.Options{Document: doc, Measurer: q.Get("measurer"), Logger: s.logger}
	if v := q.Get("strict"); v != "" {
		opts.Strict, err = strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid strict flag %q", v)
		}
	}
	if v := q.Get("viewport"); v != "" {
		size, err := parseSize(v)
		if err != nil {
			return opts, err
		}
		opts.Viewport = &size
	}
	if opts.Measurer != "" {
		if err := pipeline.ValidateMeasurer(opts.Measurer); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "measurer")
		}
	}
	return opts, nil
}

func bodyFormat(contentType string) (lio.Format, error) {
	if contentType == "" {
		return lio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
	}
	switch mt {
	case "application/json", "text/json":
		return lio.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return lio.FormatYAML, nil
	case "application/toml", "text/toml":
		return lio.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

// parseSize parses "WxH".
func parseSize(s string) (geom.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	w, werr := strconv.ParseFloat(ws, 64)
	h, herr := strconv.ParseFloat(hs, 64)
	if !ok || werr != nil || herr != nil || w <= 0 || h <= 0 {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "invalid viewport %q (want WxH)", s)
	}
	return geom.Size{W: w, H: h}, nil
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch code := errors.GetCodeOr(err, errors.ErrCodeInternal); code {
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	resp := errorResponse{Error: err.Error()}
	if code := errors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", "err", fmt.Sprint(err))
	}
}
