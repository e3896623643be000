// Package adapters bridges transports to the dispatch core. The HTTP
// adapter normalizes net/http requests into relay Requests, hands them
// to App.Dispatch, and writes the normalized Response back.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	relay "github.com/dmitrymomot/relay"
)

// DefaultMaxUploadSize caps in-memory multipart parsing (32 MiB).
const DefaultMaxUploadSize = 32 << 20

// HTTPOption configures the HTTP adapter.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	maxUploadSize int64
}

// WithMaxUploadSize caps the total multipart form size read into memory.
func WithMaxUploadSize(n int64) HTTPOption {
	return func(c *httpConfig) {
		c.maxUploadSize = n
	}
}

// NewHandler wraps the app's dispatch into an http.Handler. The chi
// router underneath provides the outer plumbing (real IP resolution,
// compression); route matching itself stays inside the dispatch core.
func NewHandler(app *relay.App, opts ...HTTPOption) http.Handler {
	cfg := &httpConfig{maxUploadSize: DefaultMaxUploadSize}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Compress(5))
	r.Handle("/*", dispatchHandler(app, cfg))
	return r
}

func dispatchHandler(app *relay.App, cfg *httpConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := normalizeRequest(r, cfg.maxUploadSize)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "malformed request body",
			})
			return
		}

		resp := app.Dispatch(r.Context(), req)
		writeResponse(w, resp)
	})
}

// normalizeRequest converts an http.Request into the transport-agnostic
// Request the dispatcher consumes. The body is fully parsed here; the
// core never touches the network.
func normalizeRequest(r *http.Request, maxUploadSize int64) (*relay.Request, error) {
	req := &relay.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		Headers: flattenHeaders(r.Header),
	}

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}

	switch {
	case r.Body == nil || r.ContentLength == 0:
		// No body to parse.

	case mediaType == "application/json":
		body := make(map[string]any)
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		req.Body = body

	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Body = make(map[string]any, len(r.PostForm))
		for key := range r.PostForm {
			req.Body[key] = r.PostForm.Get(key)
		}

	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, err
		}
		req.Body = make(map[string]any, len(r.MultipartForm.Value))
		for key, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				req.Body[key] = vals[0]
			}
		}
		req.Files = make(map[string]*relay.UploadedFile, len(r.MultipartForm.File))
		for key, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			f, err := readUpload(headers[0])
			if err != nil {
				return nil, err
			}
			req.Files[key] = f
		}
	}

	return req, nil
}

func readUpload(fh *multipart.FileHeader) (*relay.UploadedFile, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &relay.UploadedFile{
		Filename: fh.Filename,
		Size:     int64(len(content)),
		Content:  content,
	}, nil
}

// flattenHeaders keeps the first value per canonical header name, which
// is what the dispatch core's exact-match lookup expects.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, vals := range h {
		if len(vals) > 0 {
			out[name] = vals[0]
		}
	}
	return out
}

func writeResponse(w http.ResponseWriter, resp *relay.Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}

	if resp.Body == nil {
		w.WriteHeader(resp.StatusCode)
		return
	}
	writeJSON(w, resp.StatusCode, resp.Body)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Serve runs an HTTP server for the handler until ctx is canceled, then
// shuts down gracefully within the given timeout.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
