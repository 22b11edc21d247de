package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// maxBodyBytes bounds request bodies accepted by ServeHTTP.
const maxBodyBytes = 1 << 20

// ServeHTTP adapts a plain HTTP request into an Event so the handler can be
// hosted outside Lambda.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ev, err := eventFromRequest(r)
	if err != nil {
		writeResponse(w, failure(slog.Default(), err))
		return
	}
	resp, _ := h.Handle(r.Context(), ev) //nolint:errcheck // Handle reports failures in resp
	writeResponse(w, resp)
}

func eventFromRequest(r *http.Request) (Event, error) {
	ev := Event{
		HTTPMethod: r.Method,
		RequestContext: RequestContext{
			RequestID: r.Header.Get("X-Request-Id"),
			HTTP:      HTTPContext{Method: r.Method, Path: r.URL.Path},
		},
	}

	if q := r.URL.Query(); len(q) > 0 {
		ev.QueryStringParameters = make(map[string]string, len(q))
		for k := range q {
			ev.QueryStringParameters[k] = q.Get(k)
		}
	}

	if r.Body != nil {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return Event{}, fmt.Errorf("reading body: %w", err)
		}
		if len(b) > maxBodyBytes {
			return Event{}, fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
		}
		if len(b) > 0 {
			ev.Body = StringBody(string(b))
		}
	}
	return ev, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

// AccessLog logs one line per request with status, size and duration.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", sw.written,
			"dur", time.Since(start).Round(time.Millisecond).String(),
		)
	})
}
