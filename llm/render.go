package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// textChunkDelay paces canned-text streaming so the client renders it
// progressively instead of in one burst.
const (
	textChunkWords = 3
	textChunkDelay = 100 * time.Millisecond
)

// RenderRequest describes one payload-to-presentation conversion.
type RenderRequest struct {
	Payload      json.RawMessage
	UserPrompt   string
	SystemPrompt string
	Format       DataFormat
	Prefix       string // written before the first model token
}

// Renderer converts a JSON payload into the requested presentation, writing
// incrementally to the live response where the format allows it.
type Renderer struct {
	completer Completer
}

func NewRenderer(c Completer) *Renderer {
	return &Renderer{completer: c}
}

func setStreamingHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Transfer-Encoding", "chunked")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flush(w)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Render converts req.Payload into req.Format. The chart path is one-shot;
// the markdown paths stream token deltas. The format gate is the renderer's
// own enum check; a chart format claimed by the caller but not recognized
// here falls through to the streaming path.
func (r *Renderer) Render(ctx context.Context, w http.ResponseWriter, req RenderRequest) {
	if req.Format.IsChart() {
		r.renderChart(ctx, w, req)
		return
	}
	r.renderStreaming(ctx, w, req)
}

func (r *Renderer) renderChart(ctx context.Context, w http.ResponseWriter, req RenderRequest) {
	user := fmt.Sprintf("%s\n\n%s", req.Payload, req.UserPrompt)
	content, err := r.completer.Complete(ctx, SystemPromptForChart, []string{user}, Options{Temperature: 0})
	if err != nil {
		writeErrorBody(w, err)
		return
	}
	// The chart body goes out as a single object, verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

func (r *Renderer) renderStreaming(ctx context.Context, w http.ResponseWriter, req RenderRequest) {
	user := fmt.Sprintf("%s\n\n%s", req.Payload, req.UserPrompt)
	stream, err := r.completer.CompleteStream(ctx, req.SystemPrompt, []string{user}, Options{Temperature: 0})
	if err != nil {
		writeErrorBody(w, err)
		return
	}
	defer stream.Close()

	setStreamingHeaders(w)
	if req.Prefix != "" {
		if _, err := io.WriteString(w, req.Prefix); err != nil {
			return
		}
		flush(w)
	}
	for {
		if ctx.Err() != nil {
			slog.Info("client closed connection during streaming")
			return
		}
		delta, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			// Mid-stream failure just terminates the sequence; headers are
			// already gone.
			slog.Warn("completion stream ended early", "err", err)
			return
		}
		if _, err := io.WriteString(w, delta); err != nil {
			slog.Info("client closed connection during streaming")
			return
		}
		flush(w)
	}
}

// StreamText writes canned text to the response in small paced chunks,
// stopping cleanly if the client goes away.
func (r *Renderer) StreamText(ctx context.Context, w http.ResponseWriter, text string) {
	setStreamingHeaders(w)
	words := strings.Fields(text)
	for i := 0; i < len(words); i += textChunkWords {
		if ctx.Err() != nil {
			slog.Info("client closed connection during streaming")
			return
		}
		end := i + textChunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		flush(w)
		if end == len(words) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(textChunkDelay):
		}
	}
}

// RenderFailure turns an error reaching the end of the pipeline into a
// user-visible streamed explanation. It never propagates the error.
func (r *Renderer) RenderFailure(ctx context.Context, w http.ResponseWriter, err error) {
	slog.Error("request failed, explaining to user", "err", err)
	r.StreamText(ctx, w, fmt.Sprintf("Sorry, I could not complete that request: %s. Please try again.", userFacingReason(err)))
}

func userFacingReason(err error) string {
	switch e := err.(type) {
	case *InvalidInputError:
		return e.Reason
	case *ConfigurationError:
		return e.Reason
	default:
		return "the upstream service did not respond successfully"
	}
}

// writeErrorBody reports a structured error; only used before any bytes of
// a streamed body have been written.
func writeErrorBody(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"type":    "error",
		"message": "Error generating response - " + err.Error(),
	})
}
