package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamCompleter yields a fixed delta sequence and records the prompts.
type streamCompleter struct {
	response string
	deltas   []string
	err      error

	system string
	user   []string
	calls  int
}

func (c *streamCompleter) Complete(_ context.Context, system string, user []string, _ Options) (string, error) {
	c.system, c.user = system, user
	c.calls++
	return c.response, c.err
}

func (c *streamCompleter) CompleteStream(_ context.Context, system string, user []string, _ Options) (*Stream, error) {
	c.system, c.user = system, user
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	i := 0
	return NewStream(func() (string, error) {
		if i >= len(c.deltas) {
			return "", io.EOF
		}
		d := c.deltas[i]
		i++
		return d, nil
	}, nil), nil
}

func TestRenderStreamsMarkdown(t *testing.T) {
	c := &streamCompleter{deltas: []string{"| id |", " name |"}}
	rec := httptest.NewRecorder()

	NewRenderer(c).Render(context.Background(), rec, RenderRequest{
		Payload:      json.RawMessage(`[{"id":1}]`),
		UserPrompt:   "list vendors",
		SystemPrompt: SystemPromptForArray,
		Format:       MarkdownTable,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "| id | name |", rec.Body.String())
	assert.Equal(t, SystemPromptForArray, c.system)
	require.Len(t, c.user, 1)
	assert.Contains(t, c.user[0], `[{"id":1}]`)
	assert.Contains(t, c.user[0], "list vendors")
}

func TestRenderWritesPrefixBeforeTokens(t *testing.T) {
	c := &streamCompleter{deltas: []string{"| key |"}}
	rec := httptest.NewRecorder()

	NewRenderer(c).Render(context.Background(), rec, RenderRequest{
		Payload:      json.RawMessage(`[]`),
		SystemPrompt: SystemPromptForArray,
		Format:       MarkdownTable,
		Prefix:       "Generated JQL: project = SCRUM\n\n",
	})

	assert.True(t, strings.HasPrefix(rec.Body.String(), "Generated JQL: project = SCRUM\n\n"))
}

func TestRenderChartIsOneShot(t *testing.T) {
	c := &streamCompleter{response: `{"chart_type":"pie","chart_data":[]}`}
	rec := httptest.NewRecorder()

	NewRenderer(c).Render(context.Background(), rec, RenderRequest{
		Payload:      json.RawMessage(`[{"type":"Bug","count":3}]`),
		UserPrompt:   "bug distribution as pie chart",
		SystemPrompt: SystemPromptForArray, // ignored: the chart path picks its own prompt
		Format:       PieChart,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"chart_type":"pie","chart_data":[]}`, rec.Body.String())
	assert.Equal(t, SystemPromptForChart, c.system)
	assert.Equal(t, 1, c.calls)
}

func TestRenderErrorBeforeHeadersIsStructured(t *testing.T) {
	c := &streamCompleter{err: &UpstreamError{Cause: errors.New("boom")}}
	rec := httptest.NewRecorder()

	NewRenderer(c).Render(context.Background(), rec, RenderRequest{
		Payload: json.RawMessage(`[]`),
		Format:  MarkdownTable,
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["type"])
}

// limitedWriter simulates a client that goes away after a fixed number of
// successful body writes.
type limitedWriter struct {
	*httptest.ResponseRecorder
	allowed int
	writes  int
	refused int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.writes >= w.allowed {
		w.refused++
		return 0, errors.New("connection reset")
	}
	w.writes++
	return w.ResponseRecorder.Write(p)
}

// WriteString shadows the promoted ResponseRecorder.WriteString so that
// io.WriteString goes through the limited Write above.
func (w *limitedWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func TestRenderStopsOnClientDisconnect(t *testing.T) {
	c := &streamCompleter{deltas: []string{"one ", "two ", "three ", "four "}}
	w := &limitedWriter{ResponseRecorder: httptest.NewRecorder(), allowed: 2}

	NewRenderer(c).Render(context.Background(), w, RenderRequest{
		Payload: json.RawMessage(`[]`),
		Format:  MarkdownTable,
	})

	assert.Equal(t, "one two ", w.Body.String())
	assert.Equal(t, 1, w.refused, "streaming stops after the first failed write")
}

func TestStreamTextPacesWordChunks(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRenderer(&streamCompleter{}).StreamText(context.Background(), rec,
		"one two three four five six seven")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "one two three four five six seven", rec.Body.String())
}

func TestStreamTextDoesNotDelayAfterFinalChunk(t *testing.T) {
	rec := httptest.NewRecorder()
	start := time.Now()
	// Six words make two chunks, so exactly one inter-chunk delay.
	NewRenderer(&streamCompleter{}).StreamText(context.Background(), rec,
		"one two three four five six")
	elapsed := time.Since(start)

	assert.Equal(t, "one two three four five six", rec.Body.String())
	assert.GreaterOrEqual(t, elapsed, textChunkDelay)
	assert.Less(t, elapsed, 2*textChunkDelay)
}

func TestRenderFailureExplainsInvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRenderer(&streamCompleter{}).RenderFailure(context.Background(), rec,
		&InvalidInputError{Reason: "a positive id is required"})

	assert.Contains(t, rec.Body.String(), "a positive id is required")
	assert.Contains(t, rec.Body.String(), "Sorry, I could not complete that request")
}

func TestRenderFailureHidesUpstreamDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRenderer(&streamCompleter{}).RenderFailure(context.Background(), rec,
		&UpstreamError{Cause: errors.New("secret internal detail")})

	assert.NotContains(t, rec.Body.String(), "secret internal detail")
	assert.Contains(t, rec.Body.String(), "did not respond successfully")
}
