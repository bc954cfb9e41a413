package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteRetriesTransientExactlyThreeTimes(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-key", "test-model")
	_, err := c.Complete(context.Background(), "system", []string{"hello"}, Options{})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.EqualValues(t, maxRetries, attempts.Load())
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-key", "test-model")
	_, err := c.Complete(context.Background(), "system", []string{"hello"}, Options{})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.EqualValues(t, 1, attempts.Load())
}

func TestCompleteReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"response_format"`)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"tool\":\"get-roles\"}"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-key", "test-model")
	got, err := c.Complete(context.Background(), "system", []string{"hello"}, Options{JSONMode: true})
	require.NoError(t, err)
	assert.Equal(t, `{"tool":"get-roles"}`, got)
}

func TestCompleteRequiresConfiguration(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "", "test-model")
	_, err := c.Complete(context.Background(), "system", []string{"hello"}, Options{})

	var conf *ConfigurationError
	require.ErrorAs(t, err, &conf)
	assert.Zero(t, attempts.Load(), "no request is issued without credentials")
}

func TestCompleteStreamParsesServerSentEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-key", "test-model")
	stream, err := c.CompleteStream(context.Background(), "system", []string{"hi"}, Options{})
	require.NoError(t, err)
	defer stream.Close()

	var got string
	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got += delta
	}
	assert.Equal(t, "Hello world", got)
}

func TestOllamaStreamParsesNDJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"Hel"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"lo"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "test-model")
	stream, err := c.CompleteStream(context.Background(), "system", []string{"hi"}, Options{})
	require.NoError(t, err)
	defer stream.Close()

	var got string
	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got += delta
	}
	assert.Equal(t, "Hello", got)
}

func TestOllamaCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL+"/api/chat", "test-model")
	assert.NoError(t, c.CheckHealth(context.Background()))

	down := NewOllamaClient("http://127.0.0.1:1/api/chat", "test-model")
	assert.Error(t, down.CheckHealth(context.Background()))
}
