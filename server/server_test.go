package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahidain/mcp-server/llm"
	"github.com/shahidain/mcp-server/profile"
	"github.com/shahidain/mcp-server/server/mcptools"
	"github.com/shahidain/mcp-server/store"
)

func newTestServer(t *testing.T, c *scriptedCompleter) (*Server, *Registry) {
	t.Helper()
	if c == nil {
		c = &scriptedCompleter{}
	}
	reg := NewRegistry()
	p := profile.Profile{Version: "1.2.3", Mode: "dev"}
	d := newTestDispatcher(t, c, &fakeDriver{}, profile.Profile{})
	m := mcptools.NewServer(p, mcptools.Deps{Store: store.New(&fakeDriver{})})
	return New(p, d, m, reg), reg
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UP", body["status"])
	assert.Equal(t, serviceName, body["service"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "dev", body["environment"])
	assert.Contains(t, body, "memory")
}

func TestConnectionInfoEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sse", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/sse/stream", body["streamEndpoint"])
	assert.NotEmpty(t, body["sessionId"])
}

func TestHandleMessageWithoutSessionFails(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"jsonrpc": "2.0", "method": "ping"}`))
	s.http.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// waitEvent pulls the next SSE data payload off the stream, failing the
// test if nothing arrives in time.
func waitEvent(t *testing.T, events <-chan string) string {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return ""
	}
}

func postFrame(t *testing.T, url, frame string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(frame))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestProtocolFramesAreAnsweredOnStream(t *testing.T) {
	s, _ := newTestServer(t, nil)
	ts := httptest.NewServer(s.http.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/sse/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", strings.Split(resp.Header.Get("Content-Type"), ";")[0])

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if payload, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				events <- payload
			}
		}
	}()

	endpoint := waitEvent(t, events)
	require.Contains(t, endpoint, "/messages?sessionId=")
	messagesURL := ts.URL + endpoint

	postFrame(t, messagesURL, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"cli-test","version":"0.1.0"}}}`)
	reply := waitEvent(t, events)
	assert.Contains(t, reply, `"serverInfo"`)

	postFrame(t, messagesURL, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	postFrame(t, messagesURL, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	reply = waitEvent(t, events)
	assert.Contains(t, reply, `"result"`)
	assert.Contains(t, reply, "get-vendors")
}

func TestHandleMessageDispatchesChatMessages(t *testing.T) {
	c := &scriptedCompleter{responses: []string{routeJSON(t, llm.ToolDecision{
		Tool:         "",
		ResponseText: "Hi! I can look up vendors and Jira issues.",
	})}}
	s, _ := newTestServer(t, c)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"message": "hello"}`))
	s.http.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Hi! I can look up vendors and Jira issues.", rec.Body.String())
	require.Len(t, c.users, 1)
	assert.Equal(t, "hello", c.users[0])
}
