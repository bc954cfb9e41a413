package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// OllamaClient talks to a locally hosted Ollama chat endpoint. It satisfies
// the same Completer contract as the remote backend and additionally
// implements HealthChecker.
type OllamaClient struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		http:    newHTTPClient(),
	}
}

func (c *OllamaClient) validate() error {
	if c.baseURL == "" {
		return &ConfigurationError{Reason: "OLLAMA_API_URL is not set"}
	}
	if c.model == "" {
		return &ConfigurationError{Reason: "LOCAL_MODEL is not set"}
	}
	return nil
}

// CheckHealth probes the tags endpoint of the local service.
func (c *OllamaClient) CheckHealth(ctx context.Context) error {
	url := strings.Replace(c.baseURL, "/api/chat", "/api/tags", 1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "local completion service unreachable")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("local completion service returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *OllamaClient) buildBody(system string, user []string, opts Options, stream bool) ([]byte, error) {
	messages := []map[string]string{{"role": "system", "content": system}}
	for _, u := range user {
		messages = append(messages, map[string]string{"role": "user", "content": u})
	}
	format := ""
	if opts.JSONMode {
		format = "json"
	}
	body := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   stream,
		"options":  map[string]any{"temperature": opts.Temperature},
	}
	if format != "" {
		body["format"] = format
	}
	return json.Marshal(body)
}

func (c *OllamaClient) do(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientUpstreamError{Cause: err}
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &TransientUpstreamError{Cause: fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))}
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &UpstreamError{Cause: fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))}
	}
	return resp, nil
}

func (c *OllamaClient) Complete(ctx context.Context, system string, user []string, opts Options) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	payload, err := c.buildBody(system, user, opts, false)
	if err != nil {
		return "", err
	}
	return retry(ctx, "ollama.complete", func() (string, error) {
		resp, err := c.do(ctx, payload)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		var apiResp struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
			return "", &TransientUpstreamError{Cause: errors.Wrap(err, "decode local completion response")}
		}
		return apiResp.Message.Content, nil
	})
}

func (c *OllamaClient) CompleteStream(ctx context.Context, system string, user []string, opts Options) (*Stream, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	payload, err := c.buildBody(system, user, opts, true)
	if err != nil {
		return nil, err
	}
	resp, err := retry(ctx, "ollama.stream", func() (*http.Response, error) {
		return c.do(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	// Ollama streams newline-delimited JSON objects, one per token batch.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	done := false
	return &Stream{
		recv: func() (string, error) {
			if done {
				return "", io.EOF
			}
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				var chunk struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
					Done bool `json:"done"`
				}
				if err := json.Unmarshal([]byte(line), &chunk); err != nil {
					continue
				}
				if chunk.Done {
					done = true
					if chunk.Message.Content != "" {
						return chunk.Message.Content, nil
					}
					return "", io.EOF
				}
				if chunk.Message.Content != "" {
					return chunk.Message.Content, nil
				}
			}
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		},
		close: resp.Body.Close,
	}, nil
}
