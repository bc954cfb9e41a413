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

// OpenAIClient talks to a remote OpenAI-compatible chat completions endpoint
// (OpenRouter, OpenAI, or any hosted equivalent).
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    newHTTPClient(),
	}
}

func (c *OpenAIClient) validate() error {
	if c.apiKey == "" {
		return &ConfigurationError{Reason: "LLM_API_KEY is not set"}
	}
	if c.model == "" {
		return &ConfigurationError{Reason: "LLM_MODEL is not set"}
	}
	return nil
}

func (c *OpenAIClient) buildBody(system string, user []string, opts Options, stream bool) ([]byte, error) {
	messages := []map[string]any{{"role": "system", "content": system}}
	for _, u := range user {
		messages = append(messages, map[string]any{"role": "user", "content": u})
	}
	body := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"stream":      stream,
	}
	if opts.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	return json.Marshal(body)
}

func (c *OpenAIClient) do(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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

func (c *OpenAIClient) Complete(ctx context.Context, system string, user []string, opts Options) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	payload, err := c.buildBody(system, user, opts, false)
	if err != nil {
		return "", err
	}
	return retry(ctx, "openai.complete", func() (string, error) {
		resp, err := c.do(ctx, payload)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		var apiResp struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
			return "", &TransientUpstreamError{Cause: errors.Wrap(err, "decode completion response")}
		}
		if len(apiResp.Choices) == 0 {
			return "", &UpstreamError{Cause: errors.New("empty response from completion API")}
		}
		return apiResp.Choices[0].Message.Content, nil
	})
}

func (c *OpenAIClient) CompleteStream(ctx context.Context, system string, user []string, opts Options) (*Stream, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	payload, err := c.buildBody(system, user, opts, true)
	if err != nil {
		return nil, err
	}
	resp, err := retry(ctx, "openai.stream", func() (*http.Response, error) {
		return c.do(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{
		recv: func() (string, error) {
			for scanner.Scan() {
				line := scanner.Text()
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				data := strings.TrimPrefix(line, "data: ")
				if data == "[DONE]" {
					return "", io.EOF
				}
				var chunk struct {
					Choices []struct {
						Delta struct {
							Content string `json:"content"`
						} `json:"delta"`
					} `json:"choices"`
				}
				if err := json.Unmarshal([]byte(data), &chunk); err != nil {
					continue
				}
				if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
					return chunk.Choices[0].Delta.Content, nil
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
