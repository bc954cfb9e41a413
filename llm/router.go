package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Router classifies a user message into a ToolDecision using the completion
// backend in forced-JSON mode at temperature 0.
type Router struct {
	completer Completer
}

func NewRouter(c Completer) *Router {
	return &Router{completer: c}
}

// Route returns the routing decision for a user message. Model output that
// cannot be parsed never surfaces as an error: the recovery ladder is a
// direct JSON parse, then extraction of a fenced JSON block, then a
// synthesized free-text decision carrying the raw output.
func (r *Router) Route(ctx context.Context, userMessage string) (*ToolDecision, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, &InvalidInputError{Reason: "user message is empty"}
	}

	content, err := r.completer.Complete(ctx, SystemPromptForTool, []string{userMessage}, Options{Temperature: 0, JSONMode: true})
	if err != nil {
		return nil, err
	}

	decision := parseDecision(content)
	slog.Info("[ROUTER]", "tool", decision.Tool, "format", decision.RequestedFormat)
	return decision, nil
}

// parseDecision applies the three-variant recovery ladder in fixed order.
func parseDecision(content string) *ToolDecision {
	if d, err := decodeDecision(content); err == nil {
		return d
	}
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		if d, err := decodeDecision(m[1]); err == nil {
			return d
		}
	}
	slog.Warn("[ROUTER] unparseable tool decision, falling back to free text")
	return &ToolDecision{
		RequestedFormat: MarkdownText,
		ResponseText:    content,
	}
}

func decodeDecision(content string) (*ToolDecision, error) {
	var d ToolDecision
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return nil, &ParseError{Raw: content, Cause: err}
	}
	if d.RequestedFormat == "" {
		d.RequestedFormat = MarkdownTable
	}
	// The pipeline must always yield user-visible content.
	if d.Tool == "" && d.ResponseText == "" {
		d.ResponseText = content
		d.RequestedFormat = MarkdownText
	}
	return &d, nil
}
