package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// fewShotLimit is the number of stored examples fed into a translation call.
const fewShotLimit = 5

// Translator turns a natural-language search request into a JQL string,
// biased by similar historical examples. Translation always goes through a
// single completion call with the top-K similar examples as few-shot
// context; stored translations are never returned directly, since a
// superficially similar prompt can mean something different.
type Translator struct {
	completer Completer
	store     *ExampleStore
}

func NewTranslator(c Completer, store *ExampleStore) *Translator {
	return &Translator{completer: c, store: store}
}

// Translate returns the raw JQL text for the user message. JQL syntax is
// not validated here.
func (t *Translator) Translate(ctx context.Context, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", &InvalidInputError{Reason: "user message is empty"}
	}

	examples := t.store.Similar(userMessage, fewShotLimit)
	var sb strings.Builder
	sb.WriteString(SystemPromptForJQL)
	if len(examples) > 0 {
		sb.WriteString("\nExamples:\n\n")
		for _, e := range examples {
			fmt.Fprintf(&sb, "User: %s\nJQL: %s\n\n", e.Prompt, e.JQL)
		}
	}
	slog.Info("[TRANSLATOR]", "examples", len(examples))

	jql, err := t.completer.Complete(ctx, sb.String(), []string{userMessage}, Options{Temperature: 0})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(jql), nil
}

// Save records a successful (prompt, jql) pair for future few-shot use.
func (t *Translator) Save(prompt, jql string) {
	t.store.Add(prompt, jql)
}
