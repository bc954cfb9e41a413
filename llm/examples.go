package llm

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	maxExamples = 50
	// duplicateThreshold rejects additions whose prompt is a near-duplicate
	// of an existing entry.
	duplicateThreshold = 0.95
	examplesFileName   = "jql-examples.json"
)

// Example is one stored (prompt, generated JQL) pair used to few-shot the
// natural-language-to-JQL translation.
type Example struct {
	Prompt    string `json:"prompt"`
	JQL       string `json:"jql"`
	Timestamp int64  `json:"timestamp"`
}

// ExampleStore is an append-only, capped, deduplicated log of translation
// examples, persisted to a JSON file so it survives restarts. Storage
// failures degrade to in-memory operation rather than crashing.
type ExampleStore struct {
	mu       sync.Mutex
	examples []Example
	filePath string
	now      func() time.Time
}

// NewExampleStore loads (or seeds) the store under dataDir.
func NewExampleStore(dataDir string) *ExampleStore {
	s := &ExampleStore{
		filePath: filepath.Join(dataDir, examplesFileName),
		now:      time.Now,
	}
	s.load()
	s.dedupe()
	return s
}

func defaultExamples(now time.Time) []Example {
	ts := now.UnixMilli()
	return []Example{
		{Prompt: "Show me open bugs", JQL: `project = SCRUM AND issuetype = Bug AND status != "Done" ORDER BY priority DESC`, Timestamp: ts},
		{Prompt: "Tasks assigned to me", JQL: `project = SCRUM AND issuetype = Task AND assignee = currentUser() ORDER BY priority DESC`, Timestamp: ts},
		{Prompt: "Issues created this week", JQL: `project = SCRUM AND created >= startOfWeek() ORDER BY created DESC`, Timestamp: ts},
	}
}

func (s *ExampleStore) load() {
	data, err := os.ReadFile(s.filePath)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		var examples []Example
		if err := json.Unmarshal(data, &examples); err == nil {
			s.examples = examples
			slog.Info("loaded JQL examples", "count", len(examples), "path", s.filePath)
			return
		}
		slog.Error("corrupt JQL example file, reseeding", "path", s.filePath)
	} else if err != nil && !os.IsNotExist(err) {
		slog.Error("failed to read JQL example file", "path", s.filePath, "err", err)
	}
	s.examples = defaultExamples(s.now())
	s.persist()
}

// persist writes the in-memory state synchronously; after any successful
// add the file always reflects memory. Callers hold the lock.
func (s *ExampleStore) persist() {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0750); err != nil {
		slog.Error("failed to create data directory", "err", err)
		return
	}
	data, err := json.MarshalIndent(s.examples, "", "  ")
	if err != nil {
		slog.Error("failed to marshal JQL examples", "err", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0640); err != nil {
		slog.Error("failed to save JQL examples", "err", err)
	}
}

func (s *ExampleStore) isDuplicate(existing []Example, prompt, jql string) bool {
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e.JQL), strings.TrimSpace(jql)) {
			return true
		}
		if similarity(e.Prompt, prompt) > duplicateThreshold {
			return true
		}
	}
	return false
}

// dedupe removes near-duplicates from loaded data, keeping the first
// occurrence, and rewrites storage if anything was dropped.
func (s *ExampleStore) dedupe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var unique []Example
	for _, e := range s.examples {
		if !s.isDuplicate(unique, e.Prompt, e.JQL) {
			unique = append(unique, e)
		}
	}
	if len(unique) != len(s.examples) {
		slog.Info("removed duplicate JQL examples", "removed", len(s.examples)-len(unique))
		s.examples = unique
		s.persist()
	}
}

// Add prepends a new example unless it duplicates an existing one (exact
// case-insensitive JQL match, or prompt similarity above the duplicate
// threshold), then truncates to capacity and persists.
func (s *ExampleStore) Add(prompt, jql string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDuplicate(s.examples, prompt, jql) {
		slog.Info("skipping duplicate JQL example", "prompt", prompt)
		return
	}
	s.examples = append([]Example{{Prompt: prompt, JQL: jql, Timestamp: s.now().UnixMilli()}}, s.examples...)
	if len(s.examples) > maxExamples {
		s.examples = s.examples[:maxExamples]
	}
	s.persist()
	slog.Info("added JQL example", "prompt", prompt)
}

// Similar returns up to limit examples with similarity above zero, sorted
// by descending similarity, ties broken by recency.
func (s *ExampleStore) Similar(prompt string, limit int) []Example {
	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		Example
		score float64
	}
	var matches []scored
	for _, e := range s.examples {
		if score := similarity(prompt, e.Prompt); score > 0 {
			matches = append(matches, scored{Example: e, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].Timestamp > matches[j].Timestamp
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Example, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Example)
	}
	return out
}

// Len reports the number of stored examples.
func (s *ExampleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.examples)
}
