package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleStoreSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewExampleStore(dir)

	assert.Equal(t, 3, s.Len())
	_, err := os.Stat(filepath.Join(dir, examplesFileName))
	require.NoError(t, err, "seeding must persist the file")
}

func TestExampleStoreAddAndReload(t *testing.T) {
	dir := t.TempDir()
	s := NewExampleStore(dir)
	s.Add("blocked stories in review", `project = SCRUM AND status = "In Review" AND flagged = Impediment`)
	require.Equal(t, 4, s.Len())

	reloaded := NewExampleStore(dir)
	assert.Equal(t, 4, reloaded.Len())
	got := reloaded.Similar("blocked stories in review", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "blocked stories in review", got[0].Prompt)
}

func TestExampleStoreRejectsDuplicates(t *testing.T) {
	s := NewExampleStore(t.TempDir())
	n := s.Len()

	// exact JQL match, case-insensitive
	s.Add("completely different wording", `PROJECT = scrum AND ISSUETYPE = bug AND STATUS != "done" ORDER BY PRIORITY DESC`)
	assert.Equal(t, n, s.Len())

	// near-duplicate prompt
	s.Add("Show me open bugs!", `project = OTHER`)
	assert.Equal(t, n, s.Len())

	// genuinely new
	s.Add("epics closed last quarter", `project = SCRUM AND issuetype = Epic AND resolved >= startOfQuarter(-1)`)
	assert.Equal(t, n+1, s.Len())
}

func TestExampleStoreCapsAtFifty(t *testing.T) {
	s := NewExampleStore(t.TempDir())
	for i := 0; i < 80; i++ {
		s.Add(
			fmt.Sprintf("unique prompt variation number%04d", i),
			fmt.Sprintf("project = SCRUM AND id = %d", i),
		)
	}
	assert.Equal(t, maxExamples, s.Len())

	// most recent first: the last added prompt survives at the head
	got := s.Similar("unique prompt variation number0079", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "unique prompt variation number0079", got[0].Prompt)
}

func TestExampleStoreAddIsIdempotent(t *testing.T) {
	s := NewExampleStore(t.TempDir())
	for i := 0; i < 5; i++ {
		s.Add("stories waiting on QA", `project = SCRUM AND status = "QA"`)
	}
	assert.Equal(t, 4, s.Len())
}

func TestExampleStoreSurvivesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, examplesFileName), []byte("{not json"), 0640))

	s := NewExampleStore(dir)
	assert.Equal(t, 3, s.Len(), "corrupt file reseeds the defaults")
}

func TestSimilarOrdersByScoreThenRecency(t *testing.T) {
	s := NewExampleStore(t.TempDir())
	s.Add("vendor invoices overdue", `project = FIN AND labels = vendor`)

	got := s.Similar("Show me open bugs", fewShotLimit)
	require.NotEmpty(t, got)
	assert.Equal(t, "Show me open bugs", got[0].Prompt)
	for _, e := range got {
		assert.NotEqual(t, "vendor invoices overdue", e.Prompt, "zero-score entries are excluded")
	}
}
