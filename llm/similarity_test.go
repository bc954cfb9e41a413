package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"show", "vendors", "from", "london"}, tokenize("Show vendors, from LONDON!"))
	// tokens of one or two characters are dropped
	assert.Equal(t, []string{"bug"}, tokenize("a bug in it"))
	assert.Empty(t, tokenize("a b c"))
	assert.Equal(t, []string{"scrum", "123"}, tokenize("SCRUM-123"))
}

func TestSimilarity(t *testing.T) {
	// a: [list open bugs], b: [list all open bugs project]
	// all three tokens of a match, normalized by the larger set (5)
	assert.InDelta(t, 0.6, similarity("list open bugs", "list all open bugs in project"), 1e-9)

	assert.Equal(t, 1.0, similarity("Show me open bugs", "show me OPEN bugs"))
	assert.Equal(t, 0.0, similarity("currency rates", "vendor addresses"))
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 0.0, similarity("vendors", ""))
}

func TestSimilarityIsAsymmetric(t *testing.T) {
	// "log" matches both tokens of b under substring containment, so the
	// matched count depends on which side is iterated.
	a := "log"
	b := "login logout"
	assert.InDelta(t, 0.5, similarity(a, b), 1e-9)
	assert.InDelta(t, 1.0, similarity(b, a), 1e-9)
}
