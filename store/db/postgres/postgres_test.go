package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaTextColumnsRejectNull(t *testing.T) {
	require.NotEmpty(t, schema)
	for _, stmt := range schema {
		for _, line := range strings.Split(stmt, "\n") {
			line = strings.TrimSpace(line)
			if !strings.Contains(line, " TEXT") {
				continue
			}
			assert.Contains(t, line, "NOT NULL", "column %q must not be nullable", line)
		}
	}
}
