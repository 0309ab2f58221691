package sources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties_CommentsAndBlankLines(t *testing.T) {
	text := "# comment\n! also a comment\n\nkey=value\n"
	m, err := parseProperties(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"key": "value"}, m)
}

func TestParseProperties_BackslashContinuation(t *testing.T) {
	text := "key=one \\\ntwo\n"
	m, err := parseProperties(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "one two", m["key"])
}

func TestParseProperties_ColonAndWhitespaceSeparators(t *testing.T) {
	text := "a:1\nb 2\n"
	m, err := parseProperties(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "1", m["a"])
	assert.Equal(t, "2", m["b"])
}
