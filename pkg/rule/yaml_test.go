package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_ReplacementsAndProtected(t *testing.T) {
	src := []byte(`
replacements:
  - from: ","
    to: "，"
  - from: "TODO:"
protected:
  - start: "<!--"
    end: "-->"
`)
	cfg, err := ParseYAML(src)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Replacements.Len())
	_, deleted := cfg.Deletions["TODO:"]
	assert.True(t, deleted)
	require.Len(t, cfg.Protected, 1)
	assert.Equal(t, "<!--", string(cfg.Protected[0].StartMarker))
}

func TestParseYAML_EmptyDocument(t *testing.T) {
	cfg, err := ParseYAML([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Replacements.Len())
	assert.Empty(t, cfg.Protected)
}

func TestParseYAML_Malformed(t *testing.T) {
	_, err := ParseYAML([]byte("not: [valid yaml"))
	assert.Error(t, err)
}
