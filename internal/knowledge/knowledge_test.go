package knowledge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtsh/ai-for-bharat/internal/knowledge"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

func writeKnowledgeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_Compiles(t *testing.T) {
	kb := knowledge.Default()
	require.NotNil(t, kb)

	matches := kb.FindBrandMatches("Cisco routers only.")
	require.Len(t, matches, 1)
	assert.Equal(t, "Cisco", matches[0].Phrase)

	// The built-in base exempts no categories.
	assert.False(t, kb.IsExemptCategory("Defence Procurement"))
}

func TestNew_InvalidRestrictivePattern(t *testing.T) {
	_, err := knowledge.New(nil, []string{`\b(only\b`}, nil)
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "restrictive_patterns", cfgErr.Field)
}

func TestNew_SkipsBlankEntries(t *testing.T) {
	kb, err := knowledge.New([]string{"  ", "Cisco"}, []string{"", `\bonly\b`}, []string{" "})
	require.NoError(t, err)

	assert.Len(t, kb.FindBrandMatches("Cisco and cisco"), 2)
	assert.Len(t, kb.FindRestrictiveMatches("only the best"), 1)
	assert.False(t, kb.IsExemptCategory(""))
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	path := writeKnowledgeFile(t, `
brand_names:
  - Cisco
  - Juniper
restrictive_patterns:
  - \bonly\b
exempted_categories:
  - Defence Procurement
`)

	kb, err := knowledge.Load(path)
	require.NoError(t, err)

	matches := kb.FindBrandMatches("Juniper switches, Cisco routers")
	require.Len(t, matches, 2)
	assert.Equal(t, "Juniper", matches[0].Phrase)
	assert.Equal(t, 0, matches[0].Offset)
	assert.Equal(t, "Cisco", matches[1].Phrase)

	assert.True(t, kb.IsExemptCategory("defence procurement"))
	assert.True(t, kb.IsExemptCategory("DEFENCE PROCUREMENT"))
	assert.False(t, kb.IsExemptCategory("IT Hardware"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := knowledge.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeKnowledgeFile(t, "brand_names: [not, closed\n")

	_, err := knowledge.Load(path)
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "knowledge", cfgErr.Field)
}

func TestFindBrandMatches_WholeWordsOnly(t *testing.T) {
	kb := knowledge.Default()

	// "HP" must not match inside a longer token.
	assert.Empty(t, kb.FindBrandMatches("PHP developers wanted"))
	assert.Len(t, kb.FindBrandMatches("HP printers"), 1)
}

func TestFindBrandMatches_CaseInsensitive(t *testing.T) {
	kb := knowledge.Default()

	matches := kb.FindBrandMatches("CISCO and dell equipment")
	require.Len(t, matches, 2)
	assert.Equal(t, "CISCO", matches[0].Phrase)
	assert.Equal(t, "dell", matches[1].Phrase)
}

func TestFindRestrictiveMatches_SortedByOffset(t *testing.T) {
	kb := knowledge.Default()

	text := "Parts must be proprietary and sourced exclusively from one vendor; only that vendor qualifies."
	matches := kb.FindRestrictiveMatches(text)
	require.Len(t, matches, 4)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Offset, matches[i-1].Offset)
	}
	assert.Equal(t, "must be", matches[0].Phrase)
	assert.Equal(t, 6, matches[0].Offset)
}

func TestFindMatches_EmptyText(t *testing.T) {
	kb := knowledge.Default()

	assert.Empty(t, kb.FindBrandMatches(""))
	assert.Empty(t, kb.FindRestrictiveMatches(""))
}
