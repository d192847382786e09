package knowledgebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	assert.Greater(t, kb.Size(), 10)
	assert.NotEmpty(t, kb.WellKnownBrands())
	assert.NotEmpty(t, kb.EmergingBrands())

	entry, ok := kb.Lookup("Fragrance")
	require.True(t, ok, "lookup should be case-insensitive")
	assert.Equal(t, "Irritant", entry.Issue)
	assert.Equal(t, SeverityHigh, entry.Severity)

	_, ok = kb.Lookup("niacinamide")
	assert.False(t, ok, "beneficial ingredients are not in the concern table")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		ingredients map[string]Entry
		wantErr     bool
	}{
		{
			name:        "valid entries",
			ingredients: map[string]Entry{" Coconut Oil ": {Issue: "Comedogenic", Severity: "HIGH"}},
		},
		{
			name:        "invalid severity",
			ingredients: map[string]Entry{"coconut oil": {Issue: "Comedogenic", Severity: "extreme"}},
			wantErr:     true,
		},
		{
			name:        "missing issue",
			ingredients: map[string]Entry{"coconut oil": {Severity: "low"}},
			wantErr:     true,
		},
		{
			name:        "blank name",
			ingredients: map[string]Entry{"  ": {Issue: "Drying", Severity: "low"}},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, err := New(tt.ingredients, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			entry, ok := kb.Lookup("coconut oil")
			require.True(t, ok)
			assert.Equal(t, SeverityHigh, entry.Severity)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.toml")
	doc := `
[brands]
well_known = ["Acme Skin"]
emerging = ["Tiny Lab"]

[ingredients]
"alcohol denat." = { issue = "Drying", severity = "high" }
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	kb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme skin"}, kb.WellKnownBrands())
	assert.Equal(t, []string{"tiny lab"}, kb.EmergingBrands())
	assert.Equal(t, 1, kb.Size())

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("[ingredients\nbroken"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	kb, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Greater(t, kb.Size(), 0)
}

func TestNilKnowledgeBase(t *testing.T) {
	var kb *KnowledgeBase
	_, ok := kb.Lookup("fragrance")
	assert.False(t, ok)
	assert.Equal(t, 0, kb.Size())
	assert.Nil(t, kb.WellKnownBrands())
}
