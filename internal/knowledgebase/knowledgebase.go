// Package knowledgebase holds the static ingredient reference table and brand
// lists consumed by the analyzer. A KnowledgeBase is loaded once and never
// mutated afterwards, so it is safe to share across goroutines.
package knowledgebase

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Severity levels
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

//go:embed data/knowledgebase.toml
var defaultData []byte

// Entry describes a known issue with an ingredient
type Entry struct {
	Issue    string `toml:"issue" json:"issue"`
	Severity string `toml:"severity" json:"severity"`
}

// KnowledgeBase is the read-only reference data for one process
type KnowledgeBase struct {
	ingredients     map[string]Entry
	wellKnownBrands []string
	emergingBrands  []string
}

type fileFormat struct {
	Brands struct {
		WellKnown []string `toml:"well_known"`
		Emerging  []string `toml:"emerging"`
	} `toml:"brands"`
	Ingredients map[string]Entry `toml:"ingredients"`
}

// New builds a KnowledgeBase from in-memory values. Keys and brand names are
// normalized to trimmed lowercase.
func New(ingredients map[string]Entry, wellKnown, emerging []string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		ingredients:     make(map[string]Entry, len(ingredients)),
		wellKnownBrands: normalizeList(wellKnown),
		emergingBrands:  normalizeList(emerging),
	}

	for name, entry := range ingredients {
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("empty ingredient name in reference table")
		}
		entry.Severity = normalize(entry.Severity)
		switch entry.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return nil, fmt.Errorf("ingredient %q: invalid severity %q", name, entry.Severity)
		}
		if strings.TrimSpace(entry.Issue) == "" {
			return nil, fmt.Errorf("ingredient %q: issue is required", name)
		}
		kb.ingredients[key] = entry
	}

	return kb, nil
}

// Parse decodes a TOML knowledge base document
func Parse(data []byte) (*KnowledgeBase, error) {
	var f fileFormat
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	return New(f.Ingredients, f.Brands.WellKnown, f.Brands.Emerging)
}

// Load reads a TOML knowledge base from disk
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the knowledge base compiled into the binary
func Default() (*KnowledgeBase, error) {
	return Parse(defaultData)
}

// LoadOrDefault loads path when set, otherwise the embedded default
func LoadOrDefault(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Lookup finds an ingredient case-insensitively
func (kb *KnowledgeBase) Lookup(name string) (Entry, bool) {
	if kb == nil {
		return Entry{}, false
	}
	entry, ok := kb.ingredients[normalize(name)]
	return entry, ok
}

// WellKnownBrands returns a copy of the well-known brand list
func (kb *KnowledgeBase) WellKnownBrands() []string {
	if kb == nil {
		return nil
	}
	return append([]string(nil), kb.wellKnownBrands...)
}

// EmergingBrands returns a copy of the emerging brand list
func (kb *KnowledgeBase) EmergingBrands() []string {
	if kb == nil {
		return nil
	}
	return append([]string(nil), kb.emergingBrands...)
}

// Size returns the number of reference entries
func (kb *KnowledgeBase) Size() int {
	if kb == nil {
		return 0
	}
	return len(kb.ingredients)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := normalize(item); n != "" {
			out = append(out, n)
		}
	}
	return out
}
