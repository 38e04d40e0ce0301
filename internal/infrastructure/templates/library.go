// Package templates is the on-disk clause/contract template library. The
// library is a read-only handle: files load lazily on first use and stay
// cached until Invalidate is called explicitly. Missing directories are a
// configuration problem and surface as errors, never as empty results.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"gopkg.in/yaml.v3"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const defaultTopK = 3

// Template is one library entry. Category "clause" entries feed similarity
// matching; category "contract" entries feed whole-document generation.
type Template struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	ContractTypes []string `yaml:"contract_types"`
	Description   string   `yaml:"description"`
	Text          string   `yaml:"text"`
}

type Library struct {
	dir string

	mu     sync.Mutex
	loaded bool
	items  []Template

	similarity *metrics.SorensenDice
}

func NewLibrary(dir string) *Library {
	sim := metrics.NewSorensenDice()
	sim.CaseSensitive = false
	sim.NgramSize = 2
	return &Library{dir: dir, similarity: sim}
}

// Invalidate drops the cache; the next call reloads from disk.
func (l *Library) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
	l.items = nil
}

func (l *Library) load() ([]Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.items, nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	var items []Template
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template file %s: %w", entry.Name(), err)
		}
		var file struct {
			Templates []Template `yaml:"templates"`
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse template file %s: %w", entry.Name(), err)
		}
		items = append(items, file.Templates...)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	l.items = items
	l.loaded = true
	return items, nil
}

// MatchClause returns the topK clause templates most similar to the given
// text, optionally restricted to one contract type. An empty library or no
// overlap yields an empty, well-formed slice.
func (l *Library) MatchClause(clauseText, contractType string, topK int) ([]domain.TemplateMatch, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	items, err := l.load()
	if err != nil {
		return nil, err
	}

	matches := make([]domain.TemplateMatch, 0, topK)
	for _, tpl := range items {
		if tpl.Category != "clause" {
			continue
		}
		if contractType != "" && !containsType(tpl.ContractTypes, contractType) {
			continue
		}
		score := int(strutil.Similarity(clauseText, tpl.Text, l.similarity) * 100)
		matches = append(matches, domain.TemplateMatch{
			TemplateID:    tpl.ID,
			TemplateName:  tpl.Name,
			Category:      tpl.Category,
			ContractTypes: tpl.ContractTypes,
			Similarity:    score,
			TemplateText:  tpl.Text,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Generate returns the boilerplate document for one contract type.
func (l *Library) Generate(contractType string) (*domain.GeneratedContract, error) {
	items, err := l.load()
	if err != nil {
		return nil, err
	}

	for _, tpl := range items {
		if tpl.Category != "contract" {
			continue
		}
		if containsType(tpl.ContractTypes, contractType) {
			return &domain.GeneratedContract{
				ContractType: contractType,
				Name:         tpl.Name,
				Description:  tpl.Description,
				Text:         tpl.Text,
			}, nil
		}
	}
	return nil, domain.WrapError(
		domain.ErrTemplateNotFound,
		"generate contract",
		fmt.Errorf("no contract template for type %q", contractType),
	)
}

func containsType(types []string, contractType string) bool {
	for _, t := range types {
		if strings.EqualFold(t, contractType) {
			return true
		}
	}
	return false
}
