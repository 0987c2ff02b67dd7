// ABOUTME: Read-only catalog of predefined workout templates.
// ABOUTME: Templates are embedded as YAML and decoded once at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"iter"
	"strings"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

var templates = mustLoad(templatesYAML)

func mustLoad(data []byte) []models.Template {
	t, err := load(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return t
}

func load(data []byte) ([]models.Template, error) {
	var out []models.Template
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	for i, t := range out {
		if t.Name == "" {
			return nil, fmt.Errorf("template %d has no name", i)
		}
		if len(t.Exercises) == 0 {
			return nil, fmt.Errorf("template %s has no exercises", t.Name)
		}
	}
	return out, nil
}

// List returns all templates in catalog order.
// The returned slice is a copy; callers may modify it freely.
func List() []models.Template {
	out := make([]models.Template, len(templates))
	for i, t := range templates {
		out[i] = clone(t)
	}
	return out
}

// Get returns the template with the given name (case-insensitive).
func Get(name string) (models.Template, bool) {
	for _, t := range templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return clone(t), true
		}
	}
	return models.Template{}, false
}

// FindByCategory yields templates whose category equals tag, or whose name
// contains tag as a split marker (push, pull, legs). Matching ignores case.
// The sequence can be ranged over any number of times.
func FindByCategory(tag string) iter.Seq[models.Template] {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return func(yield func(models.Template) bool) {
		if tag == "" {
			return
		}
		for _, t := range templates {
			if !matches(t, tag) {
				continue
			}
			if !yield(clone(t)) {
				return
			}
		}
	}
}

// Categories returns the distinct template categories in catalog order.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

func matches(t models.Template, tag string) bool {
	if strings.ToLower(t.Category) == tag {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(t.Name)) {
		if word == tag {
			return true
		}
	}
	return false
}

func clone(t models.Template) models.Template {
	t.Exercises = append([]models.TemplateExercise(nil), t.Exercises...)
	return t
}
