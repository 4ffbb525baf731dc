// Package prompts holds the LLM prompt templates. Templates live in JSON
// files (key to text) embedded at compile time and use {{.Field}}
// placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// files caches parsed prompt files by name.
var files sync.Map

// Template is one prompt with its placeholder fields.
type Template struct {
	Name   string // "file.json/key"
	Text   string
	fields []string
}

// NewTemplate parses text for {{.Field}} placeholders.
func NewTemplate(name, text string) *Template {
	t := &Template{Name: name, Text: text}
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			t.fields = append(t.fields, m[1])
		}
	}
	return t
}

// Fields returns the placeholder names in order of first appearance.
func (t *Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Render substitutes every placeholder in a single pass, so values that
// contain placeholder text are inserted verbatim. Every field must have a
// value in data; extra entries are ignored.
func (t *Template) Render(data map[string]string) (string, error) {
	var missing []string
	for _, field := range t.fields {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s: missing values for %s", t.Name, strings.Join(missing, ", "))
	}

	return placeholder.ReplaceAllStringFunc(t.Text, func(m string) string {
		return data[placeholder.FindStringSubmatch(m)[1]]
	}), nil
}

// Lookup returns the template stored under key in filename (e.g. "summary.json").
func Lookup(filename, key string) (*Template, error) {
	prompts, err := load(filename)
	if err != nil {
		return nil, err
	}
	text, ok := prompts[key]
	if !ok {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return NewTemplate(filename+"/"+key, text), nil
}

func load(filename string) (map[string]string, error) {
	if cached, ok := files.Load(filename); ok {
		return cached.(map[string]string), nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	files.Store(filename, prompts)
	return prompts, nil
}
