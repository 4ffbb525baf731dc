package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryText = "Summarize the research direction and achievements from the following biography: {{.Bio}}"

func TestLookup_SummaryPrompt(t *testing.T) {
	tmpl, err := Lookup("summary.json", "summarize-faculty-bio")
	require.NoError(t, err)

	assert.Equal(t, "summary.json/summarize-faculty-bio", tmpl.Name)
	assert.Equal(t, summaryText, tmpl.Text)
	assert.Equal(t, []string{"Bio"}, tmpl.Fields())
}

func TestLookup_Errors(t *testing.T) {
	_, err := Lookup("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")

	_, err = Lookup("summary.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNewTemplate_Fields(t *testing.T) {
	tmpl := NewTemplate("t", "{{.Name}} of {{.Department}}, again {{.Name}}. {{ .Spaced }}")
	assert.Equal(t, []string{"Name", "Department"}, tmpl.Fields())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		data map[string]string
		want string
	}{
		{
			name: "substitutes every field",
			text: "Hello {{.Name}}, welcome to {{.Department}}!",
			data: map[string]string{"Name": "Alice", "Department": "Business Information Technology"},
			want: "Hello Alice, welcome to Business Information Technology!",
		},
		{
			name: "value containing placeholder text is not expanded",
			text: "A: {{.A}} B: {{.B}}",
			data: map[string]string{"A": "{{.B}}", "B": "b"},
			want: "A: {{.B}} B: b",
		},
		{
			name: "multiline value",
			text: summaryText,
			data: map[string]string{"Bio": "First.\n\nSecond."},
			want: "Summarize the research direction and achievements from the following biography: First.\n\nSecond.",
		},
		{
			name: "no placeholders ignores extra data",
			text: "No placeholders here",
			data: map[string]string{"Key": "Value"},
			want: "No placeholders here",
		},
		{
			name: "empty value is allowed",
			text: "[{{.Bio}}]",
			data: map[string]string{"Bio": ""},
			want: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTemplate("t", tt.text).Render(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_MissingField(t *testing.T) {
	_, err := NewTemplate("greeting", "Hello {{.Name}} from {{.Place}}").Render(map[string]string{"Name": "Ann"})
	require.Error(t, err)
	assert.Equal(t, "prompt greeting: missing values for Place", err.Error())
}

func TestLookup_Cached(t *testing.T) {
	first, err := Lookup("summary.json", "summarize-faculty-bio")
	require.NoError(t, err)
	second, err := Lookup("summary.json", "summarize-faculty-bio")
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	_, cached := files.Load("summary.json")
	assert.True(t, cached)
}
