package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_ElementQueries(t *testing.T) {
	root, err := ParseDocument(`<html><body>
		<div class="vt-bodycol-content">
			<div class="vt-text"><p>One</p><p>  </p><p>Two</p></div>
			<div class="vt-text"><p>Three</p></div>
		</div>
	</body></html>`)
	require.NoError(t, err)
	require.True(t, root.Valid())

	container, ok := root.First("div.vt-bodycol-content")
	require.True(t, ok)

	blocks := container.FindAll("div.vt-text")
	require.Len(t, blocks, 2)

	var texts []string
	for _, block := range blocks {
		for _, p := range block.FindAll("p") {
			texts = append(texts, p.Text())
		}
	}
	assert.Equal(t, []string{"One", "", "Two", "Three"}, texts)
}

func TestElement_TextCollapsesWhitespace(t *testing.T) {
	root, err := ParseDocument("<p>  Professor\n\t of   <b>Biology</b>  </p>")
	require.NoError(t, err)

	p, ok := root.First("p")
	require.True(t, ok)
	assert.Equal(t, "Professor of Biology", p.Text())
}

func TestElement_TextKeepsLineBreaks(t *testing.T) {
	root, err := ParseDocument("<p>\n  Line   one<br>Line\n two <br/><i> Line three </i>\n</p>")
	require.NoError(t, err)

	p, ok := root.First("p")
	require.True(t, ok)
	assert.Equal(t, "Line one\nLine two\nLine three", p.Text())
}

func TestElement_ZeroValue(t *testing.T) {
	var el Element

	assert.False(t, el.Valid())
	assert.Empty(t, el.Text())
	assert.Nil(t, el.FindAll("p"))

	_, ok := el.Attr("href")
	assert.False(t, ok)

	_, ok = el.First("p")
	assert.False(t, ok)
}

func TestElement_FirstMissing(t *testing.T) {
	root, err := ParseDocument("<div></div>")
	require.NoError(t, err)

	_, ok := root.First("span")
	assert.False(t, ok)
}

func TestWaitResultConstructors(t *testing.T) {
	root, err := ParseDocument("<h1>Name</h1>")
	require.NoError(t, err)
	h1, ok := root.First("h1")
	require.True(t, ok)

	found := Found(h1)
	assert.True(t, found.Found)
	assert.Equal(t, "Name", found.Element.Text())

	timedOut := TimedOut()
	assert.False(t, timedOut.Found)
	assert.False(t, timedOut.Element.Valid())
}
