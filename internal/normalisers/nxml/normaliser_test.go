package nxml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArticle = `<?xml version="1.0"?>
<article>
  <front>
    <article-meta>
      <title-group>
        <article-title>  Aspirin Safety Profile </article-title>
      </title-group>
    </article-meta>
  </front>
  <body>
    <sec>
      <p>The active ingredient is acetylsalicylic acid.</p>
      <p>Adverse reactions include <italic>gastric irritation</italic> at high doses.</p>
      <p>   </p>
    </sec>
  </body>
  <back>
    <ref-list>
      <p>This paragraph is outside the body and must be ignored.</p>
    </ref-list>
  </back>
</article>`

func TestNormalise(t *testing.T) {
	doc, err := New().Normalise(strings.NewReader(sampleArticle))
	require.NoError(t, err)

	assert.Equal(t, "Aspirin Safety Profile", doc.Title)

	lines := strings.Split(doc.Body, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "The active ingredient is acetylsalicylic acid.", lines[0])
	// Only the text before the first child element is kept.
	assert.Equal(t, "Adverse reactions include", lines[1])
	assert.NotContains(t, doc.Body, "outside the body")
}

func TestNormalise_MissingTitle(t *testing.T) {
	doc, err := New().Normalise(strings.NewReader(`<article><body><p>text</p></body></article>`))
	require.NoError(t, err)
	assert.Equal(t, "", doc.Title)
	assert.Equal(t, "text", doc.Body)
}

func TestNormalise_SecondTitleIgnored(t *testing.T) {
	input := `<article>
<article-title>First</article-title>
<article-title>Second</article-title>
<body><p>body</p></body>
</article>`
	doc, err := New().Normalise(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title)
}

func TestNormaliseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PMC12345.nxml")
	require.NoError(t, os.WriteFile(path, []byte(sampleArticle), 0o644))

	doc, err := New().NormaliseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PMC12345.nxml", doc.Source)
	assert.Equal(t, "Aspirin Safety Profile", doc.Title)
}

func TestDocumentText(t *testing.T) {
	doc, err := New().Normalise(strings.NewReader(sampleArticle))
	require.NoError(t, err)
	text := doc.Text()
	assert.True(t, strings.HasPrefix(text, "Aspirin Safety Profile\n\n"))
}
