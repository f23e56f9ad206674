package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildImagePrompt(t *testing.T) {
	t.Parallel()

	text := "Rhine cruise through wine country\n\nThe cruise visits vineyard towns along the river valley, with castle views and wine tastings in vineyard cellars."
	prompt := buildImagePrompt(text)

	assert.Contains(t, prompt, "titled 'Rhine cruise through wine country'")
	assert.Contains(t, prompt, "Key themes:")
	assert.Contains(t, prompt, "No text, logos, watermarks, or people.")
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	text := "castle castle castle river river wine and the with"
	keywords := extractKeywords(text, 2)

	assert.Equal(t, []string{"castle", "river"}, keywords)
}

func TestExtractKeywords_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, extractKeywords("", 5))
}
