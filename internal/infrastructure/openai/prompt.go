package openai

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const maxKeywords = 5

var wordExpr = regexp.MustCompile(`\p{L}{4,}`)

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "this": {}, "that": {}, "with": {}, "from": {},
	"your": {}, "have": {}, "will": {}, "для": {}, "как": {}, "что": {},
	"und": {}, "der": {}, "die": {}, "das": {}, "mit": {}, "eine": {},
}

// extractKeywords picks the most frequent meaningful words from the first
// part of the text; they anchor the image prompt to the article's topic.
func extractKeywords(text string, max int) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) > 1000 {
		runes = runes[:1000]
	}

	counts := map[string]int{}
	order := map[string]int{}
	for i, word := range wordExpr.FindAllString(strings.ToLower(string(runes)), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		counts[word]++
		if _, seen := order[word]; !seen {
			order[word] = i
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(a, b int) bool {
		if counts[words[a]] != counts[words[b]] {
			return counts[words[a]] > counts[words[b]]
		}
		return order[words[a]] < order[words[b]]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}

// buildImagePrompt turns article text into a generation prompt: the first
// line as title plus the dominant keywords.
func buildImagePrompt(text string) string {
	title := strings.TrimSpace(text)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}

	keywords := strings.Join(extractKeywords(text, maxKeywords), ", ")

	return fmt.Sprintf(
		"Create a photorealistic travel image for an article titled '%s'. "+
			"Key themes: %s. "+
			"Style: professional photography, bright, attractive tourism destination. "+
			"No text, logos, watermarks, or people. Natural travel scenery only.",
		title, keywords)
}
