// Package ncert ties the catalog, the PDF cache and the extractor together
// to answer "which textbook text covers this topic?" for the study-summary
// endpoint, and builds the resource list that goes into its prompt.
package ncert

import (
	"regexp"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// MatchResult is a chapter with its match confidence in [0,1].
type MatchResult struct {
	Chapter models.ChapterRecord
	Score   float64
}

var (
	nonWordChars = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Normalize lowercases s, replaces anything outside [a-z0-9\s] with a space
// and collapses whitespace.
func Normalize(s string) string {
	s = nonWordChars.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Score rates how well a chapter title covers topic: 1 for an exact
// (normalized) match, otherwise the fraction of topic words longer than two
// letters that occur in the title.
func Score(chapterTitle, topic string) float64 {
	title := Normalize(chapterTitle)
	query := Normalize(topic)
	if title == "" || query == "" {
		return 0
	}
	if title == query {
		return 1
	}

	var words, hits int
	for _, w := range strings.Fields(query) {
		if len(w) <= 2 {
			continue
		}
		words++
		if strings.Contains(title, w) {
			hits++
		}
	}
	if words == 0 {
		return 0
	}
	return float64(hits) / float64(words)
}

// BestChapter returns the highest scoring chapter; ties keep the earlier one.
// When nothing scores above zero it returns the first chapter with score 0,
// so a caller always gets some chapter. ok is false only for an empty list.
//
// The first-chapter fallback can attach unrelated material to a summary when
// no chapter is relevant; callers that care should check Score.
func BestChapter(chapters []models.ChapterRecord, topic string) (result MatchResult, ok bool) {
	if len(chapters) == 0 {
		return MatchResult{}, false
	}

	best := -1
	bestScore := 0.0
	for i, ch := range chapters {
		if s := Score(ch.Title, topic); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return MatchResult{Chapter: chapters[0]}, true
	}
	return MatchResult{Chapter: chapters[best], Score: bestScore}, true
}
