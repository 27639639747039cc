package ncert

import (
	"regexp"
	"strings"
)

// DefaultChapterTitle is returned when no title-like line is found.
const DefaultChapterTitle = "NCERT Chapter"

var (
	lineBreak   = regexp.MustCompile(`\r?\n`)
	chapterLine = regexp.MustCompile(`(?i)^chapter\s+\d+`)
	headingLine = regexp.MustCompile(`^[A-Za-z].{10,}`)
)

// DeriveTitle picks a title-like line from the first page of a chapter.
// It prefers a "Chapter N ..." line, then the first line that starts with a
// letter and runs past ten characters. Best effort: scanned first pages often
// carry running headers instead of the real title.
//
// fallback is returned when nothing qualifies; an empty fallback means
// DefaultChapterTitle.
func DeriveTitle(text, fallback string) string {
	var lines []string
	for _, line := range lineBreak.Split(text, -1) {
		line = strings.TrimSpace(whitespace.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	for _, line := range lines {
		if chapterLine.MatchString(line) {
			return line
		}
	}
	for _, line := range lines {
		if headingLine.MatchString(line) {
			return line
		}
	}

	if fallback == "" {
		return DefaultChapterTitle
	}
	return fallback
}
