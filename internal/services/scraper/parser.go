// Package scraper builds the live NCERT catalog from the publisher's
// textbook index page.
//
// The index page declares every book in inline JavaScript: one
// "else if((document.test.tclass.value==C) && (...text=="Subject"))" block
// per class and subject, listing the book options for that pair. The
// scraper reads those blocks, downloads each chapter PDF, stores it with its
// extracted text, and upserts the rows through catalog.Writer.
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
)

// BookSpec is one book edition declared on the index page.
type BookSpec struct {
	Class        string
	Subject      string
	SubjectKey   string
	SubjectGroup string
	Title        string
	Code         string
	RawValue     string // "jemh1=0-15"
	ChapterCount int
	SourceURL    string
	Language     string
	LanguageKey  string
	Priority     int
}

// Filter limits which books are scraped. Empty sets match everything.
type Filter struct {
	Classes   []string
	Subjects  []string // compared case-insensitively
	Languages []string // language keys: english, hindi, ...
}

type stringSet map[string]struct{}

func newSet(values []string, lower bool) stringSet {
	set := stringSet{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// allows reports whether v is in the set; an empty set allows everything.
func (s stringSet) allows(v string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[v]
	return ok
}

var (
	subjectHeader = regexp.MustCompile(
		`else if\(\(document\.test\.tclass\.value==(.*?)\)\s*&&\s*\(document\.test\.tsubject\.options\[sind\]\.text=="([^"]+)"\)\)\s*\{`)
	blockEnd   = regexp.MustCompile(`\}\s*(?:else if|function)`)
	bookOption = regexp.MustCompile(
		`document\.test\.tbook\.options\[(\d+)\]\.text="([^"]+)"[\s;]*document\.test\.tbook\.options\[(\d+)\]\.value="textbook\.php\?([^"]+)"`)
	chapterRange = regexp.MustCompile(`(\d+)-(\d+)`)
)

// IndexScripts returns the concatenated inline <script> bodies of the index
// page. Pages without inline scripts are returned unchanged.
func IndexScripts(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse index page: %w", err)
	}

	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		if body := strings.TrimSpace(s.Text()); body != "" {
			scripts = append(scripts, body)
		}
	})
	if len(scripts) == 0 {
		return html, nil
	}
	return strings.Join(scripts, "\n"), nil
}

// ParseBookSpecs extracts the book editions declared in script, skipping
// placeholder options and entries without a chapter range.
func ParseBookSpecs(script string, f Filter) []BookSpec {
	classes := newSet(f.Classes, false)
	subjects := newSet(f.Subjects, true)
	languages := newSet(f.Languages, true)

	headers := subjectHeader.FindAllStringSubmatchIndex(script, -1)
	var specs []BookSpec
	for i, h := range headers {
		class := strings.Trim(strings.TrimSpace(script[h[2]:h[3]]), `"'`)
		subject := strings.TrimSpace(script[h[4]:h[5]])
		if !classes.allows(class) || !subjects.allows(strings.ToLower(subject)) {
			continue
		}

		end := len(script)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := script[h[1]:end]
		if loc := blockEnd.FindStringIndex(block); loc != nil {
			block = block[:loc[0]]
		}

		for _, m := range bookOption.FindAllStringSubmatch(block, -1) {
			if m[1] != m[3] {
				continue
			}
			spec, ok := newBookSpec(class, subject, strings.TrimSpace(m[2]), strings.TrimSpace(m[4]))
			if !ok || !languages.allows(spec.LanguageKey) {
				continue
			}
			specs = append(specs, spec)
		}
	}
	return specs
}

func newBookSpec(class, subject, title, rawValue string) (BookSpec, bool) {
	if title == "" || strings.HasPrefix(title, "..Select") {
		return BookSpec{}, false
	}
	code, chapters, found := strings.Cut(rawValue, "=")
	if !found || code == "" || chapters == "" {
		return BookSpec{}, false
	}
	m := chapterRange.FindStringSubmatch(chapters)
	if m == nil {
		return BookSpec{}, false
	}
	count, err := strconv.Atoi(m[2])
	if err != nil || count <= 0 {
		return BookSpec{}, false
	}

	language := catalog.DetectLanguage(code, subject, title)
	languageKey := catalog.Slugify(language)
	return BookSpec{
		Class:        class,
		Subject:      subject,
		SubjectKey:   catalog.Slugify(subject),
		SubjectGroup: catalog.ResolveSubjectGroup(subject),
		Title:        title,
		Code:         code,
		RawValue:     rawValue,
		ChapterCount: count,
		SourceURL:    "https://ncert.nic.in/textbook.php?" + rawValue,
		Language:     language,
		LanguageKey:  languageKey,
		Priority:     catalog.LanguagePriority(languageKey),
	}, true
}
