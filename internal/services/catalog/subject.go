package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canonical subject groups.
const (
	GroupMath          = "Math"
	GroupScience       = "Science"
	GroupSocialScience = "Social Science"
)

type subjectRule struct {
	group    string
	patterns []*regexp.Regexp
}

// subjectRules is ordered; the first matching rule wins. Social Science sits
// before Science so "Social Science" and "Political Science" land there.
var subjectRules = []subjectRule{
	{GroupMath, []*regexp.Regexp{
		regexp.MustCompile(`math`),
		regexp.MustCompile(`ganit`),
		regexp.MustCompile(`riyazi`),
	}},
	{GroupSocialScience, []*regexp.Regexp{
		regexp.MustCompile(`social`),
		regexp.MustCompile(`history`),
		regexp.MustCompile(`geography`),
		regexp.MustCompile(`political`),
		regexp.MustCompile(`\bcivics?\b`),
		regexp.MustCompile(`^s\.?s\.?$`),
	}},
	{GroupScience, []*regexp.Regexp{
		regexp.MustCompile(`\bscience\b`),
		regexp.MustCompile(`vigyan`),
	}},
}

// ResolveSubjectGroup maps a human subject name ("maths", "Ganit", "History")
// to its canonical group. Unmatched names are title-cased and returned as
// their own group.
func ResolveSubjectGroup(subject string) string {
	normalized := strings.ToLower(strings.TrimSpace(subject))
	for _, rule := range subjectRules {
		for _, p := range rule.patterns {
			if p.MatchString(normalized) {
				return rule.group
			}
		}
	}
	return TitleCase(subject)
}

var languageCodes = map[byte]string{
	'e': "English",
	'h': "Hindi",
	'u': "Urdu",
	's': "Sanskrit",
}

var (
	hindiWords    = regexp.MustCompile(`hindi|bhag|bharati|bhugol|bhartiya|kavita|manav|sanchayan`)
	urduWords     = regexp.MustCompile(`urdu|adab|khayaban|riyazi|jarah`)
	sanskritWords = regexp.MustCompile(`sanskrit|shaswati|bhaswati|vedic`)
)

// DetectLanguage guesses a book's language from its NCERT code ("jemh1" is
// English, "jhmh1" Hindi), then from vocabulary in the subject and title.
// It is used when building catalog records, not at query time.
func DetectLanguage(code, subject, title string) string {
	if len(code) > 1 {
		if lang, ok := languageCodes[lowerASCII(code[1])]; ok {
			return lang
		}
	}

	combined := strings.ToLower(subject + " " + title)
	switch {
	case hindiWords.MatchString(combined):
		return "Hindi"
	case urduWords.MatchString(combined):
		return "Urdu"
	case sanskritWords.MatchString(combined):
		return "Sanskrit"
	}
	return "English"
}

// LanguagePriority orders language editions of the same book; lower wins.
func LanguagePriority(languageKey string) int {
	switch languageKey {
	case "english":
		return 0
	case "hindi":
		return 1
	case "urdu":
		return 2
	case "sanskrit":
		return 3
	default:
		return 5
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases value and joins its alphanumeric runs with dashes.
// It returns "n-a" when nothing usable remains.
func Slugify(value string) string {
	s := norm.NFKD.String(strings.ToLower(value))
	s = strings.Trim(nonSlugChars.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "n-a"
	}
	return s
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// BuildBookID returns the live catalog id of a book edition:
// class-<2-digit class>_<subjectKey>_<languageKey>_<code>.
func BuildBookID(class, subjectKey, languageKey, code string) string {
	return fmt.Sprintf("class-%s_%s_%s_%s", PadClass(class), subjectKey, languageKey, strings.ToLower(code))
}

// PadClass left-pads a class label to two digits ("9" -> "09").
func PadClass(class string) string {
	if len(class) < 2 {
		return strings.Repeat("0", 2-len(class)) + class
	}
	return class
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
