package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/ncert"
)

// Subjects a study summary can be written for.
const (
	SubjectMath          = "Math"
	SubjectScience       = "Science"
	SubjectSocialStudies = "Social Studies"
)

// maxNCERTPromptChars caps how much chapter text goes into the prompt.
const maxNCERTPromptChars = 8000

var subjectAliases = map[string]string{
	"math":           SubjectMath,
	"maths":          SubjectMath,
	"mathematics":    SubjectMath,
	"science":        SubjectScience,
	"social studies": SubjectSocialStudies,
	"s.s":            SubjectSocialStudies,
	"ss":             SubjectSocialStudies,
	"social":         SubjectSocialStudies,
	"history":        SubjectSocialStudies,
	"geography":      SubjectSocialStudies,
}

// TopicTexter finds textbook text for a topic. *ncert.Pipeline implements it.
type TopicTexter interface {
	TextForTopic(ctx context.Context, class, subjectGroup, topic string) *ncert.TopicText
}

// StudyService builds study summaries: subject detection, NCERT grounding,
// resource links, then one generation call.
type StudyService struct {
	gen   Generator
	texts TopicTexter
	books ncert.BookResolver
	md    goldmark.Markdown
}

// NewStudyService creates the service. gen may be nil, in which case every
// Summarize call fails with ErrNotConfigured.
func NewStudyService(gen Generator, texts TopicTexter, books ncert.BookResolver) *StudyService {
	return &StudyService{
		gen:   gen,
		texts: texts,
		books: books,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		),
	}
}

// Configured reports whether a generator is available.
func (s *StudyService) Configured() bool {
	return s.gen != nil
}

// Summarize generates a study summary for req. Missing NCERT text or
// resources degrade the prompt; only generation failures are returned.
func (s *StudyService) Summarize(ctx context.Context, req models.StudySummaryRequest) (*models.StudySummaryResponse, error) {
	if s.gen == nil {
		return nil, ErrNotConfigured
	}

	prompt := strings.TrimSpace(req.Prompt)
	class := strings.TrimSpace(req.Class)
	manualChapter := strings.TrimSpace(req.Chapter)

	chapterName := prompt
	if manualChapter != "" {
		chapterName = manualChapter
	}

	subject := NormalizeSubject(req.Subject)
	if subject == "" && manualChapter == "" {
		guess := s.identifyTopic(ctx, prompt, class)
		log.Printf("🔎 Topic identified: subject=%q chapter=%q confidence=%.2f", guess.Subject, guess.ChapterName, guess.Confidence)
		subject = guess.Subject
		chapterName = guess.ChapterName
	}
	if subject == "" {
		log.Printf("ℹ️  No subject for %q; falling back to %s", prompt, SubjectSocialStudies)
		subject = SubjectSocialStudies
	}

	var ncertText, ncertChapter string
	if topic := s.texts.TextForTopic(ctx, class, catalog.ResolveSubjectGroup(subject), chapterName); topic != nil {
		ncertText = topic.Text
		ncertChapter = fmt.Sprintf("%s (Chapter %d)", topic.Chapter.Title, topic.Chapter.Number)
	}

	resources := ncert.FormatResources(ncert.SearchResources(ctx, s.books, chapterName, class, subject))

	summary, err := s.gen.Generate(ctx, buildSummaryPrompt(prompt, class, subject, ncertText, resources))
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	chapter := chapterName
	if ncertChapter != "" {
		chapter = ncertChapter
	}
	return &models.StudySummaryResponse{
		Summary:         summary,
		SummaryHTML:     s.renderHTML(summary),
		Subject:         subject,
		Chapter:         chapter,
		NCERTReferenced: ncertText != "",
		Model:           s.gen.Model(),
	}, nil
}

func (s *StudyService) renderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		log.Printf("⚠️  Failed to render summary markdown: %v", err)
		return ""
	}
	return buf.String()
}

// NormalizeSubject maps a user-supplied subject to Math, Science or Social
// Studies. It returns "" when the subject is blank or fits none of them.
func NormalizeSubject(subject string) string {
	key := strings.ToLower(strings.TrimSpace(subject))
	if key == "" {
		return ""
	}
	if s, ok := subjectAliases[key]; ok {
		return s
	}
	return subjectForGroup(catalog.ResolveSubjectGroup(key))
}

func subjectForGroup(group string) string {
	switch group {
	case catalog.GroupMath:
		return SubjectMath
	case catalog.GroupScience:
		return SubjectScience
	case catalog.GroupSocialScience:
		return SubjectSocialStudies
	}
	return ""
}

// TopicGuess is the generator's reading of a free-text prompt.
type TopicGuess struct {
	Subject     string
	ChapterName string
	Confidence  float64
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// identifyTopic asks the generator for the subject and chapter of prompt.
// Failures yield a guess with no subject and the prompt as chapter name.
func (s *StudyService) identifyTopic(ctx context.Context, prompt, class string) TopicGuess {
	resp, err := s.gen.Generate(ctx, buildIdentifyPrompt(prompt, class))
	if err != nil {
		log.Printf("⚠️  Topic identification failed for %q: %v", prompt, err)
		return TopicGuess{ChapterName: prompt}
	}
	return parseTopicGuess(resp, prompt)
}

// parseTopicGuess reads the first {...} block of resp as JSON. Without one it
// scans the text for subject keywords.
func parseTopicGuess(resp, prompt string) TopicGuess {
	raw := jsonObject.FindString(resp)
	if raw == "" {
		return TopicGuess{
			Subject:     subjectForGroup(catalog.ResolveSubjectGroup(strings.ToLower(resp))),
			ChapterName: prompt,
			Confidence:  0.5,
		}
	}

	var parsed struct {
		Subject     *string `json:"subject"`
		ChapterName string  `json:"chapterName"`
		Confidence  float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("⚠️  Topic identification returned invalid JSON: %v", err)
		return TopicGuess{ChapterName: prompt}
	}

	guess := TopicGuess{
		ChapterName: strings.TrimSpace(parsed.ChapterName),
		Confidence:  parsed.Confidence,
	}
	if parsed.Subject != nil {
		guess.Subject = NormalizeSubject(*parsed.Subject)
	}
	if guess.ChapterName == "" {
		guess.ChapterName = prompt
	}
	if guess.Confidence == 0 {
		guess.Confidence = 0.5
	}
	return guess
}

func buildIdentifyPrompt(prompt, class string) string {
	return fmt.Sprintf(`You are an expert at identifying CBSE curriculum topics. Given a student's prompt about what they want to learn, identify:
1. The subject (Math, Science, or Social Studies)
2. The chapter/topic name
3. Your confidence level (0-1)

Student prompt: "%s"
Student class: Class %s

Respond in JSON format:
{
  "subject": "Math" | "Science" | "Social Studies" | null,
  "chapterName": "string",
  "confidence": number
}

If you cannot confidently identify the subject, set subject to null.`, prompt, class)
}

func buildSummaryPrompt(prompt, class, subject, ncertText, resources string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert CBSE tutor helping a Class %s student learn %s. Your task is to create a comprehensive, easy-to-understand study summary.

Hard formatting rules (MUST follow exactly):
- Use Markdown.
- Start with a single line title: "Study Summary: [Topic Name]" (no leading # on this line).
- Then add a blank line and the section "## Key Concepts".
- Use the following section headings in this exact order:
  1) "## Key Concepts"
  2) "## Important Definitions"
  3) "## Formulas/Key Points"
  4) "## Step-by-Step Explanation"
  5) "## Practice Questions"
  6) "## Study Tips"
  7) "## Quick Revision Points"
- Put a line containing exactly three dashes --- on its own line BETWEEN each major section (like a visual divider).
- Use normal paragraphs and "-" bullet lists inside sections, NOT extra headings.
- Do not add any other top-level headings outside this structure.

Content guidelines:
1. Use simple, student-friendly language (Class %s level)
2. Break down complex concepts into easy steps
3. Include key definitions, formulas, and important points
4. Provide 2-3 CBSE-style practice questions with short answers
5. Include study tips and memory aids
6. Reference NCERT content when provided
7. Use the additional resources to find relevant CBSE exam questions and study guides

`, class, subject, class)

	if ncertText != "" {
		b.WriteString("NCERT Textbook Content for this chapter (truncated):\n")
		b.WriteString(truncateRunes(ncertText, maxNCERTPromptChars))
		b.WriteString("\n")
	} else {
		b.WriteString("Note: NCERT text not found. Use your knowledge of CBSE curriculum.\n")
	}
	b.WriteString("\n")

	if resources != "" {
		b.WriteString("Additional CBSE-related resources:\n")
		b.WriteString(resources)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Student's request: \"%s\"\n\n", prompt)
	b.WriteString("Now generate the study summary ONLY in the required Markdown structure described above.")
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
