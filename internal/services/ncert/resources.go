package ncert

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
)

// ResourceType classifies a study resource link.
type ResourceType string

const (
	ResourceTextbook    ResourceType = "textbook"
	ResourceSamplePaper ResourceType = "sample-paper"
	ResourceVideo       ResourceType = "video"
	ResourceArticle     ResourceType = "article"
)

// Resource is one external reference listed in a summary prompt.
type Resource struct {
	Title   string       `json:"title"`
	URL     string       `json:"url"`
	Snippet string       `json:"snippet"`
	Source  string       `json:"source"`
	Type    ResourceType `json:"type"`
}

// NCERTLibraryURL is linked when no specific chapter can be named.
const NCERTLibraryURL = "https://ncert.nic.in/textbook.php"

// SearchResources builds the fixed resource list for a topic: the NCERT
// chapter (or the library page), then templated sample-question, video and
// revision-note searches. No search engine is queried.
func SearchResources(ctx context.Context, resolver BookResolver, topic, class, subject string) []Resource {
	title := catalog.TitleCase(topic)
	query := encodeQueryComponent(fmt.Sprintf("%s class %s %s CBSE", topic, class, subject))

	var resources []Resource
	book := resolver.ResolveBook(ctx, models.BookQuery{
		Class:        class,
		SubjectGroup: catalog.ResolveSubjectGroup(subject),
		Language:     "English",
	})
	if book != nil {
		if match, ok := BestChapter(book.Chapters, topic); ok {
			resources = append(resources, Resource{
				Title:   fmt.Sprintf("%s (NCERT Chapter %d)", title, match.Chapter.Number),
				URL:     match.Chapter.PDFURL,
				Snippet: "Official NCERT textbook chapter for detailed explanations and exercises.",
				Source:  "NCERT",
				Type:    ResourceTextbook,
			})
		}
	}
	if len(resources) == 0 {
		resources = append(resources, Resource{
			Title:   title + " (NCERT Reference)",
			URL:     NCERTLibraryURL,
			Snippet: "Browse the NCERT textbook library to locate the relevant chapter.",
			Source:  "NCERT",
			Type:    ResourceTextbook,
		})
	}

	return append(resources,
		Resource{
			Title:   title + " - CBSE Sample Questions",
			URL:     "https://www.google.com/search?q=" + query + "+sample+questions",
			Snippet: "Practice CBSE-style questions and previous year problems related to this topic.",
			Source:  "CBSE Academic",
			Type:    ResourceSamplePaper,
		},
		Resource{
			Title:   title + " - Video Lessons",
			URL:     "https://www.youtube.com/results?search_query=" + query,
			Snippet: "Curated explainer videos from verified CBSE educators.",
			Source:  "YouTube",
			Type:    ResourceVideo,
		},
		Resource{
			Title:   title + " - Revision Notes",
			URL:     "https://www.google.com/search?q=" + query + "+revision+notes",
			Snippet: "Quick revision notes and mind maps from trusted CBSE portals.",
			Source:  "Topper / Vedantu / Byju's",
			Type:    ResourceArticle,
		},
	)
}

// FormatResources renders resources as a numbered markdown list for a prompt.
func FormatResources(resources []Resource) string {
	if len(resources) == 0 {
		return ""
	}
	lines := []string{"# Additional CBSE Resources"}
	for i, r := range resources {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - %s [%s]", i+1, r.Title, r.Source, r.Snippet, r.URL))
	}
	return strings.Join(lines, "\n")
}

// encodeQueryComponent escapes s for a query string with spaces as %20,
// leaving '+' free to join the extra search terms.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
