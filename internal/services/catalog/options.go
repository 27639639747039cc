package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// BuildOptions groups books by class, then subject key. Classes sort
// numerically, subjects by label, books by SortBooks order.
func BuildOptions(source models.CatalogSource, books []models.BookRecord) *models.LibraryOptions {
	type classEntry struct {
		class    string
		order    []string
		subjects map[string]*models.SubjectOption
	}

	classes := make(map[string]*classEntry)
	var classOrder []string

	for _, book := range books {
		ce, ok := classes[book.Class]
		if !ok {
			ce = &classEntry{class: book.Class, subjects: make(map[string]*models.SubjectOption)}
			classes[book.Class] = ce
			classOrder = append(classOrder, book.Class)
		}

		key := book.SubjectKey
		if key == "" {
			key = Slugify(book.Subject)
		}
		se, ok := ce.subjects[key]
		if !ok {
			group := book.SubjectGroup
			if group == "" {
				group = ResolveSubjectGroup(book.Subject)
			}
			se = &models.SubjectOption{
				Key:          key,
				Label:        book.Subject,
				SubjectGroup: group,
			}
			ce.subjects[key] = se
			ce.order = append(ce.order, key)
		}
		se.Books = append(se.Books, book)
	}

	sort.SliceStable(classOrder, func(i, j int) bool {
		return classLess(classOrder[i], classOrder[j])
	})

	opts := &models.LibraryOptions{Source: source, Classes: []models.ClassOption{}}
	for _, c := range classOrder {
		ce := classes[c]
		subjects := make([]models.SubjectOption, 0, len(ce.order))
		for _, key := range ce.order {
			option := *ce.subjects[key]
			SortBooks(option.Books)
			subjects = append(subjects, option)
		}
		sort.SliceStable(subjects, func(i, j int) bool {
			return subjects[i].Label < subjects[j].Label
		})
		opts.Classes = append(opts.Classes, models.ClassOption{Class: ce.class, Subjects: subjects})
	}
	return opts
}

// SortBooks orders books by class (numeric), priority (missing = 0), then title.
func SortBooks(books []models.BookRecord) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		if a.Class != b.Class {
			return classLess(a.Class, b.Class)
		}
		if a.PriorityValue() != b.PriorityValue() {
			return a.PriorityValue() < b.PriorityValue()
		}
		return a.Title < b.Title
	})
}

// classLess compares class labels numerically, falling back to string order
// for labels that are not numbers.
func classLess(a, b string) bool {
	ai, aErr := strconv.Atoi(strings.TrimSpace(a))
	bi, bErr := strconv.Atoi(strings.TrimSpace(b))
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	if aErr == nil {
		return true
	}
	if bErr == nil {
		return false
	}
	return a < b
}
