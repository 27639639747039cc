package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// fakeStore is an in-memory BookStore.
type fakeStore struct {
	books    []models.BookRecord
	chapters map[string][]models.ChapterRow
	err      error
	queries  []BookFilter
}

func (f *fakeStore) GetBook(ctx context.Context, id string) (*models.BookRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.books {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindBooks(ctx context.Context, flt BookFilter) ([]models.BookRecord, error) {
	f.queries = append(f.queries, flt)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.BookRecord
	for _, b := range f.books {
		if b.Class != flt.Class {
			continue
		}
		if flt.SubjectKey != "" && b.SubjectKey != flt.SubjectKey ||
			flt.SubjectGroup != "" && b.SubjectGroup != flt.SubjectGroup ||
			flt.Subject != "" && b.Subject != flt.Subject ||
			flt.LanguageKey != "" && b.LanguageKey != flt.LanguageKey ||
			flt.Language != "" && b.Language != flt.Language {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListBooks(ctx context.Context) ([]models.BookRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.BookRecord(nil), f.books...), nil
}

func (f *fakeStore) ListChapters(ctx context.Context, bookID string) ([]models.ChapterRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.ChapterRow(nil), f.chapters[bookID]...), nil
}

func intPtr(v int) *int { return &v }

func newFakeStore() *fakeStore {
	return &fakeStore{
		books: []models.BookRecord{
			{ID: "class-10_science_english_jesc1", Class: "10", Subject: "Science", SubjectGroup: "Science",
				SubjectKey: "science", Language: "English", LanguageKey: "english", Title: "Science", Priority: intPtr(0)},
			{ID: "class-10_science_hindi_jhsc1", Class: "10", Subject: "Science", SubjectGroup: "Science",
				SubjectKey: "science", Language: "Hindi", LanguageKey: "hindi", Title: "Vigyan", Priority: intPtr(1)},
			{ID: "class-10_mathematics_english_jemh1", Class: "10", Subject: "Mathematics", SubjectGroup: "Math",
				SubjectKey: "mathematics", Language: "English", LanguageKey: "english", Title: "Mathematics"},
		},
		chapters: map[string][]models.ChapterRow{
			"class-10_science_english_jesc1": {
				{Number: 2, DefaultTitle: "Chapter 02", OriginalPDFURL: "https://ncert.nic.in/textbook/pdf/jesc102.pdf"},
				{Number: 1, Title: "Chemical Reactions and Equations", StorageURL: "http://localhost:8080/files/jesc101.pdf",
					OriginalPDFURL: "https://ncert.nic.in/textbook/pdf/jesc101.pdf"},
				{Number: 3}, // no PDF: skipped
			},
		},
	}
}

func TestLiveSourceResolveBook(t *testing.T) {
	ctx := context.Background()

	t.Run("by id with ordered chapters", func(t *testing.T) {
		src := NewLiveSource(newFakeStore())
		resp, err := src.ResolveBook(ctx, models.BookQuery{BookID: "class-10_science_english_jesc1"})
		if err != nil || resp == nil {
			t.Fatalf("ResolveBook() = %v, %v", resp, err)
		}
		if resp.Source != models.SourceLive || resp.Book.Source != models.SourceLive {
			t.Errorf("source = %q/%q, want live", resp.Source, resp.Book.Source)
		}
		if len(resp.Chapters) != 2 {
			t.Fatalf("got %d chapters, want 2 (row without PDF skipped)", len(resp.Chapters))
		}
		first, second := resp.Chapters[0], resp.Chapters[1]
		if first.Number != 1 || first.PDFURL != "http://localhost:8080/files/jesc101.pdf" {
			t.Errorf("first chapter = %+v", first)
		}
		if first.ID != "class-10_science_english_jesc1-ch-01" {
			t.Errorf("first chapter id = %q", first.ID)
		}
		if second.Title != "Chapter 02" || second.PDFURL != "https://ncert.nic.in/textbook/pdf/jesc102.pdf" {
			t.Errorf("second chapter = %+v", second)
		}
	})

	t.Run("unknown id is nil", func(t *testing.T) {
		resp, err := NewLiveSource(newFakeStore()).ResolveBook(ctx, models.BookQuery{BookID: "nope"})
		if err != nil || resp != nil {
			t.Errorf("ResolveBook() = %v, %v, want nil, nil", resp, err)
		}
	})

	t.Run("prefers lowest priority", func(t *testing.T) {
		resp, _ := NewLiveSource(newFakeStore()).ResolveBook(ctx, models.BookQuery{Class: "10", SubjectKey: "science"})
		if resp == nil || resp.Book.LanguageKey != "english" {
			t.Fatalf("ResolveBook() = %+v, want the english edition", resp)
		}
	})

	t.Run("language filter applied", func(t *testing.T) {
		resp, _ := NewLiveSource(newFakeStore()).ResolveBook(ctx, models.BookQuery{Class: "10", SubjectKey: "science", LanguageKey: "hindi"})
		if resp == nil || resp.Book.Title != "Vigyan" {
			t.Fatalf("ResolveBook() = %+v, want the hindi edition", resp)
		}
	})

	t.Run("unavailable language falls back to any edition", func(t *testing.T) {
		store := newFakeStore()
		resp, err := NewLiveSource(store).ResolveBook(ctx, models.BookQuery{Class: "10", Subject: "Science", Language: "Tamil"})
		if err != nil || resp == nil {
			t.Fatalf("ResolveBook() = %v, %v", resp, err)
		}
		if resp.Book.Language != "English" {
			t.Errorf("language = %q, want English", resp.Book.Language)
		}
		if len(store.queries) != 2 || store.queries[1].Language != "" {
			t.Errorf("queries = %+v, want a retry without language", store.queries)
		}
	})

	t.Run("subject key wins over subject name", func(t *testing.T) {
		store := newFakeStore()
		NewLiveSource(store).ResolveBook(ctx, models.BookQuery{Class: "10", Subject: "Science", SubjectGroup: "Math", SubjectKey: "mathematics"})
		if got := store.queries[0]; got.SubjectKey != "mathematics" || got.SubjectGroup != "" || got.Subject != "" {
			t.Errorf("filter = %+v, want only subjectKey", got)
		}
	})

	t.Run("no class is nil", func(t *testing.T) {
		resp, err := NewLiveSource(newFakeStore()).ResolveBook(ctx, models.BookQuery{Subject: "Science"})
		if err != nil || resp != nil {
			t.Errorf("ResolveBook() = %v, %v, want nil, nil", resp, err)
		}
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewLiveSource(nil).ResolveBook(ctx, models.BookQuery{Class: "10"})
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("error = %v, want ErrNotConfigured", err)
		}
	})
}

func TestResolverFallsBackToStatic(t *testing.T) {
	ctx := context.Background()
	static := NewStaticSource("")

	t.Run("live error", func(t *testing.T) {
		store := newFakeStore()
		store.err = errors.New("connection refused")
		r := NewResolver(NewLiveSource(store), static)

		resp := r.ResolveBook(ctx, models.BookQuery{Class: "10", Subject: "Math"})
		if resp == nil || resp.Source != models.SourceStatic {
			t.Fatalf("ResolveBook() = %+v, want static fallback", resp)
		}
	})

	t.Run("live miss", func(t *testing.T) {
		r := NewResolver(NewLiveSource(newFakeStore()), static)
		resp := r.ResolveBook(ctx, models.BookQuery{Class: "9", Subject: "Science"})
		if resp == nil || resp.Source != models.SourceStatic || resp.Book.Class != "9" {
			t.Fatalf("ResolveBook() = %+v, want static class 9 science", resp)
		}
	})

	t.Run("static ids skip live", func(t *testing.T) {
		store := newFakeStore()
		r := NewResolver(NewLiveSource(store), static)
		resp := r.ResolveBook(ctx, models.BookQuery{BookID: "static-class10-math"})
		if resp == nil || resp.Book.ID != "static-class10-math" {
			t.Fatalf("ResolveBook() = %+v", resp)
		}
		if len(store.queries) != 0 {
			t.Error("live store queried for a static id")
		}
	})

	t.Run("live hit", func(t *testing.T) {
		r := NewResolver(NewLiveSource(newFakeStore()), static)
		resp := r.ResolveBook(ctx, models.BookQuery{Class: "10", SubjectGroup: "Science"})
		if resp == nil || resp.Source != models.SourceLive {
			t.Fatalf("ResolveBook() = %+v, want live", resp)
		}
	})
}

func TestStaticResolve(t *testing.T) {
	static := NewStaticSource("")

	tests := []struct {
		name      string
		query     models.BookQuery
		wantID    string
		wantFound bool
	}{
		{"math synonym", models.BookQuery{Class: "10", Subject: "maths"}, "static-class10-math", true},
		{"mathematics with space", models.BookQuery{Class: "10", Subject: "Mathematics "}, "static-class10-math", true},
		{"social science group", models.BookQuery{Class: "10", SubjectGroup: "Social Science"}, "static-class10-social", true},
		{"social studies name", models.BookQuery{Class: "9", Subject: "Social Studies"}, "static-class9-social", true},
		{"history", models.BookQuery{Class: "9", Subject: "history"}, "static-class9-social", true},
		{"subject key", models.BookQuery{Class: "10", SubjectKey: "science"}, "static-class10-science", true},
		{"unavailable language ignored", models.BookQuery{Class: "10", Subject: "Science", Language: "Tamil"}, "static-class10-science", true},
		{"unknown class", models.BookQuery{Class: "99", Subject: "Math"}, "", false},
		{"class without subject", models.BookQuery{Class: "10"}, "", false},
		{"unknown static id", models.BookQuery{BookID: "static-class12-physics"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := static.Resolve(tt.query)
			if !tt.wantFound {
				if resp != nil {
					t.Errorf("Resolve() = %+v, want nil", resp.Book)
				}
				return
			}
			if resp == nil {
				t.Fatal("Resolve() = nil")
			}
			if resp.Book.ID != tt.wantID {
				t.Errorf("book id = %q, want %q", resp.Book.ID, tt.wantID)
			}
			if resp.Book.Language != "English" {
				t.Errorf("language = %q, want English", resp.Book.Language)
			}
		})
	}

	t.Run("chapters are numbered and linked", func(t *testing.T) {
		resp := static.Resolve(models.BookQuery{Class: "10", Subject: "Math"})
		if resp.Book.ChapterCount != len(resp.Chapters) {
			t.Errorf("chapterCount %d != %d chapters", resp.Book.ChapterCount, len(resp.Chapters))
		}
		if !sort.SliceIsSorted(resp.Chapters, func(i, j int) bool { return resp.Chapters[i].Number < resp.Chapters[j].Number }) {
			t.Error("chapters not sorted by number")
		}
		first := resp.Chapters[0]
		if first.ID != "static-class10-math-ch-1" || first.Title != "Real Numbers" {
			t.Errorf("first chapter = %+v", first)
		}
		if first.PDFURL != "https://ncert.nic.in/textbook/pdf/jemh101.pdf" {
			t.Errorf("pdfUrl = %q", first.PDFURL)
		}
	})
}

func TestResolverListOptions(t *testing.T) {
	ctx := context.Background()
	static := NewStaticSource("")

	t.Run("static only", func(t *testing.T) {
		opts := NewResolver(nil, static).ListOptions(ctx)
		if opts.Source != models.SourceStatic {
			t.Errorf("source = %q, want static", opts.Source)
		}
		if len(opts.Classes) != 2 || opts.Classes[0].Class != "9" || opts.Classes[1].Class != "10" {
			t.Fatalf("classes = %+v, want 9 then 10", opts.Classes)
		}
		for _, c := range opts.Classes {
			if !sort.SliceIsSorted(c.Subjects, func(i, j int) bool { return c.Subjects[i].Label < c.Subjects[j].Label }) {
				t.Errorf("class %s subjects not sorted by label", c.Class)
			}
		}
	})

	t.Run("empty live catalog uses static", func(t *testing.T) {
		opts := NewResolver(NewLiveSource(&fakeStore{}), static).ListOptions(ctx)
		if opts.Source != models.SourceStatic || len(opts.Classes) == 0 {
			t.Errorf("ListOptions() = %+v, want static enumeration", opts)
		}
	})

	t.Run("live error uses static", func(t *testing.T) {
		opts := NewResolver(NewLiveSource(&fakeStore{err: errors.New("boom")}), static).ListOptions(ctx)
		if opts.Source != models.SourceStatic {
			t.Errorf("source = %q, want static", opts.Source)
		}
	})

	t.Run("live grouped and sorted", func(t *testing.T) {
		opts := NewResolver(NewLiveSource(newFakeStore()), static).ListOptions(ctx)
		if opts.Source != models.SourceLive || len(opts.Classes) != 1 {
			t.Fatalf("ListOptions() = %+v", opts)
		}
		subjects := opts.Classes[0].Subjects
		if len(subjects) != 2 || subjects[0].Label != "Mathematics" || subjects[1].Label != "Science" {
			t.Fatalf("subjects = %+v", subjects)
		}
		science := subjects[1].Books
		if len(science) != 2 || science[0].LanguageKey != "english" {
			t.Errorf("science books = %+v, want english edition first", science)
		}
	})
}

func TestAllBooks(t *testing.T) {
	books := NewResolver(nil, NewStaticSource("")).AllBooks(context.Background())
	if len(books) != len(staticBooks) {
		t.Fatalf("AllBooks() returned %d books, want %d", len(books), len(staticBooks))
	}
	for _, b := range books {
		if len(b.Chapters) == 0 {
			t.Errorf("book %s has no chapters", b.Book.ID)
		}
	}
}

func TestClassLess(t *testing.T) {
	classes := []string{"12", "9", "10", "11"}
	sort.Slice(classes, func(i, j int) bool { return classLess(classes[i], classes[j]) })
	want := []string{"9", "10", "11", "12"}
	for i := range want {
		if classes[i] != want[i] {
			t.Fatalf("sorted classes = %v, want %v", classes, want)
		}
	}
}
