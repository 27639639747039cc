package ncert

import (
	"testing"

	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf/pdftest"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback string
		want     string
	}{
		{"chapter line wins", "Mathematics\nCHAPTER   1  Real Numbers\nIntroduction to the chapter", "", "CHAPTER 1 Real Numbers"},
		{"prose heading", "12\nThe Rise of Nationalism in Europe\nIn 1848", "", "The Rise of Nationalism in Europe"},
		{"crlf lines", "\r\n  Chapter 7 \r\nMotion", "", "Chapter 7"},
		{"nothing title-like", "12\n\n34 56\nshort", "", DefaultChapterTitle},
		{"caller fallback", "", "Polynomials", "Polynomials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.text, tt.fallback); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveTitleFromExtractedPDF(t *testing.T) {
	data := pdftest.Build([]string{"Chapter 1 Real Numbers", "1.1 Introduction"})

	text, err := pdf.ExtractText(data, pdf.Options{MaxPages: 1, MaxChars: 1000})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got := DeriveTitle(text, ""); got != "Chapter 1 Real Numbers" {
		t.Errorf("DeriveTitle(extracted) = %q, want %q", got, "Chapter 1 Real Numbers")
	}
}
