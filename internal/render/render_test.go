package render

import (
	"strings"
	"testing"
	"time"

	"newsbrief/internal/brief"
)

func sampleBrief() brief.Brief {
	return brief.Brief{
		GeneratedAt: time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
		Sections: []brief.Section{
			{
				Topic: "technology",
				Articles: []brief.ArticleSummary{
					{Title: "Chips ahead", Summary: "Fabs expand.", URL: "https://example.com/chips", Snippet: "raw"},
					{Title: "Quantum step", Summary: "New qubit record.", URL: "https://example.com/quantum", Snippet: "raw"},
				},
			},
			{Topic: "politics", Articles: []brief.ArticleSummary{}},
		},
	}
}

func TestTextLayout(t *testing.T) {
	t.Parallel()

	got := Text(sampleBrief(), DefaultDateLayout)

	if !strings.HasPrefix(got, "Daily News Brief - March 10, 2025\n") {
		t.Fatalf("header missing, got %q", got[:60])
	}
	for _, want := range []string{
		"TECHNOLOGY",
		"1. Chips ahead",
		"   Fabs expand.",
		"   https://example.com/chips",
		"2. Quantum step",
		"POLITICS",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Text() missing %q", want)
		}
	}
	if !strings.Contains(got, strings.Repeat("=", 80)) {
		t.Fatal("Text() missing header rule")
	}
}

func TestTextIsDeterministic(t *testing.T) {
	t.Parallel()

	b := sampleBrief()
	if first, second := Text(b, DefaultDateLayout), Text(b, DefaultDateLayout); first != second {
		t.Fatal("Text() output differs between calls for the same Brief")
	}
}

func TestTextKeepsEmptySections(t *testing.T) {
	t.Parallel()

	got := Text(sampleBrief(), DefaultDateLayout)
	if !strings.Contains(got, "POLITICS") {
		t.Fatal("Text() dropped the empty section heading")
	}
}

func TestConsoleSkipsEmptySections(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	Console(&sb, sampleBrief(), DefaultDateLayout)
	got := sb.String()

	if !strings.Contains(got, "DAILY NEWS BRIEF") {
		t.Fatal("Console() missing banner")
	}
	if !strings.Contains(got, "Date: March 10, 2025") {
		t.Fatal("Console() missing date line")
	}
	if !strings.Contains(got, "TECHNOLOGY") {
		t.Fatal("Console() missing populated section")
	}
	if strings.Contains(got, "POLITICS") {
		t.Fatal("Console() should skip empty sections")
	}
}

func TestHTMLListsArticlesAndSkipsEmpty(t *testing.T) {
	t.Parallel()

	got, err := HTML(sampleBrief(), DefaultDateLayout)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, want := range []string{
		"<h1>Daily News Brief</h1>",
		"March 10, 2025",
		"<h2>TECHNOLOGY</h2>",
		`<a href="https://example.com/chips">Chips ahead</a>`,
		"<p>Fabs expand.</p>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("HTML() missing %q", want)
		}
	}
	if strings.Contains(got, "POLITICS") {
		t.Fatal("HTML() should omit empty sections")
	}
}

func TestHTMLEscapesMarkup(t *testing.T) {
	t.Parallel()

	b := brief.Brief{
		GeneratedAt: time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
		Sections: []brief.Section{{
			Topic: "security",
			Articles: []brief.ArticleSummary{{
				Title:   "<script>alert(1)</script>",
				Summary: "a & b",
				URL:     "https://example.com/x",
			}},
		}},
	}
	got, err := HTML(b, DefaultDateLayout)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if strings.Contains(got, "<script>alert(1)</script>") {
		t.Fatal("HTML() did not escape the title")
	}
	if !strings.Contains(got, "a &amp; b") {
		t.Fatal("HTML() did not escape the summary")
	}
}
