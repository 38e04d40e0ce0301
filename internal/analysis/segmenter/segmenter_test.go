package segmenter

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
)

const numberedContract = `SERVICE AGREEMENT

1. Scope of Services. The Vendor shall provide software services.
1.1. Deliverables. Monthly reports are included.
2. Payment. Fees are payable within 30 days of invoice.

TERMINATION
Either party may terminate with 60 days notice.`

func TestSegmentNumberedAndHeadingMarkers(t *testing.T) {
	clauses := Segment(Normalize(numberedContract))

	if len(clauses) != 5 {
		t.Fatalf("expected 5 clauses, got %d: %+v", len(clauses), clauses)
	}
	if clauses[0].ID != "C001" || !strings.HasPrefix(clauses[0].Text, "SERVICE AGREEMENT") {
		t.Fatalf("expected leading preamble clause, got %+v", clauses[0])
	}
	if !strings.HasPrefix(clauses[1].Text, "1. Scope") {
		t.Fatalf("unexpected second clause: %q", clauses[1].Text)
	}
	if !strings.HasPrefix(clauses[4].Text, "TERMINATION") {
		t.Fatalf("expected heading clause last, got %q", clauses[4].Text)
	}
}

func TestSegmentIDsFollowOrder(t *testing.T) {
	clauses := Segment(Normalize(numberedContract))
	for i, c := range clauses {
		want := clauseID(i + 1)
		if c.ID != want {
			t.Fatalf("clause %d: id = %s, want %s", i, c.ID, want)
		}
	}
}

func TestSegmentCoversAllInput(t *testing.T) {
	norm := Normalize(numberedContract)
	clauses := Segment(norm)

	var joined strings.Builder
	for _, c := range clauses {
		joined.WriteString(c.Text)
	}
	if stripSpace(joined.String()) != stripSpace(norm) {
		t.Fatalf("segmentation dropped or duplicated characters")
	}
}

func TestSegmentDeterministic(t *testing.T) {
	norm := Normalize(numberedContract)
	first := Segment(norm)
	second := Segment(norm)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("segmenting twice produced different results")
	}
}

func TestSegmentParagraphFallback(t *testing.T) {
	text := Normalize("This agreement has no numbering.\n\nIt still has two paragraphs.")
	clauses := Segment(text)
	if len(clauses) != 2 {
		t.Fatalf("expected paragraph fallback to yield 2 clauses, got %d", len(clauses))
	}
	if clauses[0].ID != "C001" || clauses[1].ID != "C002" {
		t.Fatalf("unexpected ids: %s, %s", clauses[0].ID, clauses[1].ID)
	}
}

func TestSegmentDevanagariHeadings(t *testing.T) {
	text := Normalize("भुगतान\nशुल्क 30 दिनों में देय है।\nसमाप्ति\nकोई भी पक्ष समाप्त कर सकता है।")
	clauses := Segment(text)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses from Devanagari headings, got %d: %+v", len(clauses), clauses)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	if got := Segment(""); got != nil {
		t.Fatalf("expected nil for empty text, got %+v", got)
	}
	if got := Segment("   \n\n  "); got != nil {
		t.Fatalf("expected nil for whitespace text, got %+v", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("a\r\nb\r c\t\td\n\n\n\ne")
	want := "a\nb\n c d\n\ne"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
