package rewriter

import (
	"errors"
	"strings"
	"testing"

	"icon-normalizer/internal/normalizer/geometry"
	"icon-normalizer/internal/normalizer/models"
	"icon-normalizer/internal/normalizer/parser"
)

func TestNormalizeViewBoxDocument(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><path d="M10 10 L90 90"/></svg>`

	out, warnings, err := Normalize(doc, 24, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !strings.Contains(out, `d="M2.4 2.4L21.6 21.6"`) {
		t.Fatalf("path not scaled: %s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 24 24"`) {
		t.Fatalf("viewBox not rewritten: %s", out)
	}
	if !strings.Contains(out, `width="24"`) || !strings.Contains(out, `height="24"`) {
		t.Fatalf("size attributes not rewritten: %s", out)
	}
}

func TestNormalizeWidthHeightDocument(t *testing.T) {
	doc := `<svg width="48px" height="48"><path d="M0 0 h48 v48 h-48 Z"/></svg>`

	out, _, err := Normalize(doc, 24, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.Contains(out, `d="M0 0h24v24h-24Z"`) {
		t.Fatalf("relative operands not scaled correctly: %s", out)
	}
	if strings.Contains(out, "48") {
		t.Fatalf("old size declaration survived: %s", out)
	}
}

func TestNormalizeNonZeroOrigin(t *testing.T) {
	doc := `<svg viewBox="10 10 100 100"><path d="M10 10 L110 110"/></svg>`

	out, _, err := Normalize(doc, 24, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.Contains(out, `d="M0 0L24 24"`) {
		t.Fatalf("origin not translated out: %s", out)
	}
}

func TestNormalizeMalformedPathRecovered(t *testing.T) {
	doc := `<svg viewBox="0 0 100 100"><path d="M10 10 L"/><path d="M10 10 L90 90"/></svg>`

	out, warnings, err := Normalize(doc, 24, 3)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(out, `d="M10 10 L"`) {
		t.Fatalf("malformed path must stay untouched: %s", out)
	}
	if !strings.Contains(out, `d="M2.4 2.4L21.6 21.6"`) {
		t.Fatalf("healthy path must still transform: %s", out)
	}
}

func TestNormalizeNoFrame(t *testing.T) {
	doc := `<svg><path d="M10 10 L90 90"/></svg>`

	if _, _, err := Normalize(doc, 24, 3); !errors.Is(err, models.ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
}

func TestNormalizeInvalidScale(t *testing.T) {
	doc := `<svg viewBox="0 0 100 100"></svg>`

	for _, target := range []float64{0, -24} {
		if _, _, err := Normalize(doc, target, 3); !errors.Is(err, models.ErrInvalidScale) {
			t.Fatalf("target %v: expected ErrInvalidScale, got %v", target, err)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	doc := `<svg viewBox="0 0 100 100"><path d="M10 10 C20 20 30 30 40 40 a5 5 0 0 1 10 0 Z"/></svg>`

	first, _, err := Normalize(doc, 24, 3)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, _, err := Normalize(first, 24, 3)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if first != second {
		t.Fatalf("second pass diverged:\n%s\n%s", first, second)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	// токенизация + тождественная трансформация меняют только форматирование
	src := "M.5.5L10-5h24v-24a25 25 0 0 1 75 0Z"

	cmds, err := parser.TokenizePath(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	identity := models.Transform{Sx: 1, Sy: 1}
	got := geometry.Serialize(geometry.Apply(cmds, identity), 3)
	if got != src {
		t.Fatalf("round trip diverged: %q -> %q", src, got)
	}
}
