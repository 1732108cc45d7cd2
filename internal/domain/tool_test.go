package domain

import "testing"

func TestDisplayFallbacks(t *testing.T) {
	var empty Tool
	if got := empty.DisplayTitle(); got != "Título não disponível" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := empty.DisplayEmoji(); got != DefaultEmoji {
		t.Errorf("DisplayEmoji() = %q", got)
	}
	if got := empty.DisplayDescription(); got != "Nenhuma descrição." {
		t.Errorf("DisplayDescription() = %q", got)
	}
	if got := empty.CategoryOrDefault(); got != DefaultCategory {
		t.Errorf("CategoryOrDefault() = %q", got)
	}

	full := Tool{Title: "Figma", Emoji: "🎨", Category: "Design", Description: "d"}
	if full.DisplayTitle() != "Figma" || full.DisplayEmoji() != "🎨" || full.CategoryOrDefault() != "Design" || full.DisplayDescription() != "d" {
		t.Errorf("populated fields should be returned unchanged: %+v", full)
	}
}

func TestContentID(t *testing.T) {
	a := Tool{Title: "Figma", Emoji: "🎨", Category: "Design", URL: "https://figma.com", OriginalText: "figma"}
	b := a
	b.ID = "ignored"

	if ContentID(a) != ContentID(b) {
		t.Error("ContentID should ignore ID and depend only on content")
	}
	if len(ContentID(a)) != 16 {
		t.Errorf("ContentID length = %d, want 16", len(ContentID(a)))
	}

	c := a
	c.OriginalText = "figma!"
	if ContentID(a) == ContentID(c) {
		t.Error("different content should produce different IDs")
	}

	// Field boundaries matter: "ab"+"c" must differ from "a"+"bc".
	x := Tool{Title: "ab", Emoji: "c"}
	y := Tool{Title: "a", Emoji: "bc"}
	if ContentID(x) == ContentID(y) {
		t.Error("ContentID should separate fields")
	}
}

func TestIndexByID(t *testing.T) {
	tools := []Tool{{ID: "x"}, {ID: "y"}, {ID: "x"}}

	if got := IndexByID(tools, "x"); got != 0 {
		t.Errorf("IndexByID(x) = %d, want first match 0", got)
	}
	if got := IndexByID(tools, "y"); got != 1 {
		t.Errorf("IndexByID(y) = %d, want 1", got)
	}
	if got := IndexByID(tools, "z"); got != -1 {
		t.Errorf("IndexByID(z) = %d, want -1", got)
	}
}
