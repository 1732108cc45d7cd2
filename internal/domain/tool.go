package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// DefaultCategory stands in for records without a category.
	DefaultCategory = "Outros"
	// DefaultEmoji is used when the enrichment reply carries no usable emoji.
	DefaultEmoji = "💡"

	placeholderTitle       = "Título não disponível"
	placeholderDescription = "Nenhuma descrição."
)

// Tool is one submitted tool and the metadata derived from it.
type Tool struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a UUID for records created here, or ContentID for legacy
	// records that were stored without one.
	ID string `json:"id,omitempty"`

	// ─────────────────────────────
	// Enrichment output
	// ─────────────────────────────

	Title       string `json:"titulo"`
	Emoji       string `json:"emoji"`
	Category    string `json:"categoria"`
	Description string `json:"descricao"`

	// URL is empty or starts with http:// or https://.
	URL string `json:"url"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// OriginalText is the submission exactly as the user typed it.
	OriginalText string `json:"original_text"`

	// CreatedAt is zero for legacy records.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// CategoryOrDefault returns the category used for grouping and filtering.
func (t Tool) CategoryOrDefault() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

// DisplayTitle returns the title or its placeholder.
func (t Tool) DisplayTitle() string {
	if t.Title == "" {
		return placeholderTitle
	}
	return t.Title
}

// DisplayEmoji returns the emoji or DefaultEmoji.
func (t Tool) DisplayEmoji() string {
	if t.Emoji == "" {
		return DefaultEmoji
	}
	return t.Emoji
}

// DisplayDescription returns the description or its placeholder.
func (t Tool) DisplayDescription() string {
	if t.Description == "" {
		return placeholderDescription
	}
	return t.Description
}

// ContentID derives a deterministic ID from the content fields, so that
// field-identical records share an ID.
func ContentID(t Tool) string {
	h := sha256.New()
	for _, f := range []string{t.Title, t.Emoji, t.Category, t.Description, t.URL, t.OriginalText} {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// IndexByID returns the position of the first record with id, or -1.
func IndexByID(tools []Tool, id string) int {
	for i := range tools {
		if tools[i].ID == id {
			return i
		}
	}
	return -1
}
