package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
)

const fence = "```"

// StripFence removes a surrounding markdown code fence, with or without a
// language tag. Replies without both fence ends are returned trimmed.
func StripFence(reply string) string {
	s := strings.TrimSpace(reply)
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s
	}

	s = s[len(fence) : len(s)-len(fence)]
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsLetter(r) })
	return strings.TrimSpace(s)
}

// ParseReply decodes the model reply into a normalized Tool. Only the
// enrichment fields are set.
func ParseReply(reply string) (domain.Tool, error) {
	body := StripFence(reply)

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.Tool{}, fmt.Errorf("decode reply: %w", err)
	}
	if raw == nil {
		return domain.Tool{}, errors.New("reply is not a JSON object")
	}
	return Normalize(raw), nil
}

// Normalize maps the reply fields onto a Tool. emoji falls back to the
// default and url is dropped unless it is an http(s) link. Non-string values
// count as absent.
func Normalize(raw map[string]any) domain.Tool {
	t := domain.Tool{
		Title:       stringField(raw, "titulo"),
		Category:    stringField(raw, "categoria"),
		Description: stringField(raw, "descricao"),
		Emoji:       domain.DefaultEmoji,
	}

	if e, ok := raw["emoji"].(string); ok {
		t.Emoji = e
	}
	if u, ok := raw["url"].(string); ok && isWebURL(u) {
		t.URL = u
	}
	return t
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func isWebURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
