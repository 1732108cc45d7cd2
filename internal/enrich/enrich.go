// Package enrich turns a free-text tool description into a domain.Tool by
// asking a generative model for structured metadata.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

var (
	// ErrEmptySubmission is returned before any model call when the text is blank.
	ErrEmptySubmission = errors.New("empty submission")
	// ErrEnrichment matches every *EnrichError.
	ErrEnrichment = errors.New("enrichment failed")
)

// Generator sends one prompt and returns the model's text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EnrichError reports the stage that failed: "generate" or "parse".
type EnrichError struct {
	Stage string
	Err   error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrichment failed at %s: %v", e.Stage, e.Err)
}

func (e *EnrichError) Unwrap() []error { return []error{ErrEnrichment, e.Err} }

type Client struct {
	gen    Generator
	prompt *Prompt
	logger logger.Logger

	now   func() time.Time
	newID func() string
}

func NewClient(gen Generator, prompt *Prompt, log logger.Logger) *Client {
	return &Client{
		gen:    gen,
		prompt: prompt,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Enrich returns a complete record for text, or an error and no record.
// OriginalText keeps text exactly as given.
func (c *Client) Enrich(ctx context.Context, text string) (domain.Tool, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Tool{}, ErrEmptySubmission
	}

	start := time.Now()
	reply, err := c.gen.Generate(ctx, c.prompt.Render(text))
	if err != nil {
		c.logger.Warn("enrichment call failed",
			logger.Duration("took", time.Since(start)),
			logger.Error(err),
		)
		return domain.Tool{}, &EnrichError{Stage: "generate", Err: err}
	}

	tool, err := ParseReply(reply)
	if err != nil {
		c.logger.Warn("enrichment reply rejected",
			logger.Int("reply_len", len(reply)),
			logger.Error(err),
		)
		return domain.Tool{}, &EnrichError{Stage: "parse", Err: err}
	}

	tool.ID = c.newID()
	tool.OriginalText = text
	tool.CreatedAt = c.now().UTC()

	c.logger.Info("tool enriched",
		logger.String("id", tool.ID),
		logger.String("title", tool.Title),
		logger.String("category", tool.Category),
		logger.Duration("took", time.Since(start)),
	)
	return tool, nil
}
