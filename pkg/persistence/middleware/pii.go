package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
)

// Mask replaces every redacted span.
const Mask = "***"

// DefaultPIIPatterns catch e-mail addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d\s\-]{8,}\d`,
}

type piiMiddleware struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks spans of message content matching any pattern before
// they are persisted. The caller's messages are never modified.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Append(ctx context.Context, threadKey string, msgs ...domain.Message) error {
	masked := make([]domain.Message, len(msgs))
	for i, msg := range msgs {
		for _, p := range m.patterns {
			msg.Content = p.ReplaceAllString(msg.Content, Mask)
		}
		masked[i] = msg
	}
	return m.next.Append(ctx, threadKey, masked...)
}

func (m *piiMiddleware) Load(ctx context.Context, threadKey string) ([]domain.Message, error) {
	return m.next.Load(ctx, threadKey)
}

func (m *piiMiddleware) Delete(ctx context.Context, threadKey string) error {
	return m.next.Delete(ctx, threadKey)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
