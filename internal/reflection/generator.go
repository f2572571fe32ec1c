// Package reflection turns a logged event into a short teaching, using a
// generation backend when one is configured and a fixed text otherwise.
package reflection

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/llm"
)

// Input is what a reflection is generated from.
type Input struct {
	Event      string
	DissScore  int
	DissReason string
	ReactDesc  string
	ReactScore int
}

const (
	defaultAttempts  = 3
	defaultMaxTokens = 400
)

// Generator produces reflections. It never fails: every path returns text.
type Generator struct {
	provider llm.Provider
	attempts int
	backoff  func(attempt int) time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	logger   *zap.Logger
}

// Option customises a Generator.
type Option func(*Generator)

// WithSleep replaces the wait between attempts. Tests use it to skip real sleeps.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(g *Generator) { g.sleep = sleep }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator creates a Generator. A nil provider means no backend is
// configured and Generate always returns the fallback text.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		attempts: defaultAttempts,
		backoff:  linearBackoff,
		sleep:    blockingSleep,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether a generation backend is configured.
func (g *Generator) Enabled() bool {
	return g.provider != nil
}

// Generate returns a reflection for in.
//
// Transient backend errors are retried up to three attempts with 1s, 3s
// waits. Any other error, or running out of attempts, yields a one-line
// error note followed by the fallback. An empty answer yields the fallback.
func (g *Generator) Generate(ctx context.Context, in Input) (text string) {
	if g.provider == nil {
		return Fallback()
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Reflection backend panicked", zap.Any("panic", r))
			text = Fallback()
		}
	}()

	req := llm.Request{
		Prompt:    buildPrompt(in),
		MaxTokens: defaultMaxTokens,
	}

	var lastErr error
	for attempt := range g.attempts {
		resp, err := g.provider.Generate(ctx, req)
		if err == nil {
			if resp == nil || resp.Text == "" {
				g.logger.Warn("Reflection backend returned empty text", zap.String("model", g.provider.ModelID()))
				return Fallback()
			}
			return resp.Text
		}
		lastErr = err

		if !llm.IsTransient(err) || attempt == g.attempts-1 {
			break
		}

		wait := g.backoff(attempt)
		g.logger.Info("Retrying reflection",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))
		g.sleep(ctx, wait)
	}

	g.logger.Warn("Reflection backend failed", zap.Error(lastErr))
	return errorNote(lastErr) + Fallback()
}

// linearBackoff waits 1s, 3s, 5s, ... before the next attempt.
func linearBackoff(attempt int) time.Duration {
	return time.Duration(1+attempt*2) * time.Second
}

// blockingSleep waits for d; once issued, the retry loop runs to completion.
func blockingSleep(_ context.Context, d time.Duration) {
	time.Sleep(d)
}

func errorNote(err error) string {
	return fmt.Sprintf("(AI) เกิดข้อผิดพลาดในการเรียกโมเดล: %v\n\n", err)
}
