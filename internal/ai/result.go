package ai

import (
	"context"
	"strings"
)

// Result is the outcome of one backend call. Err is set when the backend
// failed or produced nothing usable; Text is then empty.
type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Call runs g and folds failures and blank output into a Result.
func Call(ctx context.Context, g Generator, prompt string) Result {
	text, err := g.Generate(ctx, prompt)
	if err != nil {
		return Result{Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Err: ErrEmptyResponse}
	}
	return Result{Text: text}
}
