package mqrelay

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Handler processes a decoded message body.
type Handler interface {
	// Handle processes a single message body and returns an error on failure.
	Handle(ctx context.Context, body string) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, body string) error

// Handle implements Handler.
func (fn HandlerFunc) Handle(ctx context.Context, body string) error {
	return fn(ctx, body)
}

// PrintHandler writes each body followed by a newline to W.
// A nil W writes to standard output.
type PrintHandler struct {
	W io.Writer
}

// Handle implements Handler.
func (h PrintHandler) Handle(_ context.Context, body string) error {
	w := h.W
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, body)

	return err
}
