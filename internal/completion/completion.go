// Package completion turns a journal entry into a reflection by calling a
// text-completion service.
package completion

import (
	"context"
	"fmt"

	"github.com/pbaille/journal/internal/config"
)

// Completer generates text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New returns the completer selected by cfg.Provider.
func New(cfg config.CompletionConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg)
	case config.ProviderEcho:
		return Echo{}, nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Echo answers without calling out. Useful offline and in tests.
type Echo struct{}

func (Echo) Complete(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("Here's a reflection on your entry: \"%s\"", prompt), nil
}
