// Package notifier delivers one push message per new link.
package notifier

import (
	"context"
	"fmt"
	"net/http"

	"link-notifier/config"

	"github.com/rs/zerolog"
)

// Notifier sends a single message and reports whether it was delivered.
// Delivery failures are logged by the implementation, never returned.
type Notifier interface {
	Send(ctx context.Context, message string) bool
}

// New creates the Notifier selected by cfg.Driver
func New(cfg config.NotifierConfig, log zerolog.Logger) (Notifier, error) {
	switch cfg.Driver {
	case "", "line":
		return NewLINENotifier(cfg.Endpoint, cfg.Token, http.DefaultClient, log), nil
	case "telegram":
		return NewTelegramNotifier(cfg.Token, cfg.ChatID, log), nil
	default:
		return nil, fmt.Errorf("unknown notifier driver %q", cfg.Driver)
	}
}
