package notifier

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of a failed response is copied into the log
const maxErrorBody = 1024

// LINENotifier posts messages to the LINE Notify API
type LINENotifier struct {
	endpoint string
	token    string
	client   *http.Client
	log      zerolog.Logger
}

// NewLINENotifier creates a LINENotifier posting to endpoint with a bearer token
func NewLINENotifier(endpoint, token string, client *http.Client, log zerolog.Logger) *LINENotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &LINENotifier{
		endpoint: endpoint,
		token:    token,
		client:   client,
		log:      log,
	}
}

// Send posts message as the "message" form field. A leading newline is added
// so the text starts below the sender name in the LINE client. Only HTTP 200
// counts as delivered.
func (n *LINENotifier) Send(ctx context.Context, message string) bool {
	form := url.Values{"message": {"\n" + message}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		n.log.Error().Err(err).Msg("Error sending message")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error().Err(err).Msg("Error sending message")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		n.log.Error().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(body))).
			Msgf("Failed to send message: %d", resp.StatusCode)
		return false
	}

	n.log.Info().Msg("Message sent successfully.")
	return true
}
