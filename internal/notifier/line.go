// Package notifier reports run progress to LINE Notify and the local log.
package notifier

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier is the reporting channel the pipeline writes to.
type Notifier interface {
	Send(text string) error
}

// LineNotifier sends messages through the LINE Notify API: a bearer-token
// POST with a single message form field. Fire and forget; no batching, no
// delivery confirmation.
type LineNotifier struct {
	URL    string
	Token  string
	Client *http.Client
	Logger zerolog.Logger
}

// NewLineNotifier creates a notifier with optional proxy support.
func NewLineNotifier(apiURL, token, proxyURL string, logger zerolog.Logger) *LineNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &LineNotifier{
		URL:   apiURL,
		Token: token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Logger: logger,
	}
}

// Send logs the message and pushes it to the notification channel.
func (n *LineNotifier) Send(text string) error {
	n.Logger.Info().Msg(text)

	form := url.Values{"message": {text}}
	req, err := http.NewRequest(http.MethodPost, n.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.Token)

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}
