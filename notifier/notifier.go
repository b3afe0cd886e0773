// Package notifier fans a registration payload out to the configured webhook
// targets. Targets are attempted independently and concurrently; a failed
// target never blocks or fails the others, and nothing here retries.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Payload is the notification content rendered by each target.
type Payload struct {
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	TxHash    string    `json:"txHash"`
	BlockTime time.Time `json:"blockTime"`
	URL       string    `json:"url"`
}

// RegistrationURL derives the public URL for a registered name.
func RegistrationURL(name string) string {
	return "https://" + strings.ToLower(name) + ".ipns.io"
}

// Result records one target's delivery outcome.
type Result struct {
	Target string
	Err    error
}

// Delivered reports whether the target accepted the notification.
func (r Result) Delivered() bool {
	return r.Err == nil
}

// Target is one delivery sink for registration notifications.
type Target interface {
	Name() string
	Send(ctx context.Context, payload Payload) error
}

// Notifier delivers payloads to a fixed set of targets.
type Notifier struct {
	targets []Target
	logger  zerolog.Logger
}

// New creates a notifier for the given targets. Zero targets is valid; Notify
// then returns an empty result list.
func New(logger zerolog.Logger, targets ...Target) *Notifier {
	return &Notifier{
		targets: targets,
		logger:  logger.With().Str("component", "notifier").Logger(),
	}
}

// Notify attempts delivery to every target concurrently and returns one
// result per target in target order. Failures are recorded, not escalated.
func (n *Notifier) Notify(ctx context.Context, payload Payload) []Result {
	results := make([]Result, len(n.targets))

	var wg sync.WaitGroup
	for i, target := range n.targets {
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			err := target.Send(ctx, payload)
			results[i] = Result{Target: target.Name(), Err: err}
			if err != nil {
				n.logger.Warn().
					Err(err).
					Str("target", target.Name()).
					Str("name", payload.Name).
					Msg("notification delivery failed")
			}
		}(i, target)
	}
	wg.Wait()

	return results
}

func baseText(p Payload) string {
	return fmt.Sprintf("ipns registration: %s.ipns.io owner=%s tx=%s", p.Name, p.Owner, p.TxHash)
}

// postJSON delivers a webhook body and treats any non-2xx response as a
// failure. Errors carry the status and a response snippet but not the
// webhook URL, which embeds a credential.
func postJSON(ctx context.Context, client *http.Client, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal webhook body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return errors.Errorf("webhook returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
