package status

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// TriggerPath is the job-start endpoint on the report server.
const TriggerPath = "/run-extraction"

// Trigger issues the job-start request. It has no retry and no abort path
// beyond the caller's context.
type Trigger struct {
	endpoint string
	client   *http.Client
	log      logrus.FieldLogger
}

// NewTrigger resolves the trigger endpoint against the page address. A nil
// client gets a 30 second timeout.
func NewTrigger(pageURL string, client *http.Client, log logrus.FieldLogger) (*Trigger, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported page scheme %q", u.Scheme)
	}
	u.Path = TriggerPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Trigger{endpoint: u.String(), client: client, log: log}, nil
}

// Endpoint returns the resolved trigger address.
func (t *Trigger) Endpoint() string { return t.endpoint }

// Run posts an empty request. Any 2xx status is success; everything else,
// including transport failures, wraps ErrRequestFailed.
func (t *Trigger) Run(ctx context.Context) error {
	log := t.log.WithField("endpoint", t.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		log.WithError(err).Error("run request failed")
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Error("run request rejected")
		return fmt.Errorf("%w: server responded %d", ErrRequestFailed, resp.StatusCode)
	}
	log.WithField("status", resp.StatusCode).Info("run request accepted")
	return nil
}
