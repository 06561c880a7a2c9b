package status

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ChannelPath is the push channel endpoint on the report server.
const ChannelPath = "/ws"

// ChannelURL derives the push channel address from the page address. A secure
// page gets a secure channel.
func ChannelURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported page scheme %q", u.Scheme)
	}
	u.Path = ChannelPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Channel consumes the text frames of the extraction job's push channel.
// It never reconnects.
type Channel struct {
	url    string
	dialer *websocket.Dialer
	log    logrus.FieldLogger
}

// NewChannel returns a client for the given ws:// or wss:// address.
func NewChannel(wsURL string, log logrus.FieldLogger) *Channel {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Channel{url: wsURL, dialer: websocket.DefaultDialer, log: log}
}

// URL returns the channel address.
func (c *Channel) URL() string { return c.url }

// Subscribe dials the channel and streams its messages. The stream ends with
// exactly one Closed or TransportError and is then closed. Sends are
// unbuffered: a frame is only read once the previous message was taken.
func (c *Channel) Subscribe(ctx context.Context) <-chan Message {
	out := make(chan Message)
	go c.run(ctx, out)
	return out
}

func (c *Channel) run(ctx context.Context, out chan<- Message) {
	defer close(out)

	log := c.log.WithField("url", c.url)
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		log.WithError(err).Warn("status channel dial failed")
		deliver(ctx, out, TransportError{Err: fmt.Errorf("%w: %v", ErrChannel, err)})
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	log.Info("status channel connected")

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			log.WithError(err).Info("status channel closed")
			deliver(ctx, out, Closed{Err: fmt.Errorf("%w: %v", ErrChannelClosed, err)})
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if !deliver(ctx, out, Classify(string(data))) {
			return
		}
	}
}

func deliver(ctx context.Context, out chan<- Message, msg Message) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
