package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

const (
	deliverTimeout = 30 * time.Second
	maxAckSize     = 4 << 10
	channelMail    = "mail"
)

// Client delivers the rendered digest through a pushplus-style endpoint and
// classifies every attempt as sent, rejected, or unreachable.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

var _ ports.Pusher = (*Client)(nil)

// NewClient registers the push endpoint and credential token.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: deliverTimeout},
	}
}

// Push posts the message once. Sent requires a reachable endpoint whose JSON
// acknowledgment carries code 200; a malformed or non-200 acknowledgment is a
// rejection, and any transport failure is unreachable. The outcome is final —
// there is no retry.
func (c *Client) Push(ctx context.Context, title, content string) (domain.DeliveryOutcome, error) {
	body, err := json.Marshal(map[string]string{
		"token":   c.token,
		"title":   title,
		"content": content,
		"channel": channelMail,
	})
	if err != nil {
		return domain.DeliveryRejected, fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.DeliveryUnreachable, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.DeliveryUnreachable, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAckSize))
	if err != nil {
		return domain.DeliveryUnreachable, &domain.TransportError{Err: err}
	}

	var ack struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		return domain.DeliveryRejected, &domain.ShapeError{Reason: "malformed acknowledgment"}
	}

	if ack.Code != http.StatusOK {
		return domain.DeliveryRejected, &domain.UpstreamRejection{Code: ack.Code, Message: ack.Msg}
	}

	return domain.DeliverySent, nil
}
