package domain

import (
	"context"
	"encoding/json"
)

// SendResult is the outcome of one gateway call. Error carries the failure
// detail verbatim; MessageID is the gateway's identifier for the accepted
// message, extracted from the raw response.
type SendResult struct {
	Success   bool            `json:"success"`
	MessageID string          `json:"message_id,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// MessageGateway is the outbound messaging client the dispatcher sends
// through. Recipients are already-normalized addresses (phone number or
// group JID); retry policy, if any, belongs to the implementation.
type MessageGateway interface {
	SendText(ctx context.Context, recipient, text string) SendResult
	SendMedia(ctx context.Context, recipient, caption, mediaPath string, media MediaType) SendResult
}
