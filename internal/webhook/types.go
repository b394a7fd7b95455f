package webhook

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks github.com/mattjoyce/chainhook/internal/webhook Sink

// Sink receives deliveries that passed signature verification and parsing.
// Implementations must be safe for concurrent use; the server calls Accept
// from every request goroutine.
type Sink interface {
	Accept(ctx context.Context, d Delivery)
}

// Delivery is one verified webhook notification.
type Delivery struct {
	ID string
	// Fingerprint is the hex BLAKE3 digest of the raw body.
	Fingerprint string
	Payload     Payload
	ReceivedAt  time.Time
}

// Config holds webhook server configuration.
type Config struct {
	Listen string
	Path   string

	// Secret is the HMAC key shared with the provider.
	Secret string

	// SignatureHeader is looked up case-insensitively.
	SignatureHeader string

	// MaxBodySize is the maximum allowed request body size in bytes (default: 1MB)
	MaxBodySize int64

	// Metrics exposes GET /metrics when true.
	Metrics bool

	// MetricsToken guards /metrics with a bearer token when non-empty.
	MetricsToken string
}

// SuccessResponse is the JSON response for accepted deliveries.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON response for webhook errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Response messages
const (
	MsgMissingSignature = "Missing signature"
	MsgInvalidSignature = "Invalid signature"
	MsgMalformedPayload = "Malformed payload"
	MsgPayloadTooLarge  = "Payload too large"
	MsgReadFailed       = "Failed to read request body"
)

// Default values
const (
	DefaultPath            = "/webhook"
	DefaultSignatureHeader = "x-payload-hash"
	DefaultMaxBodySize     = 1048576 // 1 MB
)
