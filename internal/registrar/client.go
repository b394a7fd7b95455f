package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mattjoyce/chainhook/internal/config"
)

// Client creates webhook subscriptions with one outbound request.
// It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	progress   *progress
	logger     *slog.Logger
}

// New creates a Client. Progress lines go to out; a nil httpClient means
// http.DefaultClient. The request has no client-side deadline; ctx passed to
// Register is the only way to cancel it.
func New(baseURL string, httpClient *http.Client, out io.Writer, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		progress:   newProgress(out),
		logger:     logger,
	}
}

// FromConfig builds the Subscription described by cfg.
func FromConfig(cfg *config.Config) Subscription {
	return Subscription{
		APIKey:      cfg.Provider.APIKey,
		Address:     cfg.Subscription.Address,
		CallbackURL: cfg.Subscription.CallbackURL,
		Chain:       cfg.Provider.Chain,
	}
}

// Register posts sub to the provider and returns the subscription id.
//
// Errors: *config.ConfigurationError before any I/O if a required field is
// empty, *ProviderError on a non-2xx status, *ProtocolError when the body is
// not JSON or lacks an id.
func (c *Client) Register(ctx context.Context, sub Subscription) (string, error) {
	if err := validate(sub); err != nil {
		return "", err
	}
	chain := sub.Chain
	if chain == "" {
		chain = config.DefaultChain
	}

	c.progress.field("Registering address", sub.Address)
	c.progress.field("Callback URL", sub.CallbackURL)

	payload, err := json.Marshal(SubscriptionRequest{
		Type: EventAddressTransaction,
		Attr: SubscriptionAttr{
			Chain:   chain,
			Address: sub.Address,
			URL:     sub.CallbackURL,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode subscription request: %w", err)
	}

	url := c.baseURL + SubscriptionPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build subscription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", sub.APIKey)

	c.logger.Debug("creating subscription", "url", url, "chain", chain, "type", EventAddressTransaction)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("subscription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("provider rejected subscription", "status", resp.StatusCode)
		return "", &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out SubscriptionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &ProtocolError{Reason: "response is not valid JSON", Body: string(body), Err: err}
	}
	if out.ID == "" {
		return "", &ProtocolError{Reason: "response has no id", Body: string(body)}
	}

	c.progress.done("Subscription created:", out.ID)
	c.logger.Info("subscription created", "subscription_id", out.ID, "address", sub.Address)

	return out.ID, nil
}

func validate(sub Subscription) error {
	switch {
	case sub.APIKey == "":
		return &config.ConfigurationError{Setting: config.EnvAPIKey, Field: "provider.api_key"}
	case sub.Address == "":
		return &config.ConfigurationError{Setting: config.EnvAddress, Field: "subscription.address"}
	case sub.CallbackURL == "":
		return &config.ConfigurationError{Setting: config.EnvWebhookURL, Field: "subscription.callback_url"}
	}
	return nil
}
