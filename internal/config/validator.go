package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateSecret fails when the HMAC secret is empty or still an
// unexpanded ${VAR} placeholder.
func (r ReceiverConfig) ValidateSecret() error {
	if r.HMACSecret == "" || unresolved(r.HMACSecret) {
		return missing(EnvHMACSecret, "receiver.hmac_secret")
	}
	return nil
}

// ValidateReceiver checks the settings `serve` needs.
func (c *Config) ValidateReceiver() error {
	r := c.Receiver
	if err := r.ValidateSecret(); err != nil {
		return err
	}
	if r.Listen == "" {
		return missing(EnvListen, "receiver.listen")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return &ConfigurationError{
			Setting: EnvWebhookPath,
			Field:   "receiver.path",
			Err:     fmt.Errorf("path must start with '/' (got %q)", r.Path),
		}
	}
	if r.SignatureHeader == "" {
		return &ConfigurationError{
			Setting: "-",
			Field:   "receiver.signature_header",
			Err:     fmt.Errorf("signature_header is required"),
		}
	}
	if _, err := r.MaxBodyBytes(); err != nil {
		return &ConfigurationError{Setting: EnvMaxBodySize, Field: "receiver.max_body_size", Err: err}
	}
	return nil
}

// ValidateRegistrar checks the settings `register` needs.
func (c *Config) ValidateRegistrar() error {
	if c.Provider.APIKey == "" || unresolved(c.Provider.APIKey) {
		return missing(EnvAPIKey, "provider.api_key")
	}
	if c.Subscription.Address == "" || unresolved(c.Subscription.Address) {
		return missing(EnvAddress, "subscription.address")
	}
	if c.Subscription.CallbackURL == "" || unresolved(c.Subscription.CallbackURL) {
		return missing(EnvWebhookURL, "subscription.callback_url")
	}
	if c.Provider.Chain == "" {
		return missing(EnvChain, "provider.chain")
	}

	u, err := url.Parse(c.Provider.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigurationError{
			Setting: EnvBaseURL,
			Field:   "provider.base_url",
			Err:     fmt.Errorf("not an absolute URL: %q", c.Provider.BaseURL),
		}
	}
	return nil
}

// MaxBodyBytes returns the parsed body limit, or DefaultMaxBodySize when unset.
func (r ReceiverConfig) MaxBodyBytes() (int64, error) {
	return parseMaxBodySize(r.MaxBodySize)
}
