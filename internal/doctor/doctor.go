// Package doctor validates chainhook configuration without touching the network.
package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/mattjoyce/chainhook/internal/config"
)

// minSecretLength is the shortest HMAC secret accepted without a warning.
const minSecretLength = 16

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Role selects which command's settings are checked.
type Role string

const (
	RoleAll       Role = "all"
	RoleReceiver  Role = "receiver"
	RoleRegistrar Role = "registrar"
)

// Doctor validates a loaded configuration.
type Doctor struct {
	cfg  *config.Config
	role Role
}

// New creates a Doctor for the given role. An empty role checks everything.
func New(cfg *config.Config, role Role) *Doctor {
	if role == "" {
		role = RoleAll
	}
	return &Doctor{cfg: cfg, role: role}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	if d.role == RoleAll || d.role == RoleReceiver {
		d.validateReceiver(r)
		d.warnWeakSecret(r)
	}
	if d.role == RoleAll || d.role == RoleRegistrar {
		d.validateRegistrar(r)
		d.warnInsecureURLs(r)
	}
	if d.role == RoleAll {
		d.warnCallbackPathMismatch(r)
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addConfigError(r *Result, category string, err error) {
	var cerr *config.ConfigurationError
	if errors.As(err, &cerr) {
		d.addError(r, category, cerr.Field, cerr.Error())
		return
	}
	d.addError(r, category, "", err.Error())
}

// validateReceiver checks the settings `serve` needs.
func (d *Doctor) validateReceiver(r *Result) {
	if err := d.cfg.ValidateReceiver(); err != nil {
		d.addConfigError(r, "receiver", err)
		return
	}
	if _, _, err := net.SplitHostPort(d.cfg.Receiver.Listen); err != nil {
		d.addError(r, "receiver", "receiver.listen",
			fmt.Sprintf("listen address %q is not host:port: %v", d.cfg.Receiver.Listen, err))
	}
}

// validateRegistrar checks the settings `register` needs.
func (d *Doctor) validateRegistrar(r *Result) {
	if err := d.cfg.ValidateRegistrar(); err != nil {
		d.addConfigError(r, "registrar", err)
		return
	}
	u, err := url.Parse(d.cfg.Subscription.CallbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		d.addError(r, "registrar", "subscription.callback_url",
			"callback URL must be absolute (scheme and host)")
	}
}

// warnWeakSecret flags secrets short enough to brute force. The secret
// itself is never echoed.
func (d *Doctor) warnWeakSecret(r *Result) {
	s := d.cfg.Receiver.HMACSecret
	if s != "" && len(s) < minSecretLength {
		d.addWarning(r, "receiver", "receiver.hmac_secret",
			fmt.Sprintf("secret is %d bytes; use at least %d", len(s), minSecretLength))
	}
}

// warnInsecureURLs flags plain-http endpoints.
func (d *Doctor) warnInsecureURLs(r *Result) {
	if strings.HasPrefix(d.cfg.Provider.BaseURL, "http://") {
		d.addWarning(r, "registrar", "provider.base_url",
			"provider URL is plain http; the API key would be sent unencrypted")
	}
	if strings.HasPrefix(d.cfg.Subscription.CallbackURL, "http://") {
		d.addWarning(r, "registrar", "subscription.callback_url",
			"callback URL is plain http; deliveries would travel unencrypted")
	}
}

// warnCallbackPathMismatch flags a subscription pointing at a path the local
// receiver does not serve.
func (d *Doctor) warnCallbackPathMismatch(r *Result) {
	u, err := url.Parse(d.cfg.Subscription.CallbackURL)
	if err != nil || u.Host == "" {
		return
	}
	if u.Path != d.cfg.Receiver.Path {
		d.addWarning(r, "routing", "subscription.callback_url",
			fmt.Sprintf("callback path %q differs from receiver.path %q (fine behind a proxy)", u.Path, d.cfg.Receiver.Path))
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("Configuration valid.\n")
		return b.String()
	}

	if r.Valid && len(r.Warnings) > 0 {
		b.WriteString("Configuration valid")
		fmt.Fprintf(&b, " (%d warning(s))\n", len(r.Warnings))
	}

	if !r.Valid {
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
