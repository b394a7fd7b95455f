package doctor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattjoyce/chainhook/internal/config"
)

func validConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Provider.APIKey = "api-key"
	cfg.Subscription.Address = "1MFZaddr"
	cfg.Subscription.CallbackURL = "https://hooks.example.com/webhook"
	cfg.Receiver.HMACSecret = "a-long-enough-shared-secret"
	return cfg
}

func hasIssue(issues []Issue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()
	r := New(validConfig(), RoleAll).Validate()
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidate_MissingSecret(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Receiver.HMACSecret = ""

	r := New(cfg, RoleAll).Validate()
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasIssue(r.Errors, "receiver.hmac_secret") {
		t.Fatalf("expected receiver.hmac_secret error, got %v", r.Errors)
	}
}

func TestValidate_RoleScoping(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Provider.APIKey = ""

	if r := New(cfg, RoleReceiver).Validate(); !r.Valid {
		t.Fatalf("receiver role should ignore registrar settings, got %v", r.Errors)
	}
	r := New(cfg, RoleRegistrar).Validate()
	if r.Valid || !hasIssue(r.Errors, "provider.api_key") {
		t.Fatalf("expected provider.api_key error, got %v", r.Errors)
	}
}

func TestValidate_BadListen(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Receiver.Listen = "8787"

	r := New(cfg, RoleReceiver).Validate()
	if r.Valid || !hasIssue(r.Errors, "receiver.listen") {
		t.Fatalf("expected receiver.listen error, got %v", r.Errors)
	}
}

func TestValidate_RelativeCallback(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Subscription.CallbackURL = "/webhook"

	r := New(cfg, RoleRegistrar).Validate()
	if r.Valid || !hasIssue(r.Errors, "subscription.callback_url") {
		t.Fatalf("expected callback_url error, got %v", r.Errors)
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Receiver.HMACSecret = "tiny-s3"
	cfg.Provider.BaseURL = "http://api.example.com"
	cfg.Subscription.CallbackURL = "http://hooks.example.com/hooks/tatum"

	r := New(cfg, RoleAll).Validate()
	if !r.Valid {
		t.Fatalf("warnings must not invalidate, got %v", r.Errors)
	}
	for _, field := range []string{"receiver.hmac_secret", "provider.base_url", "subscription.callback_url"} {
		if !hasIssue(r.Warnings, field) {
			t.Errorf("expected warning for %s, got %v", field, r.Warnings)
		}
	}

	out := FormatHuman(r)
	if strings.Contains(out, "tiny-s3") {
		t.Error("secret value must not appear in the report")
	}
}

func TestFormatHuman(t *testing.T) {
	t.Parallel()
	if got := FormatHuman(&Result{Valid: true}); got != "Configuration valid.\n" {
		t.Errorf("unexpected output %q", got)
	}

	r := &Result{
		Valid:    false,
		Errors:   []Issue{{Category: "receiver", Field: "receiver.hmac_secret", Message: "missing"}},
		Warnings: []Issue{{Category: "routing", Message: "hmm"}},
	}
	out := FormatHuman(r)
	if !strings.Contains(out, "Configuration invalid (1 error(s), 1 warning(s))") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "ERROR [receiver] receiver.hmac_secret: missing") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "WARN  [routing] hmm") {
		t.Errorf("missing warning line: %q", out)
	}
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()
	out, err := FormatJSON(&Result{Valid: true})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["valid"] != true {
		t.Errorf("valid = %v", decoded["valid"])
	}
}
