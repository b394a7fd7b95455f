package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/chainhook/internal/config"
)

func validSubscription() Subscription {
	return Subscription{
		APIKey:      "test-api-key",
		Address:     "1MFZaddr",
		CallbackURL: "https://hooks.example.com/webhook",
		Chain:       "BTC",
	}
}

func TestRegister_Success(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/subscription", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NotContains(t, string(raw), "test-api-key", "api key must not be in the body")
		assert.JSONEq(t, `{"type":"ADDRESS_TRANSACTION","attr":{"chain":"BTC","address":"1MFZaddr","url":"https://hooks.example.com/webhook"}}`, string(raw))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer ts.Close()

	var out bytes.Buffer
	c := New(ts.URL+"/", ts.Client(), &out, nil)

	id, err := c.Register(context.Background(), validSubscription())
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Contains(t, out.String(), "1MFZaddr")
	assert.Contains(t, out.String(), "https://hooks.example.com/webhook")
	assert.Contains(t, out.String(), "abc123")
}

func TestRegister_DefaultChain(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SubscriptionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "BTC", req.Attr.Chain)
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer ts.Close()

	sub := validSubscription()
	sub.Chain = ""
	_, err := New(ts.URL, ts.Client(), nil, nil).Register(context.Background(), sub)
	require.NoError(t, err)
}

func TestRegister_ProviderError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"statusCode":403,"errorCode":"subscription.invalid","message":"forbidden"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, ts.Client(), nil, nil).Register(context.Background(), validSubscription())

	var perr *ProviderError
	require.True(t, errors.As(err, &perr), "want ProviderError, got %v", err)
	assert.Equal(t, http.StatusForbidden, perr.StatusCode)
	assert.Equal(t, `{"statusCode":403,"errorCode":"subscription.invalid","message":"forbidden"}`, perr.Body)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retry")
}

func TestRegister_ProtocolError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>ok</html>`},
		{"missing id", `{"subscriptionId":"abc"}`},
		{"empty id", `{"id":""}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := New(ts.URL, ts.Client(), nil, nil).Register(context.Background(), validSubscription())

			var perr *ProtocolError
			require.True(t, errors.As(err, &perr), "want ProtocolError, got %v", err)
			assert.Equal(t, tt.body, perr.Body)
		})
	}
}

func TestRegister_ConfigurationErrorBeforeIO(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	tests := []struct {
		name    string
		mutate  func(s *Subscription)
		setting string
	}{
		{"no api key", func(s *Subscription) { s.APIKey = "" }, config.EnvAPIKey},
		{"no address", func(s *Subscription) { s.Address = "" }, config.EnvAddress},
		{"no callback", func(s *Subscription) { s.CallbackURL = "" }, config.EnvWebhookURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubscription()
			tt.mutate(&sub)

			var out bytes.Buffer
			_, err := New(ts.URL, ts.Client(), &out, nil).Register(context.Background(), sub)

			var cerr *config.ConfigurationError
			require.True(t, errors.As(err, &cerr), "want ConfigurationError, got %v", err)
			assert.Equal(t, tt.setting, cerr.Setting)
			assert.Empty(t, out.String())
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRegister_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url, nil, nil, nil).Register(context.Background(), validSubscription())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription request failed")
}

func TestRegister_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"late"}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ts.URL, ts.Client(), nil, nil).Register(ctx, validSubscription())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider.APIKey = "k"
	cfg.Provider.Chain = "LTC"
	cfg.Subscription.Address = "a"
	cfg.Subscription.CallbackURL = "https://cb"

	assert.Equal(t, Subscription{APIKey: "k", Address: "a", CallbackURL: "https://cb", Chain: "LTC"}, FromConfig(cfg))
}
