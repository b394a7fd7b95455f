package webhook

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestLogSink_LogsFullPayload(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	p, err := ParsePayload([]byte(`{"address":"1MFZ","amount":"-0.00051","subscriptionId":"sub-9"}`))
	require.NoError(t, err)

	sink.Accept(context.Background(), Delivery{ID: "d-1", Fingerprint: "fp", Payload: p})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1, "no nested data means a single line")
	assert.Equal(t, "webhook payload received", lines[0]["msg"])
	assert.Equal(t, "d-1", lines[0]["delivery_id"])
	assert.Equal(t, "sub-9", lines[0]["subscription_id"])

	payload, ok := lines[0]["payload"].(map[string]any)
	require.True(t, ok, "payload should be logged as an object")
	assert.Equal(t, "1MFZ", payload["address"])
	assert.Equal(t, "-0.00051", payload["amount"])
}

func TestLogSink_LogsNestedEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	p, err := ParsePayload([]byte(`{"type":"native","data":{"txId":"tx-7","address":"1MFZ","amount":"1.5","chain":"BTC"}}`))
	require.NoError(t, err)

	sink.Accept(context.Background(), Delivery{ID: "d-2", Payload: p})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	ev := lines[1]
	assert.Equal(t, "webhook event", ev["msg"])
	assert.Equal(t, "tx-7", ev["tx_id"])
	assert.Equal(t, "1MFZ", ev["address"])
	assert.Equal(t, "1.5", ev["amount"])
	assert.Equal(t, "BTC", ev["chain"])
	assert.Equal(t, "d-2", ev["delivery_id"])
}
