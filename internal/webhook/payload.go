package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Payload is the parsed form of a verified delivery.
//
// Only the fields the receiver logs are lifted into typed form. Fields keeps
// every key of the original object so the full payload can be logged.
type Payload struct {
	Address          string
	Amount           string // signed decimal, e.g. "-0.00051"
	Asset            string
	BlockNumber      int64
	TxID             string
	Type             string
	Chain            string
	CounterAddress   string
	SubscriptionType string
	SubscriptionID   string
	Timestamp        int64 // unix millis
	Mempool          bool

	// Data is the nested event body, when the provider sends one.
	Data *EventBody

	Fields map[string]any
}

// EventBody is the optional nested "data" object of a delivery.
type EventBody struct {
	TxID    string
	Address string
	Amount  string
	Chain   string
}

// PayloadFormatError reports a verified body that is not a JSON object.
type PayloadFormatError struct {
	Err error
}

func (e *PayloadFormatError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *PayloadFormatError) Unwrap() error {
	return e.Err
}

// ParsePayload decodes a verified body. It never re-encodes the input; callers
// must verify the raw bytes before calling it.
//
// Scalar fields are read leniently (a number where a string is expected is
// formatted, and vice versa) so a correctly signed delivery is not rejected
// over representation details. Only bodies that are not a single JSON object
// are errors.
func ParsePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Payload{}, &PayloadFormatError{Err: err}
	}
	if fields == nil {
		return Payload{}, &PayloadFormatError{Err: errors.New("body is not a JSON object")}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Payload{}, &PayloadFormatError{Err: errors.New("trailing data after JSON object")}
	}

	p := Payload{
		Address:          stringField(fields, "address"),
		Amount:           stringField(fields, "amount"),
		Asset:            stringField(fields, "asset"),
		BlockNumber:      intField(fields, "blockNumber"),
		TxID:             stringField(fields, "txId"),
		Type:             stringField(fields, "type"),
		Chain:            stringField(fields, "chain"),
		CounterAddress:   stringField(fields, "counterAddress"),
		SubscriptionType: stringField(fields, "subscriptionType"),
		SubscriptionID:   stringField(fields, "subscriptionId"),
		Timestamp:        intField(fields, "timestamp"),
		Mempool:          boolField(fields, "mempool"),
		Fields:           fields,
	}

	if data, ok := fields["data"].(map[string]any); ok {
		p.Data = &EventBody{
			TxID:    stringField(data, "txId"),
			Address: stringField(data, "address"),
			Amount:  stringField(data, "amount"),
			Chain:   stringField(data, "chain"),
		}
	}

	return p, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func intField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}
