package registrar

import "fmt"

// ProviderError is returned when the provider answers with a non-2xx status.
// Body is the response body, verbatim.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ProtocolError is returned when a 2xx response does not have the expected shape.
type ProtocolError struct {
	Reason string
	Body   string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected provider response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected provider response: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
