package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

var (
	// ErrMissingSignature means the request carried no signature header.
	ErrMissingSignature = errors.New("missing signature")
	// ErrInvalidSignature means the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Sign returns the standard Base64 encoding of HMAC-SHA512(secret, body).
// This is the value the provider sends in the signature header.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against the exact bytes of body.
//
// The comparison runs over the encoded strings with crypto/subtle so the time
// taken does not depend on how many leading characters match. body must be
// the raw request body: re-serialized JSON changes the digest.
func Verify(body []byte, signature, secret string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	if secret == "" {
		return ErrInvalidSignature
	}

	expected := Sign(secret, body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrInvalidSignature
	}

	return nil
}
