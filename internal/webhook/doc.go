// Package webhook implements the blockchain-event webhook receiver with
// HMAC-SHA512 verification.
//
// The provider signs every delivery with a pre-shared secret and sends the
// Base64-encoded HMAC-SHA512 of the raw request body in the x-payload-hash
// header. The receiver recomputes the digest over the exact bytes it read and
// only then decodes the JSON.
//
// # Security Model
//
// - Digest computed over raw bytes, never over re-serialized JSON
// - Signatures compared with crypto/subtle (constant-time comparison)
// - Body size limits enforced before hashing
// - Rejections log a BLAKE3 fingerprint of the body, never the body itself
// - Secret loaded once from TATUM_HMAC_SECRET and injected at construction
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path (default /webhook)
//  2. Signature header extracted (reject with 401 "Missing signature")
//  3. Body read in full up to max_body_size (reject with 413 if larger)
//  4. HMAC-SHA512 computed and compared (reject with 401 "Invalid signature")
//  5. Body decoded as a JSON object (reject with 400 "Malformed payload")
//  6. Delivery handed to the Sink, 200 {"success":true} returned
//
// Requests share no mutable state; each is verified independently.
//
// # Example Usage
//
//	srv := webhook.New(webhook.Config{
//		Listen: "0.0.0.0:8787",
//		Path:   "/webhook",
//		Secret: os.Getenv("TATUM_HMAC_SECRET"),
//	}, webhook.NewLogSink(logger), logger)
//	if err := srv.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
package webhook
