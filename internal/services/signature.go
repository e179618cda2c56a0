package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks gateway callback signatures. The gateway signs
// "orderId|paymentId" with a shared secret using HMAC-SHA256 and sends the
// hex digest alongside the callback.
type SignatureVerifier struct {
	secret string
}

// NewSignatureVerifier creates a verifier bound to the shared secret
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

// Configured reports whether a secret is present. Verifying without one is a
// deployment fault, never a client error.
func (v *SignatureVerifier) Configured() bool {
	return v.secret != ""
}

// Expected computes the hex HMAC-SHA256 digest of "orderId|paymentId".
func (v *SignatureVerifier) Expected(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares the presented signature in constant time.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	expected := v.Expected(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
