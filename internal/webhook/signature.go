package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
)

// Signer produces signed webhook payloads
type Signer struct {
	json adapter.JSON
	jcs  adapter.JCS
}

// NewSigner creates a signer
func NewSigner(jsonAdapter adapter.JSON, jcsAdapter adapter.JCS) *Signer {
	return &Signer{json: jsonAdapter, jcs: jcsAdapter}
}

// GenerateSignedPayload generates a signed webhook payload with HMAC-SHA256 signature.
// The payload is the RFC 8785 canonical JSON of the event so receivers can re-derive
// the exact signed bytes. Returns the payload and the signature header value.
func (s *Signer) GenerateSignedPayload(secret string, event *domain.Event, timestamp int64) (payload []byte, signature string, err error) {
	payload, err = adapter.CanonicalJSON(s.json, s.jcs, event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode event: %w", err)
	}

	return payload, Sign(secret, timestamp, event.EventID, payload), nil
}

// Sign computes the signature header value over {timestamp}.{event_id}.{body}
func Sign(secret string, timestamp int64, eventID string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(h, "%d.%s.", timestamp, eventID)
	h.Write(body)

	// Format: "sha256=<hex_signature>"
	return SignaturePrefix + hex.EncodeToString(h.Sum(nil))
}

// Verify checks a signature header value in constant time
func Verify(secret string, timestamp int64, eventID string, body []byte, signature string) bool {
	if !strings.HasPrefix(signature, SignaturePrefix) {
		return false
	}
	expected := Sign(secret, timestamp, eventID, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
