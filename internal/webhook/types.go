package webhook

// Delivery headers
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEventID   = "X-Webhook-Event-ID"
	HeaderEventType = "X-Webhook-Event-Type"
	HeaderTimestamp = "X-Webhook-Timestamp"

	userAgent = "Issuance-Webhook/1.0"
)

// SignaturePrefix is the algorithm prefix of the signature header value
const SignaturePrefix = "sha256="
