package constants

const (
	DEFAULT_EVENTS_LIMIT = 50
	MAX_EVENTS_LIMIT     = 500
	SERVICE_NAME         = "issuance-api"
)
