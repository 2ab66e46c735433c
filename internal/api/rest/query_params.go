package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lilianna-roll/issuance/internal/api/shared/constants"
	"github.com/lilianna-roll/issuance/internal/domain"
)

var knownEventTypes = map[domain.EventType]bool{
	domain.EventTypeCollectionConfigured: true,
	domain.EventTypeTokenIssued:          true,
	domain.EventTypeTreasuryWithdrawn:    true,
	domain.EventTypeContractURIUpdated:   true,
}

// GetEventsQueryParams holds query parameters for GET /events
type GetEventsQueryParams struct {
	// Since is the last cursor seen by the client
	Since int64    `form:"since,default=0"`
	Types []string `form:"type"`
	Limit int      `form:"limit,default=50"`

	EventTypes []domain.EventType `form:"-"`
}

// ParseGetEventsQuery parses query parameters for GET /events
func ParseGetEventsQuery(c *gin.Context) (*GetEventsQueryParams, error) {
	var params GetEventsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Types may be repeated or comma separated
	for _, raw := range params.Types {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			params.EventTypes = append(params.EventTypes, domain.EventType(t))
		}
	}

	// Cap limits
	if params.Limit > constants.MAX_EVENTS_LIMIT {
		params.Limit = constants.MAX_EVENTS_LIMIT
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *GetEventsQueryParams) Validate() error {
	if p.Since < 0 {
		return fmt.Errorf("since must not be negative")
	}
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	for _, t := range p.EventTypes {
		if !knownEventTypes[t] {
			return fmt.Errorf("unknown event type: %s", t)
		}
	}
	return nil
}
