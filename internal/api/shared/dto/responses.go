package dto

import (
	"github.com/lilianna-roll/issuance/internal/domain"
)

// ContractResponse describes the issuance contract
type ContractResponse struct {
	ContractURI string `json:"contract_uri"`
	Admin       string `json:"admin"`
	Issuer      string `json:"issuer"`
	TotalSupply uint64 `json:"total_supply"`
}

// CollectionResponse represents a collection. Unconfigured collections
// report zero values with configured=false.
type CollectionResponse struct {
	ID         uint64 `json:"id"`
	Configured bool   `json:"configured"`
	Size       uint64 `json:"size"`
	SizeFixed  bool   `json:"size_fixed"`
	Offer      string `json:"offer"`
	OfferEther string `json:"offer_ether"`
	URIPolicy  string `json:"uri_policy"`
	BaseURI    string `json:"base_uri"`
	FixedURI   string `json:"fixed_uri"`
	Supply     uint64 `json:"supply"`
	Remaining  uint64 `json:"remaining"`
}

// MapCollectionToDTO maps a domain collection to its response
func MapCollectionToDTO(c domain.Collection, configured bool) *CollectionResponse {
	return &CollectionResponse{
		ID:         uint64(c.ID),
		Configured: configured,
		Size:       c.MaxSize,
		SizeFixed:  c.SizeFixed,
		Offer:      c.Price.String(),
		OfferEther: domain.FormatEther(c.Price),
		URIPolicy:  c.URIPolicy.Kind.String(),
		BaseURI:    c.URIPolicy.BaseURI(),
		FixedURI:   c.URIPolicy.FixedURI(),
		Supply:     c.Minted,
		Remaining:  c.Remaining(),
	}
}

// TokenResponse represents an issued token
type TokenResponse struct {
	ID           uint64 `json:"id"`
	CollectionID uint64 `json:"collection_id"`
	Index        uint64 `json:"index"`
	Owner        string `json:"owner"`
	URI          string `json:"uri"`
}

// MapTokenToDTO maps a domain token and its resolved URI to a response
func MapTokenToDTO(t domain.Token, uri string) *TokenResponse {
	return &TokenResponse{
		ID:           uint64(t.ID),
		CollectionID: uint64(t.CollectionID),
		Index:        t.Index,
		Owner:        t.Owner.Hex(),
		URI:          uri,
	}
}

// MintResponse is returned by every mint path
type MintResponse struct {
	TokenID uint64 `json:"token_id"`
	Path    string `json:"path"`
}

// TreasuryResponse represents the treasury balance
type TreasuryResponse struct {
	Balance      string `json:"balance"`
	BalanceEther string `json:"balance_ether"`
}

// WithdrawResponse represents a completed withdrawal
type WithdrawResponse struct {
	Amount      string `json:"amount"`
	AmountEther string `json:"amount_ether"`
	Recipient   string `json:"recipient"`
}

// EventResponse represents a committed engine event
type EventResponse struct {
	Cursor   int64        `json:"cursor"`
	Event    domain.Event `json:"event"`
	Attempts int          `json:"delivery_attempts"`
}

// EventListResponse represents a page of events
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	NextCursor int64           `json:"next_cursor"`
}
