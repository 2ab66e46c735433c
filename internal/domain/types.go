package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// CollectionID is the caller-assigned identifier of a collection
type CollectionID uint64

// ParseCollectionID parses a decimal collection id; zero is rejected
func ParseCollectionID(s string) (CollectionID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 || id > MAX_STORED_COUNT {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCollectionID, s)
	}
	return CollectionID(id), nil
}

// TokenID is the global token identifier, allocated from 1 across all collections
type TokenID uint64

// ParseTokenID parses a decimal token id
func ParseTokenID(s string) (TokenID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return TokenID(id), nil
}

// ParseAddress parses a hex encoded account address
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// URIPolicyKind tags the metadata URI resolution strategy of a collection
type URIPolicyKind uint8

const (
	URIPolicyUnset URIPolicyKind = iota
	URIPolicySequential
	URIPolicyFixed
)

func (k URIPolicyKind) String() string {
	switch k {
	case URIPolicySequential:
		return "sequential"
	case URIPolicyFixed:
		return "fixed"
	default:
		return "unset"
	}
}

// ParseURIPolicyKind is the inverse of URIPolicyKind.String
func ParseURIPolicyKind(s string) (URIPolicyKind, error) {
	switch s {
	case "", "unset":
		return URIPolicyUnset, nil
	case "sequential":
		return URIPolicySequential, nil
	case "fixed":
		return URIPolicyFixed, nil
	default:
		return URIPolicyUnset, fmt.Errorf("unknown uri policy %q", s)
	}
}

// URIPolicy is a closed variant: Sequential(base), Fixed(uri) or Unset
type URIPolicy struct {
	Kind  URIPolicyKind
	Value string
}

// SequentialURI returns a policy appending "<index>.json" to base
func SequentialURI(base string) URIPolicy {
	return URIPolicy{Kind: URIPolicySequential, Value: base}
}

// FixedURI returns a policy resolving every token to uri
func FixedURI(uri string) URIPolicy {
	return URIPolicy{Kind: URIPolicyFixed, Value: uri}
}

// Resolve returns the metadata URI of the token at index within its collection.
// Unset resolves to the empty string.
func (p URIPolicy) Resolve(index uint64) string {
	switch p.Kind {
	case URIPolicySequential:
		return p.Value + strconv.FormatUint(index, 10) + ".json"
	case URIPolicyFixed:
		return p.Value
	default:
		return ""
	}
}

// BaseURI returns the stored base for Sequential policies, otherwise ""
func (p URIPolicy) BaseURI() string {
	if p.Kind == URIPolicySequential {
		return p.Value
	}
	return ""
}

// FixedURI returns the stored URI for Fixed policies, otherwise ""
func (p URIPolicy) FixedURI() string {
	if p.Kind == URIPolicyFixed {
		return p.Value
	}
	return ""
}

// Collection is a capacity-bounded group of tokens sharing a price and URI policy
type Collection struct {
	ID CollectionID
	// MaxSize is the capacity; it can only be set once (SizeFixed)
	MaxSize   uint64
	SizeFixed bool
	// Price is the exact payment (wei) required by the paid mint paths
	Price     *big.Int
	URIPolicy URIPolicy
	// Minted counts successful mints; never decrements
	Minted uint64
}

// NewCollection returns an unconfigured collection record
func NewCollection(id CollectionID) *Collection {
	return &Collection{ID: id, Price: new(big.Int)}
}

// Clone returns a deep copy safe to mutate
func (c *Collection) Clone() *Collection {
	cp := *c
	cp.Price = new(big.Int)
	if c.Price != nil {
		cp.Price.Set(c.Price)
	}
	return &cp
}

// Filled reports whether no further token can be issued
func (c *Collection) Filled() bool {
	return c.Minted >= c.MaxSize
}

// Remaining returns how many tokens can still be issued
func (c *Collection) Remaining() uint64 {
	if c.Filled() {
		return 0
	}
	return c.MaxSize - c.Minted
}

// Token is an issued token record
type Token struct {
	ID           TokenID
	CollectionID CollectionID
	Owner        common.Address
	// Index is the 0-based position of the token within its collection
	Index uint64
}

// MintPath identifies which policy issued a token
type MintPath string

const (
	MintPathAdmin        MintPath = "admin"
	MintPathBuy          MintPath = "buy"
	MintPathBuyFor       MintPath = "buy_for"
	MintPathAuthorize    MintPath = "authorize"
	MintPathAuthorizeFor MintPath = "authorize_for"
)

// EventType represents the type of a committed engine mutation
type EventType string

const (
	EventTypeCollectionConfigured EventType = "collection.configured"
	EventTypeTokenIssued          EventType = "token.issued"
	EventTypeTreasuryWithdrawn    EventType = "treasury.withdrawn"
	EventTypeContractURIUpdated   EventType = "contract.uri_updated"
)

// Event is the normalized record of a committed mutation.
// This is the format stored in the outbox and published to NATS.
type Event struct {
	EventID      string       `json:"event_id"`             // ULID
	EventType    EventType    `json:"event_type"`           // collection.configured, token.issued, ...
	Timestamp    time.Time    `json:"timestamp"`            // commit time
	CollectionID CollectionID `json:"collection_id,omitempty"`
	TokenID      TokenID      `json:"token_id,omitempty"`
	Index        *uint64      `json:"index,omitempty"`     // position within collection (token.issued)
	Path         MintPath     `json:"path,omitempty"`      // mint policy (token.issued)
	Recipient    string       `json:"recipient,omitempty"` // token owner or withdrawal recipient
	Payer        string       `json:"payer,omitempty"`     // caller of paid/authorized paths
	Amount       string       `json:"amount,omitempty"`    // wei, decimal string
	URI          string       `json:"uri,omitempty"`       // resolved token URI or configured URI
	Reference    string       `json:"reference,omitempty"` // payout reference (tx hash)
}

// Valid checks the fields required by the event type
func (e *Event) Valid() bool {
	if e.EventID == "" || e.Timestamp.IsZero() {
		return false
	}

	switch e.EventType {
	case EventTypeCollectionConfigured:
		return e.CollectionID != 0
	case EventTypeTokenIssued:
		return e.CollectionID != 0 && e.TokenID != 0 && e.Index != nil && e.Recipient != "" && e.Path != ""
	case EventTypeTreasuryWithdrawn:
		return e.Recipient != "" && e.Amount != ""
	case EventTypeContractURIUpdated:
		return true
	default:
		return false
	}
}

// Batch is the complete set of changes produced by one engine operation.
// It is persisted atomically before the engine applies it in memory.
type Batch struct {
	// Collections are full records to upsert
	Collections []*Collection
	// Token is the newly issued token, if any
	Token *Token
	// TreasuryBalance is the new balance; nil leaves it unchanged
	TreasuryBalance *big.Int
	// RedeemedVoucher is the digest of a consumed voucher, if any
	RedeemedVoucher *common.Hash
	// ContractURI is the new contract-level metadata URI; nil leaves it unchanged
	ContractURI *string
	Events      []Event
}

// State is the full engine state, used to rebuild the engine from durable storage
type State struct {
	Collections      []*Collection
	Tokens           []Token // ordered by ID, contiguous from 1
	TreasuryBalance  *big.Int
	RedeemedVouchers []common.Hash
	ContractURI      string
}
