package engine

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/voucher"
)

// Journal persists the batch produced by an operation before it is applied.
// effect, when not nil, must run inside the same unit of work so that its
// failure discards the batch.
//
//go:generate mockgen -source=engine.go -destination=../mocks/engine.go -package=mocks -mock_names=Journal=MockJournal,Payout=MockPayout,Engine=MockEngine
type Journal interface {
	Commit(ctx context.Context, batch *domain.Batch, effect func(ctx context.Context) error) error
}

// Payout moves funds out of the treasury
type Payout interface {
	// Transfer sends amount to the recipient and returns a reference (e.g. a tx hash)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (string, error)
}

// Config holds the engine configuration
type Config struct {
	// Admin is the administrative principal
	Admin common.Address
	// ContractURI is the contract-level metadata URI used when no state is restored
	ContractURI string
	// State restores a previously persisted engine
	State *domain.State
	// PayoutTimeout bounds a withdrawal transfer; DefaultPayoutTimeout when zero
	PayoutTimeout time.Duration
}

// DefaultPayoutTimeout is used when Config.PayoutTimeout is not set
const DefaultPayoutTimeout = 30 * time.Second

// Engine is the collection issuance state machine. Every mutating operation
// is serialized and either fully commits or leaves the state untouched.
type Engine interface {
	// FixCollectionSize sets the capacity of a collection, once
	FixCollectionSize(ctx context.Context, caller common.Address, id domain.CollectionID, size uint64) error
	// MakeCollectionOffer sets the price of the paid mint paths
	MakeCollectionOffer(ctx context.Context, caller common.Address, id domain.CollectionID, price *big.Int) error
	// SetCollectionBaseURI switches the collection to Sequential(baseURI)
	SetCollectionBaseURI(ctx context.Context, caller common.Address, id domain.CollectionID, baseURI string) error
	// SetCollectionFixedURI switches the collection to Fixed(uri)
	SetCollectionFixedURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) error
	// MakeCollection registers size, offer and URI policy in one operation
	MakeCollection(ctx context.Context, caller common.Address, input MakeCollectionInput) error
	// SetContractURI updates the contract-level metadata URI
	SetContractURI(ctx context.Context, caller common.Address, uri string) error

	CollectionSize(id domain.CollectionID) uint64
	CollectionOffer(id domain.CollectionID) *big.Int
	CollectionBaseURI(id domain.CollectionID) string
	CollectionFixedURI(id domain.CollectionID) string
	CollectionSupply(id domain.CollectionID) uint64
	// Collection returns a copy of the collection record and whether it was ever configured
	Collection(id domain.CollectionID) (domain.Collection, bool)

	// Mint issues a token to recipient; administrative principal only
	Mint(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address) (domain.TokenID, error)
	// Buy issues a token to the caller against a payment equal to the offer
	Buy(ctx context.Context, caller common.Address, id domain.CollectionID, value *big.Int) (domain.TokenID, error)
	// BuyFor issues a token to recipient against a payment by the caller
	BuyFor(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address, value *big.Int) (domain.TokenID, error)
	// Authorize issues a token to the caller against an issuer voucher
	Authorize(ctx context.Context, caller common.Address, id domain.CollectionID, signature []byte) (domain.TokenID, error)
	// AuthorizeFor issues a token to recipient against an issuer voucher
	AuthorizeFor(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address, signature []byte) (domain.TokenID, error)

	TokenURI(id domain.TokenID) (string, error)
	OwnerOf(id domain.TokenID) (common.Address, error)
	Token(id domain.TokenID) (domain.Token, error)
	TotalSupply() uint64

	// Withdraw transfers the whole treasury balance to the administrative principal
	// and returns the amount moved
	Withdraw(ctx context.Context, caller common.Address) (*big.Int, error)
	TreasuryBalance() *big.Int

	Admin() common.Address
	Issuer() common.Address
	ContractURI() string
}

type engine struct {
	mu sync.RWMutex

	admin         common.Address
	contractURI   string
	payoutTimeout time.Duration

	collections map[domain.CollectionID]*domain.Collection
	// tokens[i] holds token id i+1
	tokens   []domain.Token
	treasury *big.Int
	redeemed map[common.Hash]struct{}

	journal  Journal
	payout   Payout
	verifier voucher.Verifier
	clock    adapter.Clock
	entropy  io.Reader
}

// New creates an engine. journal may be nil for a purely in-memory engine.
func New(cfg Config, journal Journal, payout Payout, verifier voucher.Verifier, clock adapter.Clock) (Engine, error) {
	if cfg.Admin == (common.Address{}) {
		return nil, fmt.Errorf("%w: admin address is required", domain.ErrInvalidAddress)
	}
	if verifier == nil {
		return nil, fmt.Errorf("voucher verifier is required")
	}
	if clock == nil {
		clock = adapter.NewClock()
	}
	payoutTimeout := cfg.PayoutTimeout
	if payoutTimeout <= 0 {
		payoutTimeout = DefaultPayoutTimeout
	}

	e := &engine{
		admin:         cfg.Admin,
		contractURI:   cfg.ContractURI,
		payoutTimeout: payoutTimeout,
		collections:   make(map[domain.CollectionID]*domain.Collection),
		treasury:      new(big.Int),
		redeemed:      make(map[common.Hash]struct{}),
		journal:       journal,
		payout:        payout,
		verifier:      verifier,
		clock:         clock,
		entropy:       ulid.Monotonic(rand.Reader, 0),
	}

	if cfg.State != nil {
		if err := e.restore(cfg.State); err != nil {
			return nil, fmt.Errorf("failed to restore state: %w", err)
		}
	}

	return e, nil
}

// restore loads a persisted state, checking the ledger invariants
func (e *engine) restore(state *domain.State) error {
	for _, c := range state.Collections {
		if c.ID == 0 {
			return domain.ErrInvalidCollectionID
		}
		if c.Minted > c.MaxSize {
			return fmt.Errorf("collection %d minted %d exceeds size %d", c.ID, c.Minted, c.MaxSize)
		}
		e.collections[c.ID] = c.Clone()
	}

	counts := make(map[domain.CollectionID]uint64)
	for i, t := range state.Tokens {
		if t.ID != domain.TokenID(i+1) {
			return fmt.Errorf("token ids are not contiguous at %d", t.ID)
		}
		c, ok := e.collections[t.CollectionID]
		if !ok {
			return fmt.Errorf("token %d references unknown collection %d", t.ID, t.CollectionID)
		}
		if t.Index >= c.Minted {
			return fmt.Errorf("token %d index %d out of range for collection %d", t.ID, t.Index, c.ID)
		}
		counts[t.CollectionID]++
	}
	for id, c := range e.collections {
		if counts[id] != c.Minted {
			return fmt.Errorf("collection %d minted %d but %d tokens recorded", id, c.Minted, counts[id])
		}
	}
	e.tokens = append(e.tokens, state.Tokens...)

	if state.TreasuryBalance != nil {
		if err := domain.ValidateAmount(state.TreasuryBalance); err != nil {
			return err
		}
		e.treasury.Set(state.TreasuryBalance)
	}
	for _, digest := range state.RedeemedVouchers {
		e.redeemed[digest] = struct{}{}
	}
	if state.ContractURI != "" {
		e.contractURI = state.ContractURI
	}

	return nil
}

// commit persists the batch. Without a journal only the effect runs.
func (e *engine) commit(ctx context.Context, batch *domain.Batch, effect func(ctx context.Context) error) error {
	if e.journal == nil {
		if effect != nil {
			return effect(ctx)
		}
		return nil
	}
	return e.journal.Commit(ctx, batch, effect)
}

func (e *engine) requireAdmin(caller common.Address) error {
	if caller != e.admin {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, caller.Hex())
	}
	return nil
}

func (e *engine) newEvent(eventType domain.EventType) domain.Event {
	now := e.clock.Now().UTC()
	return domain.Event{
		EventID:   ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		EventType: eventType,
		Timestamp: now,
	}
}

func (e *engine) Admin() common.Address {
	return e.admin
}

func (e *engine) Issuer() common.Address {
	return e.verifier.Issuer()
}

func (e *engine) ContractURI() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.contractURI
}

func (e *engine) SetContractURI(ctx context.Context, caller common.Address, uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	event := e.newEvent(domain.EventTypeContractURIUpdated)
	event.URI = uri
	batch := &domain.Batch{ContractURI: &uri, Events: []domain.Event{event}}
	if err := e.commit(ctx, batch, nil); err != nil {
		return err
	}

	e.contractURI = uri
	return nil
}
