package store

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilianna-roll/issuance/internal/domain"
)

var (
	testOwner = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testAdmin = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestCollection creates a configured collection
func buildTestCollection(id domain.CollectionID, size uint64, priceWei int64, base string, minted uint64) *domain.Collection {
	return &domain.Collection{
		ID:        id,
		MaxSize:   size,
		SizeFixed: true,
		Price:     big.NewInt(priceWei),
		URIPolicy: domain.SequentialURI(base),
		Minted:    minted,
	}
}

// buildTestEvent creates a valid event of the given type
func buildTestEvent(eventType domain.EventType) domain.Event {
	event := domain.Event{
		EventID:   ulid.Make().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
	switch eventType {
	case domain.EventTypeCollectionConfigured:
		event.CollectionID = 1
	case domain.EventTypeTokenIssued:
		index := uint64(0)
		event.CollectionID = 1
		event.TokenID = 1
		event.Index = &index
		event.Path = domain.MintPathAdmin
		event.Recipient = testOwner.Hex()
	case domain.EventTypeTreasuryWithdrawn:
		event.Recipient = testAdmin.Hex()
		event.Amount = "1000"
	}
	return event
}

// buildTestMintBatch creates the batch produced by issuing token tokenID as the
// minted-th token of collection c
func buildTestMintBatch(c *domain.Collection, tokenID domain.TokenID, path domain.MintPath) *domain.Batch {
	index := c.Minted
	updated := c.Clone()
	updated.Minted++

	event := buildTestEvent(domain.EventTypeTokenIssued)
	event.CollectionID = c.ID
	event.TokenID = tokenID
	event.Index = &index
	event.Path = path
	event.URI = c.URIPolicy.Resolve(index)

	return &domain.Batch{
		Collections: []*domain.Collection{updated},
		Token: &domain.Token{
			ID:           tokenID,
			CollectionID: c.ID,
			Owner:        testOwner,
			Index:        index,
		},
		Events: []domain.Event{event},
	}
}

// =============================================================================
// Test: Commit
// =============================================================================

func testCommit(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("collection configuration is upserted", func(t *testing.T) {
		c := buildTestCollection(1, 5, 50, "ipfs://base/", 0)
		require.NoError(t, store.Commit(ctx, &domain.Batch{
			Collections: []*domain.Collection{c},
			Events:      []domain.Event{buildTestEvent(domain.EventTypeCollectionConfigured)},
		}, nil))

		updated := c.Clone()
		updated.Price = big.NewInt(75)
		updated.URIPolicy = domain.FixedURI("ipfs://fixed.json")
		require.NoError(t, store.Commit(ctx, &domain.Batch{
			Collections: []*domain.Collection{updated},
			Events:      []domain.Event{buildTestEvent(domain.EventTypeCollectionConfigured)},
		}, nil))

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, state.Collections, 1)
		got := state.Collections[0]
		assert.Equal(t, domain.CollectionID(1), got.ID)
		assert.Equal(t, uint64(5), got.MaxSize)
		assert.True(t, got.SizeFixed)
		assert.Equal(t, "75", got.Price.String())
		assert.Equal(t, domain.FixedURI("ipfs://fixed.json"), got.URIPolicy)
	})

	t.Run("token issue writes token, collection count and event", func(t *testing.T) {
		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, state.Collections, 1)

		batch := buildTestMintBatch(state.Collections[0], 1, domain.MintPathAdmin)
		require.NoError(t, store.Commit(ctx, batch, nil))

		state, err = store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, state.Tokens, 1)
		assert.Equal(t, domain.Token{ID: 1, CollectionID: 1, Owner: testOwner, Index: 0}, state.Tokens[0])
		assert.Equal(t, uint64(1), state.Collections[0].Minted)
	})

	t.Run("treasury balance is upserted", func(t *testing.T) {
		balance, ok := new(big.Int).SetString("50000000000000000", 10)
		require.True(t, ok)
		require.NoError(t, store.Commit(ctx, &domain.Batch{TreasuryBalance: balance}, nil))

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, balance.String(), state.TreasuryBalance.String())

		require.NoError(t, store.Commit(ctx, &domain.Batch{TreasuryBalance: big.NewInt(0)}, nil))
		state, err = store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), state.TreasuryBalance.Int64())
	})

	t.Run("balances beyond int64 round trip", func(t *testing.T) {
		require.NoError(t, store.Commit(ctx, &domain.Batch{TreasuryBalance: domain.MaxUint256}, nil))

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxUint256.String(), state.TreasuryBalance.String())
	})

	t.Run("duplicate token id is rejected", func(t *testing.T) {
		c := buildTestCollection(1, 5, 50, "ipfs://base/", 1)
		batch := buildTestMintBatch(c, 1, domain.MintPathAdmin)
		err := store.Commit(ctx, batch, nil)
		require.Error(t, err)
	})

	t.Run("invalid events are rejected before writing", func(t *testing.T) {
		c := buildTestCollection(9, 1, 0, "", 0)
		err := store.Commit(ctx, &domain.Batch{
			Collections: []*domain.Collection{c},
			Events:      []domain.Event{{EventType: domain.EventTypeCollectionConfigured}},
		}, nil)
		require.Error(t, err)

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		for _, got := range state.Collections {
			assert.NotEqual(t, domain.CollectionID(9), got.ID)
		}
	})

	t.Run("nil batch", func(t *testing.T) {
		require.Error(t, store.Commit(ctx, nil, nil))
	})
}

// =============================================================================
// Test: Commit with effects
// =============================================================================

func testCommitEffect(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, &domain.Batch{TreasuryBalance: big.NewInt(1000)}, nil))

	t.Run("failed effect rolls the batch back", func(t *testing.T) {
		event := buildTestEvent(domain.EventTypeTreasuryWithdrawn)
		batch := &domain.Batch{
			TreasuryBalance: big.NewInt(0),
			Events:          []domain.Event{event},
		}
		effectErr := errors.New("rpc unavailable")
		err := store.Commit(ctx, batch, func(ctx context.Context) error {
			return effectErr
		})
		require.ErrorIs(t, err, effectErr)

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), state.TreasuryBalance.Int64())

		events, err := store.GetEvents(ctx, EventQueryFilter{EventTypes: []domain.EventType{domain.EventTypeTreasuryWithdrawn}})
		require.NoError(t, err)
		for _, e := range events {
			assert.NotEqual(t, event.EventID, e.Event.EventID)
		}
	})

	t.Run("effect changes to events are persisted", func(t *testing.T) {
		batch := &domain.Batch{
			TreasuryBalance: big.NewInt(0),
			Events:          []domain.Event{buildTestEvent(domain.EventTypeTreasuryWithdrawn)},
		}
		called := false
		err := store.Commit(ctx, batch, func(ctx context.Context) error {
			called = true
			batch.Events[0].Reference = "0xabc123"
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)

		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), state.TreasuryBalance.Int64())

		events, err := store.GetEvents(ctx, EventQueryFilter{EventTypes: []domain.EventType{domain.EventTypeTreasuryWithdrawn}})
		require.NoError(t, err)
		require.NotEmpty(t, events)
		last := events[len(events)-1].Event
		assert.Equal(t, batch.Events[0].EventID, last.EventID)
		assert.Equal(t, "0xabc123", last.Reference)
	})
}

// =============================================================================
// Test: LoadState
// =============================================================================

func testLoadState(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Empty(t, state.Collections)
		assert.Empty(t, state.Tokens)
		assert.Empty(t, state.RedeemedVouchers)
		assert.Equal(t, int64(0), state.TreasuryBalance.Int64())
		assert.Equal(t, "", state.ContractURI)
	})

	t.Run("full state", func(t *testing.T) {
		c1 := buildTestCollection(1, 2, 0, "ipfs://one/", 0)
		c2 := buildTestCollection(2, 3, 100, "ipfs://two/", 0)
		require.NoError(t, store.Commit(ctx, &domain.Batch{Collections: []*domain.Collection{c1, c2}}, nil))

		require.NoError(t, store.Commit(ctx, buildTestMintBatch(c1, 1, domain.MintPathAdmin), nil))
		c1.Minted++

		buy := buildTestMintBatch(c2, 2, domain.MintPathBuy)
		buy.TreasuryBalance = big.NewInt(100)
		require.NoError(t, store.Commit(ctx, buy, nil))
		c2.Minted++

		digest := common.HexToHash("0x01")
		authorize := buildTestMintBatch(c1, 3, domain.MintPathAuthorize)
		authorize.RedeemedVoucher = &digest
		require.NoError(t, store.Commit(ctx, authorize, nil))

		uri := "ipfs://contract.json"
		require.NoError(t, store.Commit(ctx, &domain.Batch{
			ContractURI: &uri,
			Events:      []domain.Event{buildTestEvent(domain.EventTypeContractURIUpdated)},
		}, nil))

		state, err := store.LoadState(ctx)
		require.NoError(t, err)

		require.Len(t, state.Collections, 2)
		assert.Equal(t, domain.CollectionID(1), state.Collections[0].ID)
		assert.Equal(t, uint64(2), state.Collections[0].Minted)
		assert.Equal(t, domain.CollectionID(2), state.Collections[1].ID)
		assert.Equal(t, uint64(1), state.Collections[1].Minted)

		require.Len(t, state.Tokens, 3)
		for i, token := range state.Tokens {
			assert.Equal(t, domain.TokenID(i+1), token.ID)
		}
		assert.Equal(t, domain.CollectionID(2), state.Tokens[1].CollectionID)
		assert.Equal(t, uint64(1), state.Tokens[2].Index)

		assert.Equal(t, []common.Hash{digest}, state.RedeemedVouchers)
		assert.Equal(t, int64(100), state.TreasuryBalance.Int64())
		assert.Equal(t, uri, state.ContractURI)
	})

	t.Run("redeemed voucher cannot be recorded twice", func(t *testing.T) {
		state, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, state.RedeemedVouchers, 1)

		c := state.Collections[1]
		batch := buildTestMintBatch(c, 4, domain.MintPathAuthorize)
		batch.RedeemedVoucher = &state.RedeemedVouchers[0]
		require.Error(t, store.Commit(ctx, batch, nil))

		state, err = store.LoadState(ctx)
		require.NoError(t, err)
		assert.Len(t, state.Tokens, 3)
	})
}

// =============================================================================
// Test: Outbox
// =============================================================================

func testOutbox(t *testing.T, store Store) {
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		event := buildTestEvent(domain.EventTypeCollectionConfigured)
		ids = append(ids, event.EventID)
		require.NoError(t, store.Commit(ctx, &domain.Batch{Events: []domain.Event{event}}, nil))
	}

	t.Run("unpublished events in commit order", func(t *testing.T) {
		events, err := store.GetUnpublishedEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		for i, e := range events {
			assert.Equal(t, ids[i], e.Event.EventID)
			assert.Equal(t, domain.EventTypeCollectionConfigured, e.Event.EventType)
			if i > 0 {
				assert.Greater(t, e.Cursor, events[i-1].Cursor)
			}
		}

		limited, err := store.GetUnpublishedEvents(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("failures are counted and exhausted events skipped", func(t *testing.T) {
		events, err := store.GetUnpublishedEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)

		first := events[0].Cursor
		require.NoError(t, store.RecordEventFailure(ctx, first, "nats: timeout"))
		require.NoError(t, store.RecordEventFailure(ctx, first, "nats: timeout"))

		events, err = store.GetUnpublishedEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, 2, events[0].Attempts)

		events, err = store.GetUnpublishedEvents(ctx, 10, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, ids[1], events[0].Event.EventID)
	})

	t.Run("published events are no longer returned", func(t *testing.T) {
		events, err := store.GetUnpublishedEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)

		require.NoError(t, store.MarkEventsPublished(ctx, []int64{events[1].Cursor, events[2].Cursor}, time.Now()))
		require.NoError(t, store.MarkEventsPublished(ctx, nil, time.Now()))

		remaining, err := store.GetUnpublishedEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, ids[0], remaining[0].Event.EventID)
	})

	t.Run("events are listed by cursor and type", func(t *testing.T) {
		all, err := store.GetEvents(ctx, EventQueryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)

		after, err := store.GetEvents(ctx, EventQueryFilter{Since: all[0].Cursor, Limit: 1})
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, ids[1], after[0].Event.EventID)

		none, err := store.GetEvents(ctx, EventQueryFilter{EventTypes: []domain.EventType{domain.EventTypeTokenIssued}})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

// =============================================================================
// Test: KeyValueStore
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, err := store.GetKeyValue(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("set and overwrite", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, KeyContractURI, "ipfs://a"))
		require.NoError(t, store.SetKeyValue(ctx, KeyContractURI, "ipfs://b"))

		value, err := store.GetKeyValue(ctx, KeyContractURI)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://b", value)
	})
}

func testPing(t *testing.T, store Store) {
	require.NoError(t, store.Ping(context.Background()))
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 5, idle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(4, 10, time.Minute, time.Minute)
	assert.Equal(t, 4, open)
	assert.Equal(t, 4, idle)
}

// RunStoreTests runs all store tests against the given implementation
func RunStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Commit", testCommit},
		{"CommitEffect", testCommitEffect},
		{"LoadState", testLoadState},
		{"Outbox", testOutbox},
		{"KeyValueStore", testKeyValueStore},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}
