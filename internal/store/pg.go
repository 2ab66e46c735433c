package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/store/schema"
)

// KeyContractURI is the key-value entry holding the contract-level metadata URI
const KeyContractURI = "contract_uri"

// defaultEventsLimit applies when a query does not set a limit
const defaultEventsLimit = 100

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Commit persists a mutation batch in one transaction
func (s *pgStore) Commit(ctx context.Context, batch *domain.Batch, effect func(ctx context.Context) error) error {
	if batch == nil {
		return fmt.Errorf("batch is required")
	}
	for i := range batch.Events {
		if !batch.Events[i].Valid() {
			return fmt.Errorf("invalid event %q of type %q", batch.Events[i].EventID, batch.Events[i].EventType)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Upsert the touched collections
		for _, c := range batch.Collections {
			row := collectionToSchema(c)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"max_size", "size_fixed", "price", "uri_kind", "uri", "minted", "updated_at",
				}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert collection %d: %w", c.ID, err)
			}
		}

		// 2. Insert the issued token; ids are allocated by the engine so a conflict is a bug
		if batch.Token != nil {
			row := schema.Token{
				ID:              uint64(batch.Token.ID),
				CollectionID:    uint64(batch.Token.CollectionID),
				CollectionIndex: batch.Token.Index,
				Owner:           batch.Token.Owner.Hex(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create token %d: %w", batch.Token.ID, err)
			}
		}

		// 3. Record the consumed voucher
		if batch.RedeemedVoucher != nil {
			row := schema.RedeemedVoucher{
				Digest: batch.RedeemedVoucher.Hex(),
			}
			if batch.Token != nil {
				row.CollectionID = uint64(batch.Token.CollectionID)
				row.Recipient = batch.Token.Owner.Hex()
				row.TokenID = uint64(batch.Token.ID)
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to record redeemed voucher: %w", err)
			}
		}

		// 4. Upsert the treasury balance
		if batch.TreasuryBalance != nil {
			row := schema.Treasury{
				ID:      schema.TreasuryRowID,
				Balance: batch.TreasuryBalance.String(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to update treasury: %w", err)
			}
		}

		// 5. Contract-level metadata URI
		if batch.ContractURI != nil {
			kv := schema.KeyValueStore{Key: KeyContractURI, Value: *batch.ContractURI}
			if err := tx.Save(&kv).Error; err != nil {
				return fmt.Errorf("failed to set contract uri: %w", err)
			}
		}

		// 6. External effect; it may fill in event fields such as the payout reference
		if effect != nil {
			if err := effect(ctx); err != nil {
				return err
			}
		}

		// 7. Append the events to the outbox
		for i := range batch.Events {
			payload, err := json.Marshal(batch.Events[i])
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			row := schema.EngineEvent{
				EventID:   batch.Events[i].EventID,
				EventType: string(batch.Events[i].EventType),
				Payload:   payload,
				CreatedAt: batch.Events[i].Timestamp,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create event %s: %w", batch.Events[i].EventID, err)
			}
		}

		return nil
	})
}

// LoadState reads the full engine state
func (s *pgStore) LoadState(ctx context.Context) (*domain.State, error) {
	db := s.db.WithContext(ctx)
	state := &domain.State{TreasuryBalance: new(big.Int)}

	var collections []schema.Collection
	if err := db.Order("id ASC").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	for i := range collections {
		c, err := collectionFromSchema(&collections[i])
		if err != nil {
			return nil, err
		}
		state.Collections = append(state.Collections, c)
	}

	var tokens []schema.Token
	if err := db.Order("id ASC").Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	state.Tokens = make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		state.Tokens = append(state.Tokens, domain.Token{
			ID:           domain.TokenID(t.ID),
			CollectionID: domain.CollectionID(t.CollectionID),
			Owner:        common.HexToAddress(t.Owner),
			Index:        t.CollectionIndex,
		})
	}

	var treasury schema.Treasury
	err := db.Where("id = ?", schema.TreasuryRowID).First(&treasury).Error
	switch {
	case err == nil:
		balance, err := domain.ParseWei(treasury.Balance)
		if err != nil {
			return nil, fmt.Errorf("failed to parse treasury balance: %w", err)
		}
		state.TreasuryBalance = balance
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load treasury: %w", err)
	}

	var vouchers []schema.RedeemedVoucher
	if err := db.Order("redeemed_at ASC").Find(&vouchers).Error; err != nil {
		return nil, fmt.Errorf("failed to load redeemed vouchers: %w", err)
	}
	for _, v := range vouchers {
		state.RedeemedVouchers = append(state.RedeemedVouchers, common.HexToHash(v.Digest))
	}

	contractURI, err := s.GetKeyValue(ctx, KeyContractURI)
	if err != nil {
		return nil, err
	}
	state.ContractURI = contractURI

	return state, nil
}

// GetUnpublishedEvents returns up to limit undelivered events in commit order
func (s *pgStore) GetUnpublishedEvents(ctx context.Context, limit int, maxAttempts int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = defaultEventsLimit
	}

	query := s.db.WithContext(ctx).Where("published_at IS NULL")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}

	var rows []schema.EngineEvent
	if err := query.Order(`"cursor" ASC`).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get unpublished events: %w", err)
	}

	return outboxEventsFromSchema(rows)
}

// MarkEventsPublished flags the events as delivered
func (s *pgStore) MarkEventsPublished(ctx context.Context, cursors []int64, publishedAt time.Time) error {
	if len(cursors) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Model(&schema.EngineEvent{}).
		Where(`"cursor" IN ?`, cursors).
		Update("published_at", publishedAt).Error
	if err != nil {
		return fmt.Errorf("failed to mark events published: %w", err)
	}

	return nil
}

// RecordEventFailure increments the attempt counter of an event and stores the error
func (s *pgStore) RecordEventFailure(ctx context.Context, cursor int64, message string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.EngineEvent{}).
		Where(`"cursor" = ?`, cursor).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record event failure: %w", err)
	}

	return nil
}

// GetEvents lists committed events by cursor
func (s *pgStore) GetEvents(ctx context.Context, filter EventQueryFilter) ([]OutboxEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventsLimit
	}

	query := s.db.WithContext(ctx).Where(`"cursor" > ?`, filter.Since)
	if len(filter.EventTypes) > 0 {
		types := make([]string, len(filter.EventTypes))
		for i, t := range filter.EventTypes {
			types[i] = string(t)
		}
		query = query.Where("event_type IN ?", types)
	}

	var rows []schema.EngineEvent
	if err := query.Order(`"cursor" ASC`).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return outboxEventsFromSchema(rows)
}

// SetKeyValue sets a key-value pair in the key-value store
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func collectionToSchema(c *domain.Collection) schema.Collection {
	price := "0"
	if c.Price != nil {
		price = c.Price.String()
	}
	return schema.Collection{
		ID:        uint64(c.ID),
		MaxSize:   c.MaxSize,
		SizeFixed: c.SizeFixed,
		Price:     price,
		URIKind:   schema.URIKind(c.URIPolicy.Kind.String()),
		URI:       c.URIPolicy.Value,
		Minted:    c.Minted,
	}
}

func collectionFromSchema(row *schema.Collection) (*domain.Collection, error) {
	price, err := domain.ParseWei(row.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price of collection %d: %w", row.ID, err)
	}
	kind, err := domain.ParseURIPolicyKind(string(row.URIKind))
	if err != nil {
		return nil, fmt.Errorf("collection %d: %w", row.ID, err)
	}
	return &domain.Collection{
		ID:        domain.CollectionID(row.ID),
		MaxSize:   row.MaxSize,
		SizeFixed: row.SizeFixed,
		Price:     price,
		URIPolicy: domain.URIPolicy{Kind: kind, Value: row.URI},
		Minted:    row.Minted,
	}, nil
}

func outboxEventsFromSchema(rows []schema.EngineEvent) ([]OutboxEvent, error) {
	events := make([]OutboxEvent, 0, len(rows))
	for _, row := range rows {
		var event domain.Event
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event %s: %w", row.EventID, err)
		}
		events = append(events, OutboxEvent{
			Cursor:   row.Cursor,
			Event:    event,
			Attempts: row.Attempts,
		})
	}
	return events, nil
}
