package executor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/api/shared/constants"
	"github.com/lilianna-roll/issuance/internal/api/shared/dto"
	apierrors "github.com/lilianna-roll/issuance/internal/api/shared/errors"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/engine"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/store"
)

// Executor holds the business logic behind the REST handlers. Errors are
// returned as *apierrors.APIError.
type Executor interface {
	// GetContract returns the contract-level information
	GetContract(ctx context.Context) *dto.ContractResponse
	// SetContractURI updates the contract-level metadata URI
	SetContractURI(ctx context.Context, caller common.Address, uri string) (*dto.ContractResponse, error)

	// GetCollection returns a collection, configured or not
	GetCollection(ctx context.Context, id domain.CollectionID) *dto.CollectionResponse
	// MakeCollection registers size, offer and URI policy in one operation
	MakeCollection(ctx context.Context, caller common.Address, input engine.MakeCollectionInput) (*dto.CollectionResponse, error)
	FixCollectionSize(ctx context.Context, caller common.Address, id domain.CollectionID, size uint64) (*dto.CollectionResponse, error)
	MakeCollectionOffer(ctx context.Context, caller common.Address, id domain.CollectionID, price *big.Int) (*dto.CollectionResponse, error)
	SetCollectionBaseURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) (*dto.CollectionResponse, error)
	SetCollectionFixedURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) (*dto.CollectionResponse, error)

	// Mint issues a token through the administrative path
	Mint(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address) (*dto.MintResponse, error)
	// Buy issues a token against payment, to the caller when recipient is nil
	Buy(ctx context.Context, caller common.Address, id domain.CollectionID, value *big.Int, recipient *common.Address) (*dto.MintResponse, error)
	// Authorize issues a token against a voucher, to the caller when recipient is nil
	Authorize(ctx context.Context, caller common.Address, id domain.CollectionID, signature []byte, recipient *common.Address) (*dto.MintResponse, error)

	// GetToken returns an issued token with its resolved URI
	GetToken(ctx context.Context, id domain.TokenID) (*dto.TokenResponse, error)

	// GetTreasury returns the treasury balance; administrative principal only
	GetTreasury(ctx context.Context, caller common.Address) (*dto.TreasuryResponse, error)
	// Withdraw moves the treasury balance to the administrative principal
	Withdraw(ctx context.Context, caller common.Address) (*dto.WithdrawResponse, error)

	// GetEvents lists committed events after the cursor
	GetEvents(ctx context.Context, since int64, eventTypes []domain.EventType, limit int) (*dto.EventListResponse, error)

	// Ping checks the backing store
	Ping(ctx context.Context) error
}

type executor struct {
	engine  engine.Engine
	store   store.Store
	metrics *metrics.Metrics
}

// NewExecutor creates an executor. store may be nil for an in-memory engine;
// event listing is then unavailable.
func NewExecutor(eng engine.Engine, st store.Store, m *metrics.Metrics) Executor {
	return &executor{engine: eng, store: st, metrics: m}
}

// observe records the operation outcome and converts err to an APIError
func (e *executor) observe(ctx context.Context, operation string, err error) error {
	e.metrics.ObserveOperation(operation, err)
	if err == nil {
		return nil
	}

	apiErr := apierrors.FromDomainError(err)
	if apiErr.Status >= 500 {
		logger.ErrorCtx(ctx, err, zap.String("operation", operation))
	} else {
		logger.DebugCtx(ctx, "Operation rejected", zap.String("operation", operation), zap.Error(err))
	}
	return apiErr
}

func (e *executor) GetContract(ctx context.Context) *dto.ContractResponse {
	return &dto.ContractResponse{
		ContractURI: e.engine.ContractURI(),
		Admin:       e.engine.Admin().Hex(),
		Issuer:      e.engine.Issuer().Hex(),
		TotalSupply: e.engine.TotalSupply(),
	}
}

func (e *executor) SetContractURI(ctx context.Context, caller common.Address, uri string) (*dto.ContractResponse, error) {
	if err := e.observe(ctx, "set_contract_uri", e.engine.SetContractURI(ctx, caller, uri)); err != nil {
		return nil, err
	}
	return e.GetContract(ctx), nil
}

func (e *executor) GetCollection(ctx context.Context, id domain.CollectionID) *dto.CollectionResponse {
	c, ok := e.engine.Collection(id)
	return dto.MapCollectionToDTO(c, ok)
}

// configured records a collection mutation outcome and returns the resulting collection
func (e *executor) configured(ctx context.Context, operation string, id domain.CollectionID, opErr error) (*dto.CollectionResponse, error) {
	if err := e.observe(ctx, operation, opErr); err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Collection configured",
		zap.String("operation", operation),
		zap.Uint64("collectionID", uint64(id)),
	)
	return e.GetCollection(ctx, id), nil
}

func (e *executor) MakeCollection(ctx context.Context, caller common.Address, input engine.MakeCollectionInput) (*dto.CollectionResponse, error) {
	return e.configured(ctx, "make_collection", input.ID, e.engine.MakeCollection(ctx, caller, input))
}

func (e *executor) FixCollectionSize(ctx context.Context, caller common.Address, id domain.CollectionID, size uint64) (*dto.CollectionResponse, error) {
	return e.configured(ctx, "fix_collection_size", id, e.engine.FixCollectionSize(ctx, caller, id, size))
}

func (e *executor) MakeCollectionOffer(ctx context.Context, caller common.Address, id domain.CollectionID, price *big.Int) (*dto.CollectionResponse, error) {
	return e.configured(ctx, "make_collection_offer", id, e.engine.MakeCollectionOffer(ctx, caller, id, price))
}

func (e *executor) SetCollectionBaseURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) (*dto.CollectionResponse, error) {
	return e.configured(ctx, "set_collection_base_uri", id, e.engine.SetCollectionBaseURI(ctx, caller, id, uri))
}

func (e *executor) SetCollectionFixedURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) (*dto.CollectionResponse, error) {
	return e.configured(ctx, "set_collection_fixed_uri", id, e.engine.SetCollectionFixedURI(ctx, caller, id, uri))
}

// issued records a mint outcome
func (e *executor) issued(ctx context.Context, path domain.MintPath, id domain.CollectionID, tokenID domain.TokenID, opErr error) (*dto.MintResponse, error) {
	if err := e.observe(ctx, string(path), opErr); err != nil {
		return nil, err
	}
	e.metrics.TokenIssued(string(path))
	logger.InfoCtx(ctx, "Token issued",
		zap.String("path", string(path)),
		zap.Uint64("collectionID", uint64(id)),
		zap.Uint64("tokenID", uint64(tokenID)),
	)
	return &dto.MintResponse{TokenID: uint64(tokenID), Path: string(path)}, nil
}

func (e *executor) Mint(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address) (*dto.MintResponse, error) {
	tokenID, err := e.engine.Mint(ctx, caller, id, recipient)
	return e.issued(ctx, domain.MintPathAdmin, id, tokenID, err)
}

func (e *executor) Buy(ctx context.Context, caller common.Address, id domain.CollectionID, value *big.Int, recipient *common.Address) (*dto.MintResponse, error) {
	if recipient == nil {
		tokenID, err := e.engine.Buy(ctx, caller, id, value)
		return e.issued(ctx, domain.MintPathBuy, id, tokenID, err)
	}
	tokenID, err := e.engine.BuyFor(ctx, caller, id, *recipient, value)
	return e.issued(ctx, domain.MintPathBuyFor, id, tokenID, err)
}

func (e *executor) Authorize(ctx context.Context, caller common.Address, id domain.CollectionID, signature []byte, recipient *common.Address) (*dto.MintResponse, error) {
	if recipient == nil {
		tokenID, err := e.engine.Authorize(ctx, caller, id, signature)
		return e.issued(ctx, domain.MintPathAuthorize, id, tokenID, err)
	}
	tokenID, err := e.engine.AuthorizeFor(ctx, caller, id, *recipient, signature)
	return e.issued(ctx, domain.MintPathAuthorizeFor, id, tokenID, err)
}

func (e *executor) GetToken(ctx context.Context, id domain.TokenID) (*dto.TokenResponse, error) {
	token, err := e.engine.Token(id)
	if err != nil {
		return nil, apierrors.FromDomainError(err)
	}
	uri, err := e.engine.TokenURI(id)
	if err != nil {
		return nil, apierrors.FromDomainError(err)
	}
	return dto.MapTokenToDTO(token, uri), nil
}

func (e *executor) GetTreasury(ctx context.Context, caller common.Address) (*dto.TreasuryResponse, error) {
	if caller != e.engine.Admin() {
		return nil, apierrors.FromDomainError(fmt.Errorf("%w: %s", domain.ErrUnauthorized, caller.Hex()))
	}
	balance := e.engine.TreasuryBalance()
	return &dto.TreasuryResponse{
		Balance:      balance.String(),
		BalanceEther: domain.FormatEther(balance),
	}, nil
}

func (e *executor) Withdraw(ctx context.Context, caller common.Address) (*dto.WithdrawResponse, error) {
	amount, opErr := e.engine.Withdraw(ctx, caller)
	if err := e.observe(ctx, "withdraw", opErr); err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		e.metrics.Withdrawn()
		logger.InfoCtx(ctx, "Treasury withdrawn", zap.String("amount", amount.String()))
	}
	return &dto.WithdrawResponse{
		Amount:      amount.String(),
		AmountEther: domain.FormatEther(amount),
		Recipient:   e.engine.Admin().Hex(),
	}, nil
}

func (e *executor) GetEvents(ctx context.Context, since int64, eventTypes []domain.EventType, limit int) (*dto.EventListResponse, error) {
	if e.store == nil {
		return nil, apierrors.NewServiceError("Event journal is not configured")
	}
	if limit <= 0 {
		limit = constants.DEFAULT_EVENTS_LIMIT
	}
	if limit > constants.MAX_EVENTS_LIMIT {
		limit = constants.MAX_EVENTS_LIMIT
	}

	events, err := e.store.GetEvents(ctx, store.EventQueryFilter{
		Since:      since,
		EventTypes: eventTypes,
		Limit:      limit,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get events: %v", err))
	}

	resp := &dto.EventListResponse{
		Events:     make([]dto.EventResponse, len(events)),
		NextCursor: since,
	}
	for i, ev := range events {
		resp.Events[i] = dto.EventResponse{Cursor: ev.Cursor, Event: ev.Event, Attempts: ev.Attempts}
		resp.NextCursor = ev.Cursor
	}
	return resp, nil
}

func (e *executor) Ping(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	return e.store.Ping(ctx)
}
