package executor_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilianna-roll/issuance/internal/api/shared/constants"
	apierrors "github.com/lilianna-roll/issuance/internal/api/shared/errors"
	"github.com/lilianna-roll/issuance/internal/api/shared/executor"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/mocks"
	"github.com/lilianna-roll/issuance/internal/store"
)

var (
	admin = common.HexToAddress("0x1000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x2000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

type testExecutor struct {
	exec   executor.Executor
	engine *mocks.MockEngine
	store  *mocks.MockStore
}

func setupTestExecutor(t *testing.T) *testExecutor {
	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	st := mocks.NewMockStore(ctrl)

	return &testExecutor{
		exec:   executor.NewExecutor(eng, st, metrics.New(prometheus.NewRegistry())),
		engine: eng,
		store:  st,
	}
}

func requireAPIError(t *testing.T, err error, status int, code apierrors.ErrorCode) {
	t.Helper()
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	assert.Equal(t, status, apiErr.Status)
	assert.Equal(t, code, apiErr.Code)
}

func TestExecutor_Buy_RoutesByRecipient(t *testing.T) {
	te := setupTestExecutor(t)
	ctx := context.Background()
	value := big.NewInt(100)

	te.engine.EXPECT().Buy(ctx, alice, domain.CollectionID(1), value).Return(domain.TokenID(1), nil)
	te.engine.EXPECT().BuyFor(ctx, alice, domain.CollectionID(1), bob, value).Return(domain.TokenID(2), nil)

	resp, err := te.exec.Buy(ctx, alice, 1, value, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.TokenID)
	assert.Equal(t, string(domain.MintPathBuy), resp.Path)

	resp, err = te.exec.Buy(ctx, alice, 1, value, &bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp.TokenID)
	assert.Equal(t, string(domain.MintPathBuyFor), resp.Path)
}

func TestExecutor_Authorize_RoutesByRecipient(t *testing.T) {
	te := setupTestExecutor(t)
	ctx := context.Background()
	sig := []byte{1, 2, 3}

	te.engine.EXPECT().Authorize(ctx, alice, domain.CollectionID(3), sig).Return(domain.TokenID(4), nil)
	te.engine.EXPECT().AuthorizeFor(ctx, alice, domain.CollectionID(3), bob, sig).Return(domain.TokenID(5), nil)

	resp, err := te.exec.Authorize(ctx, alice, 3, sig, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.MintPathAuthorize), resp.Path)

	resp, err = te.exec.Authorize(ctx, alice, 3, sig, &bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), resp.TokenID)
	assert.Equal(t, string(domain.MintPathAuthorizeFor), resp.Path)
}

func TestExecutor_Mint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   apierrors.ErrorCode
	}{
		{"filled", fmt.Errorf("%w: collection 1", domain.ErrCollectionFilled), http.StatusConflict, apierrors.ErrCodeCollectionFilled},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, apierrors.ErrCodeForbidden},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := setupTestExecutor(t)
			te.engine.EXPECT().Mint(gomock.Any(), admin, domain.CollectionID(1), alice).Return(domain.TokenID(0), tt.err)

			resp, err := te.exec.Mint(context.Background(), admin, 1, alice)
			assert.Nil(t, resp)
			requireAPIError(t, err, tt.status, tt.code)
		})
	}
}

func TestExecutor_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	reg := prometheus.NewRegistry()
	exec := executor.NewExecutor(eng, nil, metrics.New(reg))
	ctx := context.Background()

	eng.EXPECT().Mint(ctx, admin, domain.CollectionID(1), alice).Return(domain.TokenID(1), nil)
	eng.EXPECT().Mint(ctx, admin, domain.CollectionID(1), alice).Return(domain.TokenID(0), domain.ErrCollectionFilled)

	_, err := exec.Mint(ctx, admin, 1, alice)
	require.NoError(t, err)
	_, err = exec.Mint(ctx, admin, 1, alice)
	require.Error(t, err)

	// ok and error series for the admin path, one issued token
	count, err := testutil.GatherAndCount(reg, "issuance_engine_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "issuance_engine_tokens_issued_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExecutor_MakeCollection_ReturnsCollection(t *testing.T) {
	te := setupTestExecutor(t)
	ctx := context.Background()

	te.engine.EXPECT().FixCollectionSize(ctx, admin, domain.CollectionID(2), uint64(10)).Return(nil)
	te.engine.EXPECT().Collection(domain.CollectionID(2)).Return(domain.Collection{
		ID:        2,
		MaxSize:   10,
		SizeFixed: true,
		Price:     big.NewInt(0),
		URIPolicy: domain.SequentialURI("ipfs://base/"),
		Minted:    3,
	}, true)

	resp, err := te.exec.FixCollectionSize(ctx, admin, 2, 10)
	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.True(t, resp.SizeFixed)
	assert.Equal(t, uint64(7), resp.Remaining)
	assert.Equal(t, "ipfs://base/", resp.BaseURI)
}

func TestExecutor_SetCollectionBaseURI_Rejected(t *testing.T) {
	te := setupTestExecutor(t)
	te.engine.EXPECT().SetCollectionBaseURI(gomock.Any(), alice, domain.CollectionID(1), "ipfs://x/").Return(domain.ErrUnauthorized)

	resp, err := te.exec.SetCollectionBaseURI(context.Background(), alice, 1, "ipfs://x/")
	assert.Nil(t, resp)
	requireAPIError(t, err, http.StatusForbidden, apierrors.ErrCodeForbidden)
}

func TestExecutor_GetToken(t *testing.T) {
	te := setupTestExecutor(t)

	te.engine.EXPECT().Token(domain.TokenID(1)).Return(domain.Token{ID: 1, CollectionID: 2, Index: 0, Owner: alice}, nil)
	te.engine.EXPECT().TokenURI(domain.TokenID(1)).Return("ipfs://base/0.json", nil)
	te.engine.EXPECT().Token(domain.TokenID(9)).Return(domain.Token{}, domain.ErrUnknownToken)

	resp, err := te.exec.GetToken(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, alice.Hex(), resp.Owner)
	assert.Equal(t, "ipfs://base/0.json", resp.URI)

	_, err = te.exec.GetToken(context.Background(), 9)
	requireAPIError(t, err, http.StatusNotFound, apierrors.ErrCodeUnknownToken)
}

func TestExecutor_GetTreasury(t *testing.T) {
	te := setupTestExecutor(t)
	te.engine.EXPECT().Admin().Return(admin).AnyTimes()
	te.engine.EXPECT().TreasuryBalance().Return(big.NewInt(1_500_000_000_000_000_000))

	resp, err := te.exec.GetTreasury(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", resp.Balance)
	assert.Equal(t, "1.5", resp.BalanceEther)

	_, err = te.exec.GetTreasury(context.Background(), alice)
	requireAPIError(t, err, http.StatusForbidden, apierrors.ErrCodeForbidden)
}

func TestExecutor_Withdraw(t *testing.T) {
	te := setupTestExecutor(t)
	ctx := context.Background()
	te.engine.EXPECT().Admin().Return(admin).AnyTimes()

	te.engine.EXPECT().Withdraw(ctx, admin).Return(big.NewInt(250), nil)
	resp, err := te.exec.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "250", resp.Amount)
	assert.Equal(t, admin.Hex(), resp.Recipient)

	te.engine.EXPECT().Withdraw(ctx, admin).Return(nil, fmt.Errorf("%w: rpc unavailable", domain.ErrTransferFailed))
	_, err = te.exec.Withdraw(ctx, admin)
	requireAPIError(t, err, http.StatusBadGateway, apierrors.ErrCodeTransferFailed)
}

func TestExecutor_GetEvents(t *testing.T) {
	t.Run("clamps limit and advances cursor", func(t *testing.T) {
		te := setupTestExecutor(t)
		types := []domain.EventType{domain.EventTypeTokenIssued}

		te.store.EXPECT().
			GetEvents(gomock.Any(), store.EventQueryFilter{Since: 10, EventTypes: types, Limit: constants.MAX_EVENTS_LIMIT}).
			Return([]store.OutboxEvent{
				{Cursor: 11, Event: domain.Event{EventID: "a", EventType: domain.EventTypeTokenIssued}},
				{Cursor: 14, Event: domain.Event{EventID: "b", EventType: domain.EventTypeTokenIssued}, Attempts: 2},
			}, nil)

		resp, err := te.exec.GetEvents(context.Background(), 10, types, 10_000)
		require.NoError(t, err)
		require.Len(t, resp.Events, 2)
		assert.Equal(t, int64(14), resp.NextCursor)
		assert.Equal(t, 2, resp.Events[1].Attempts)
	})

	t.Run("default limit and empty page keeps cursor", func(t *testing.T) {
		te := setupTestExecutor(t)
		te.store.EXPECT().
			GetEvents(gomock.Any(), store.EventQueryFilter{Since: 7, Limit: constants.DEFAULT_EVENTS_LIMIT}).
			Return(nil, nil)

		resp, err := te.exec.GetEvents(context.Background(), 7, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, resp.Events)
		assert.Equal(t, int64(7), resp.NextCursor)
	})

	t.Run("store failure", func(t *testing.T) {
		te := setupTestExecutor(t)
		te.store.EXPECT().GetEvents(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		_, err := te.exec.GetEvents(context.Background(), 0, nil, 5)
		requireAPIError(t, err, http.StatusInternalServerError, apierrors.ErrCodeDatabaseError)
	})

	t.Run("no store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := executor.NewExecutor(mocks.NewMockEngine(ctrl), nil, nil)

		_, err := exec.GetEvents(context.Background(), 0, nil, 5)
		requireAPIError(t, err, http.StatusServiceUnavailable, apierrors.ErrCodeServiceError)
		assert.NoError(t, exec.Ping(context.Background()))
	})
}
