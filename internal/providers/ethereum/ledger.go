package ethereum

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/engine"
	"github.com/lilianna-roll/issuance/internal/logger"
)

type ledgerPayout struct {
	clock adapter.Clock
}

// NewLedgerPayout creates a payout that only records withdrawals. Funds are
// settled off-chain; the reference identifies the ledger entry.
func NewLedgerPayout(clock adapter.Clock) engine.Payout {
	return &ledgerPayout{clock: clock}
}

// Transfer records the payout and returns a "ledger:<ulid>" reference
func (p *ledgerPayout) Transfer(ctx context.Context, to common.Address, amount *big.Int) (string, error) {
	id, err := ulid.New(ulid.Timestamp(p.clock.Now()), rand.Reader)
	if err != nil {
		return "", err
	}
	reference := "ledger:" + id.String()

	logger.InfoCtx(ctx, "Recorded ledger payout",
		zap.String("reference", reference),
		zap.String("to", to.Hex()),
		zap.String("amount", amount.String()),
	)

	return reference, nil
}
