package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// credit returns the treasury balance after adding amount, without applying it
func (e *engine) credit(amount *big.Int) (*big.Int, error) {
	balance := new(big.Int).Add(e.treasury, amount)
	if balance.Cmp(domain.MaxUint256) > 0 {
		return nil, fmt.Errorf("%w: treasury balance", domain.ErrAmountOverflow)
	}
	return balance, nil
}

func (e *engine) TreasuryBalance() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.treasury)
}

func (e *engine) Withdraw(ctx context.Context, caller common.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return nil, err
	}

	amount := new(big.Int).Set(e.treasury)
	if amount.Sign() == 0 {
		return amount, nil
	}
	if e.payout == nil {
		return nil, fmt.Errorf("%w: no payout configured", domain.ErrTransferFailed)
	}

	event := e.newEvent(domain.EventTypeTreasuryWithdrawn)
	event.Recipient = e.admin.Hex()
	event.Amount = amount.String()

	batch := &domain.Batch{
		TreasuryBalance: new(big.Int),
		Events:          []domain.Event{event},
	}
	// A sent transfer cannot be recalled, so once the payout may start neither
	// it nor the commit follow the caller's cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	transfer := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, e.payoutTimeout)
		defer cancel()

		ref, err := e.payout.Transfer(ctx, e.admin, amount)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
		}
		batch.Events[0].Reference = ref
		return nil
	}
	if err := e.commit(context.WithoutCancel(ctx), batch, transfer); err != nil {
		return nil, err
	}

	e.treasury = new(big.Int)
	return amount, nil
}
