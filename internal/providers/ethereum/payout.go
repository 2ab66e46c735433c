package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/engine"
	"github.com/lilianna-roll/issuance/internal/logger"
)

// DefaultGasLimit is the gas of a plain value transfer
const DefaultGasLimit uint64 = 21000

// ErrInsufficientFunds is returned when the custody account cannot cover value plus gas
var ErrInsufficientFunds = errors.New("insufficient custody balance")

// PayoutConfig holds the custody account settings
type PayoutConfig struct {
	// PrivateKey is the hex encoded custody key, with or without 0x
	PrivateKey string
	// ChainID is used for replay protection; 0 queries the node
	ChainID  int64
	GasLimit uint64
}

type ethPayout struct {
	mu       sync.Mutex
	client   adapter.EthClient
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64
}

// NewPayout creates a payout that sends native-currency legacy transfers from the custody account
func NewPayout(ctx context.Context, cfg PayoutConfig, client adapter.EthClient) (engine.Payout, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid custody private key: %w", err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
	}

	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}

	return &ethPayout{
		client:   client,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		gasLimit: gasLimit,
	}, nil
}

// Transfer signs and broadcasts a transfer of amount to the recipient.
// The returned reference is the transaction hash.
func (p *ethPayout) Transfer(ctx context.Context, to common.Address, amount *big.Int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	nonce, err := p.client.PendingNonceAt(ctx, p.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	balance, err := p.client.BalanceAt(ctx, p.from, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get custody balance: %w", err)
	}
	cost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(p.gasLimit))
	cost.Add(cost, amount)
	if balance.Cmp(cost) < 0 {
		return "", fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, balance, cost)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amount,
		Gas:      p.gasLimit,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(p.chainID), p.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := p.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Sent payout transaction",
		zap.String("txHash", signed.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.String("amount", amount.String()),
		zap.Uint64("nonce", nonce),
	)

	return signed.Hash().Hex(), nil
}
