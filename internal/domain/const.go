package domain

import (
	"math"
	"math/big"
)

const (
	// ETHER_DECIMALS is the number of decimals of the native currency
	ETHER_DECIMALS = 18

	// MAX_STORED_COUNT bounds ids, sizes and counts; they are persisted as BIGINT
	MAX_STORED_COUNT uint64 = math.MaxInt64
)

// MaxUint256 is the largest amount representable on chain
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
