package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseWei parses a non-negative decimal wei amount
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(v); err != nil {
		return nil, err
	}
	return v, nil
}

// maxAmountDigits is the number of decimal digits of MaxUint256
const maxAmountDigits = 78

// ParseEther converts a decimal ether string (e.g. "0.05") to wei
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	wei := d.Shift(ETHER_DECIMALS)
	coefficient := wei.Coefficient()
	switch coefficient.Sign() {
	case 0:
		return new(big.Int), nil
	case -1:
		return nil, fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}

	// Bound the exponent before anything scales the coefficient by it
	digits := int64(len(coefficient.String()))
	exp := int64(wei.Exponent())
	if exp > 0 && digits+exp > maxAmountDigits {
		return nil, fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	if exp < 0 && -exp > digits {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, ETHER_DECIMALS)
	}

	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, ETHER_DECIMALS)
	}

	v := wei.BigInt()
	if err := ValidateAmount(v); err != nil {
		return nil, err
	}
	return v, nil
}

// FormatEther renders a wei amount as a decimal ether string
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -ETHER_DECIMALS).String()
}

// ValidateAmount checks that v fits the uint256 range
func ValidateAmount(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	if v.Cmp(MaxUint256) > 0 {
		return fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	return nil
}
