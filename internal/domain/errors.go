package domain

import "errors"

var (
	// ErrCollectionFilled is returned when a collection has reached its capacity
	ErrCollectionFilled = errors.New("collection filled")

	// ErrIncorrectAmount is returned when the attached payment differs from the collection offer
	ErrIncorrectAmount = errors.New("amount sent is not correct")

	// ErrInvalidSignature is returned when a voucher does not recover to the trusted issuer
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUnknownToken is returned when querying a token that was never minted
	ErrUnknownToken = errors.New("unknown token")

	// ErrTransferFailed is returned when the withdrawal transfer is rejected
	ErrTransferFailed = errors.New("transfer failed")

	// ErrUnauthorized is returned when an administrative operation is called by another principal
	ErrUnauthorized = errors.New("caller is not the administrator")

	// ErrCollectionSizeFixed is returned when fixing the size of a collection a second time
	ErrCollectionSizeFixed = errors.New("collection size already fixed")

	// ErrVoucherRedeemed is returned when a voucher has already been used to mint
	ErrVoucherRedeemed = errors.New("voucher already redeemed")

	// ErrInvalidCollectionID is returned for the reserved collection id 0
	ErrInvalidCollectionID = errors.New("invalid collection id")

	// ErrInvalidAddress is returned for malformed or zero addresses
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned for negative or out of range amounts
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when crediting the treasury would exceed the uint256 range
	ErrAmountOverflow = errors.New("amount overflow")
)
