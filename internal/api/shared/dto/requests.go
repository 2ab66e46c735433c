package dto

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	apierrors "github.com/lilianna-roll/issuance/internal/api/shared/errors"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/voucher"
)

// parseOptionalRecipient returns nil for an empty recipient
func parseOptionalRecipient(s string) (*common.Address, error) {
	if s == "" {
		return nil, nil
	}
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid recipient: %s", s))
	}
	return &addr, nil
}

// parseAmount accepts a wei decimal string or, when ether is set, an ether decimal string
func parseAmount(wei, ether string, field string) (*big.Int, error) {
	switch {
	case wei != "" && ether != "":
		return nil, apierrors.NewValidationError(fmt.Sprintf("only one of %s and %s_ether may be set", field, field))
	case ether != "":
		v, err := domain.ParseEther(ether)
		if err != nil {
			return nil, apierrors.NewValidationError(fmt.Sprintf("invalid %s_ether: %v", field, err))
		}
		return v, nil
	case wei != "":
		v, err := domain.ParseWei(wei)
		if err != nil {
			return nil, apierrors.NewValidationError(fmt.Sprintf("invalid %s: %v", field, err))
		}
		return v, nil
	default:
		return new(big.Int), nil
	}
}

// MakeCollectionRequest represents the request body for registering a collection
type MakeCollectionRequest struct {
	ID         uint64 `json:"id"`
	Size       uint64 `json:"size"`
	Offer      string `json:"offer"`       // wei
	OfferEther string `json:"offer_ether"` // alternative to offer
	URI        string `json:"uri"`
	Fixed      bool   `json:"fixed"`

	price *big.Int
}

// Validate validates the request body
func (r *MakeCollectionRequest) Validate() error {
	if r.ID == 0 {
		return apierrors.NewValidationError("id must be greater than 0")
	}
	if r.ID > domain.MAX_STORED_COUNT {
		return apierrors.NewValidationError(fmt.Sprintf("id must not exceed %d", domain.MAX_STORED_COUNT))
	}
	if err := validateSize(r.Size); err != nil {
		return err
	}
	price, err := parseAmount(r.Offer, r.OfferEther, "offer")
	if err != nil {
		return err
	}
	r.price = price
	return nil
}

// Price returns the parsed offer; Validate must be called first
func (r *MakeCollectionRequest) Price() *big.Int {
	return r.price
}

// SetSizeRequest represents the request body for fixing a collection size
type SetSizeRequest struct {
	Size *uint64 `json:"size"`
}

// Validate validates the request body
func (r *SetSizeRequest) Validate() error {
	if r.Size == nil {
		return apierrors.NewValidationError("size is required")
	}
	return validateSize(*r.Size)
}

func validateSize(size uint64) error {
	if size > domain.MAX_STORED_COUNT {
		return apierrors.NewValidationError(fmt.Sprintf("size must not exceed %d", domain.MAX_STORED_COUNT))
	}
	return nil
}

// SetOfferRequest represents the request body for setting a collection offer
type SetOfferRequest struct {
	Offer      string `json:"offer"`
	OfferEther string `json:"offer_ether"`

	price *big.Int
}

// Validate validates the request body
func (r *SetOfferRequest) Validate() error {
	if r.Offer == "" && r.OfferEther == "" {
		return apierrors.NewValidationError("offer or offer_ether is required")
	}
	price, err := parseAmount(r.Offer, r.OfferEther, "offer")
	if err != nil {
		return err
	}
	r.price = price
	return nil
}

// Price returns the parsed offer; Validate must be called first
func (r *SetOfferRequest) Price() *big.Int {
	return r.price
}

// SetURIRequest represents the request body for the base, fixed and contract URI endpoints
type SetURIRequest struct {
	URI *string `json:"uri"`
}

// Validate validates the request body
func (r *SetURIRequest) Validate() error {
	if r.URI == nil {
		return apierrors.NewValidationError("uri is required")
	}
	return nil
}

// MintRequest represents the request body for an administrative mint
type MintRequest struct {
	Recipient string `json:"recipient"`

	recipient common.Address
}

// Validate validates the request body
func (r *MintRequest) Validate() error {
	if r.Recipient == "" {
		return apierrors.NewValidationError("recipient is required")
	}
	addr, err := parseOptionalRecipient(r.Recipient)
	if err != nil {
		return err
	}
	r.recipient = *addr
	return nil
}

// RecipientAddress returns the parsed recipient; Validate must be called first
func (r *MintRequest) RecipientAddress() common.Address {
	return r.recipient
}

// BuyRequest represents the request body for the paid mint paths.
// Without recipient the token goes to the caller.
type BuyRequest struct {
	Value      string `json:"value"`
	ValueEther string `json:"value_ether"`
	Recipient  string `json:"recipient,omitempty"`

	value     *big.Int
	recipient *common.Address
}

// Validate validates the request body
func (r *BuyRequest) Validate() error {
	if r.Value == "" && r.ValueEther == "" {
		return apierrors.NewValidationError("value or value_ether is required")
	}
	value, err := parseAmount(r.Value, r.ValueEther, "value")
	if err != nil {
		return err
	}
	recipient, err := parseOptionalRecipient(r.Recipient)
	if err != nil {
		return err
	}
	r.value = value
	r.recipient = recipient
	return nil
}

// Amount returns the parsed payment; Validate must be called first
func (r *BuyRequest) Amount() *big.Int {
	return r.value
}

// RecipientAddress returns the parsed recipient or nil
func (r *BuyRequest) RecipientAddress() *common.Address {
	return r.recipient
}

// AuthorizeRequest represents the request body for the voucher mint paths.
// Without recipient the token goes to the caller.
type AuthorizeRequest struct {
	Signature string `json:"signature"`
	Recipient string `json:"recipient,omitempty"`

	signature []byte
	recipient *common.Address
}

// Validate validates the request body
func (r *AuthorizeRequest) Validate() error {
	if r.Signature == "" {
		return apierrors.NewValidationError("signature is required")
	}
	sig, err := voucher.DecodeSignature(r.Signature)
	if err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid signature encoding: %v", err))
	}
	recipient, err := parseOptionalRecipient(r.Recipient)
	if err != nil {
		return err
	}
	r.signature = sig
	r.recipient = recipient
	return nil
}

// SignatureBytes returns the decoded signature; Validate must be called first
func (r *AuthorizeRequest) SignatureBytes() []byte {
	return r.signature
}

// RecipientAddress returns the parsed recipient or nil
func (r *AuthorizeRequest) RecipientAddress() *common.Address {
	return r.recipient
}
