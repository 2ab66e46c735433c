package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// issuance is a planned, not yet applied, token issue
type issuance struct {
	collection *domain.Collection
	token      domain.Token
	event      domain.Event
}

// planIssue checks capacity and allocates the next global token id without
// mutating any state
func (e *engine) planIssue(id domain.CollectionID, recipient common.Address, path domain.MintPath) (*issuance, error) {
	if recipient == (common.Address{}) {
		return nil, fmt.Errorf("%w: recipient is the zero address", domain.ErrInvalidAddress)
	}

	current := e.collectionOrDefault(id)
	if current.Filled() {
		return nil, fmt.Errorf("%w: collection %d", domain.ErrCollectionFilled, id)
	}

	next := current.Clone()
	index := next.Minted
	next.Minted++

	token := domain.Token{
		ID:           domain.TokenID(len(e.tokens) + 1),
		CollectionID: id,
		Owner:        recipient,
		Index:        index,
	}

	event := e.newEvent(domain.EventTypeTokenIssued)
	event.CollectionID = id
	event.TokenID = token.ID
	event.Index = &index
	event.Path = path
	event.Recipient = recipient.Hex()
	event.URI = next.URIPolicy.Resolve(index)

	return &issuance{collection: next, token: token, event: event}, nil
}

func (e *engine) applyIssue(iss *issuance) {
	e.collections[iss.collection.ID] = iss.collection
	e.tokens = append(e.tokens, iss.token)
}

// token returns the token record; the caller must hold the lock
func (e *engine) token(id domain.TokenID) (domain.Token, error) {
	if id == 0 || uint64(id) > uint64(len(e.tokens)) {
		return domain.Token{}, fmt.Errorf("%w: %d", domain.ErrUnknownToken, id)
	}
	return e.tokens[id-1], nil
}

func (e *engine) Token(id domain.TokenID) (domain.Token, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.token(id)
}

func (e *engine) TokenURI(id domain.TokenID) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.token(id)
	if err != nil {
		return "", err
	}
	return e.collectionOrDefault(t.CollectionID).URIPolicy.Resolve(t.Index), nil
}

func (e *engine) OwnerOf(id domain.TokenID) (common.Address, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.token(id)
	if err != nil {
		return common.Address{}, err
	}
	return t.Owner, nil
}

func (e *engine) TotalSupply() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return uint64(len(e.tokens))
}

// Mint paths

func (e *engine) Mint(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address) (domain.TokenID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return 0, err
	}

	iss, err := e.planIssue(id, recipient, domain.MintPathAdmin)
	if err != nil {
		return 0, err
	}

	batch := &domain.Batch{
		Collections: []*domain.Collection{iss.collection},
		Token:       &iss.token,
		Events:      []domain.Event{iss.event},
	}
	if err := e.commit(ctx, batch, nil); err != nil {
		return 0, err
	}

	e.applyIssue(iss)
	return iss.token.ID, nil
}

func (e *engine) Buy(ctx context.Context, caller common.Address, id domain.CollectionID, value *big.Int) (domain.TokenID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.purchase(ctx, caller, id, caller, value, domain.MintPathBuy)
}

func (e *engine) BuyFor(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address, value *big.Int) (domain.TokenID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.purchase(ctx, caller, id, recipient, value, domain.MintPathBuyFor)
}

func (e *engine) purchase(ctx context.Context, payer common.Address, id domain.CollectionID, recipient common.Address, value *big.Int, path domain.MintPath) (domain.TokenID, error) {
	iss, err := e.planIssue(id, recipient, path)
	if err != nil {
		return 0, err
	}

	price := iss.collection.Price
	if value == nil || value.Cmp(price) != 0 {
		return 0, fmt.Errorf("%w: expected %s wei", domain.ErrIncorrectAmount, price.String())
	}

	balance, err := e.credit(value)
	if err != nil {
		return 0, err
	}

	iss.event.Payer = payer.Hex()
	iss.event.Amount = value.String()

	batch := &domain.Batch{
		Collections:     []*domain.Collection{iss.collection},
		Token:           &iss.token,
		TreasuryBalance: balance,
		Events:          []domain.Event{iss.event},
	}
	if err := e.commit(ctx, batch, nil); err != nil {
		return 0, err
	}

	e.applyIssue(iss)
	e.treasury = balance
	return iss.token.ID, nil
}

func (e *engine) Authorize(ctx context.Context, caller common.Address, id domain.CollectionID, signature []byte) (domain.TokenID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.redeem(ctx, caller, id, caller, signature, domain.MintPathAuthorize)
}

func (e *engine) AuthorizeFor(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address, signature []byte) (domain.TokenID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.redeem(ctx, caller, id, recipient, signature, domain.MintPathAuthorizeFor)
}

func (e *engine) redeem(ctx context.Context, caller common.Address, id domain.CollectionID, recipient common.Address, signature []byte, path domain.MintPath) (domain.TokenID, error) {
	iss, err := e.planIssue(id, recipient, path)
	if err != nil {
		return 0, err
	}

	digest, err := e.verifier.Verify(id, recipient, signature)
	if err != nil {
		return 0, err
	}
	if _, used := e.redeemed[digest]; used {
		return 0, fmt.Errorf("%w: collection %d recipient %s", domain.ErrVoucherRedeemed, id, recipient.Hex())
	}

	iss.event.Payer = caller.Hex()

	batch := &domain.Batch{
		Collections:     []*domain.Collection{iss.collection},
		Token:           &iss.token,
		RedeemedVoucher: &digest,
		Events:          []domain.Event{iss.event},
	}
	if err := e.commit(ctx, batch, nil); err != nil {
		return 0, err
	}

	e.applyIssue(iss)
	e.redeemed[digest] = struct{}{}
	return iss.token.ID, nil
}
