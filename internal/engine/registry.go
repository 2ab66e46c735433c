package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// MakeCollectionInput registers a collection in a single operation
type MakeCollectionInput struct {
	ID    domain.CollectionID
	Size  uint64
	Price *big.Int
	URI   string
	// FixedURI selects Fixed(URI) instead of Sequential(URI)
	FixedURI bool
}

// configure applies mutate to a copy of the collection and commits it
func (e *engine) configure(ctx context.Context, caller common.Address, id domain.CollectionID, mutate func(c *domain.Collection) error) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if id == 0 {
		return domain.ErrInvalidCollectionID
	}

	next := e.collectionOrDefault(id).Clone()
	if err := mutate(next); err != nil {
		return err
	}

	event := e.newEvent(domain.EventTypeCollectionConfigured)
	event.CollectionID = id
	event.Amount = next.Price.String()
	event.URI = next.URIPolicy.Value

	batch := &domain.Batch{
		Collections: []*domain.Collection{next},
		Events:      []domain.Event{event},
	}
	if err := e.commit(ctx, batch, nil); err != nil {
		return err
	}

	e.collections[id] = next
	return nil
}

func fixSize(size uint64) func(c *domain.Collection) error {
	return func(c *domain.Collection) error {
		if c.SizeFixed {
			return fmt.Errorf("%w: collection %d has size %d", domain.ErrCollectionSizeFixed, c.ID, c.MaxSize)
		}
		c.MaxSize = size
		c.SizeFixed = true
		return nil
	}
}

func setPrice(price *big.Int) func(c *domain.Collection) error {
	return func(c *domain.Collection) error {
		if err := domain.ValidateAmount(price); err != nil {
			return err
		}
		c.Price = new(big.Int).Set(price)
		return nil
	}
}

func setURIPolicy(policy domain.URIPolicy) func(c *domain.Collection) error {
	return func(c *domain.Collection) error {
		c.URIPolicy = policy
		return nil
	}
}

func (e *engine) FixCollectionSize(ctx context.Context, caller common.Address, id domain.CollectionID, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.configure(ctx, caller, id, fixSize(size))
}

func (e *engine) MakeCollectionOffer(ctx context.Context, caller common.Address, id domain.CollectionID, price *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.configure(ctx, caller, id, setPrice(price))
}

func (e *engine) SetCollectionBaseURI(ctx context.Context, caller common.Address, id domain.CollectionID, baseURI string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.configure(ctx, caller, id, setURIPolicy(domain.SequentialURI(baseURI)))
}

func (e *engine) SetCollectionFixedURI(ctx context.Context, caller common.Address, id domain.CollectionID, uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.configure(ctx, caller, id, setURIPolicy(domain.FixedURI(uri)))
}

func (e *engine) MakeCollection(ctx context.Context, caller common.Address, input MakeCollectionInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	price := input.Price
	if price == nil {
		price = new(big.Int)
	}
	policy := domain.SequentialURI(input.URI)
	if input.FixedURI {
		policy = domain.FixedURI(input.URI)
	}

	return e.configure(ctx, caller, input.ID, func(c *domain.Collection) error {
		for _, mutate := range []func(c *domain.Collection) error{
			fixSize(input.Size),
			setPrice(price),
			setURIPolicy(policy),
		} {
			if err := mutate(c); err != nil {
				return err
			}
		}
		return nil
	})
}

// collectionOrDefault returns the stored record or an unconfigured one.
// The returned value must not be mutated.
func (e *engine) collectionOrDefault(id domain.CollectionID) *domain.Collection {
	if c, ok := e.collections[id]; ok {
		return c
	}
	return domain.NewCollection(id)
}

func (e *engine) Collection(id domain.CollectionID) (domain.Collection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.collections[id]
	if !ok {
		return *domain.NewCollection(id), false
	}
	return *c.Clone(), true
}

func (e *engine) CollectionSize(id domain.CollectionID) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectionOrDefault(id).MaxSize
}

func (e *engine) CollectionOffer(id domain.CollectionID) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.collectionOrDefault(id).Price)
}

func (e *engine) CollectionBaseURI(id domain.CollectionID) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectionOrDefault(id).URIPolicy.BaseURI()
}

func (e *engine) CollectionFixedURI(id domain.CollectionID) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectionOrDefault(id).URIPolicy.FixedURI()
}

func (e *engine) CollectionSupply(id domain.CollectionID) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectionOrDefault(id).Minted
}
