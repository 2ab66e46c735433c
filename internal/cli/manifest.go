package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// ManifestEntry is one collection of a token manifest
type ManifestEntry struct {
	Limit         uint64  `json:"limit"`
	Price         string  `json:"price"` // ether decimal string; empty means free
	BaseTokenURI  string  `json:"base-token-uri"`
	FixedTokenURI *string `json:"fixed-token-uri"`
}

// Registration is the collection a manifest entry registers
type Registration struct {
	Name  string
	ID    domain.CollectionID
	Size  uint64
	Offer *big.Int
	URI   string
	Fixed bool
}

// ParseManifest reads a manifest object keyed by collection name. Collection
// ids follow the key order, starting at 1.
func ParseManifest(r io.Reader) ([]Registration, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("manifest must be a JSON object")
	}

	var regs []Registration
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected manifest token %v", tok)
		}

		var entry ManifestEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}

		reg, err := entry.registration(name, domain.CollectionID(len(regs)+1))
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return regs, nil
}

func (e ManifestEntry) registration(name string, id domain.CollectionID) (Registration, error) {
	offer := new(big.Int)
	if e.Price != "" {
		v, err := domain.ParseEther(e.Price)
		if err != nil {
			return Registration{}, fmt.Errorf("collection %q: %w", name, err)
		}
		offer = v
	}

	// The base URI is preferred as value; any fixed-token-uri key selects the fixed policy
	uri := e.BaseTokenURI
	fixed := e.FixedTokenURI != nil
	if fixed && e.BaseTokenURI == "" {
		uri = *e.FixedTokenURI
	}

	return Registration{
		Name:  name,
		ID:    id,
		Size:  e.Limit,
		Offer: offer,
		URI:   uri,
		Fixed: fixed,
	}, nil
}
