package voucher

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// SignatureLength is the length of an r || s || v signature
const SignatureLength = crypto.SignatureLength

// Verifier checks that a voucher was signed by the trusted issuer
//
//go:generate mockgen -source=voucher.go -destination=../mocks/voucher.go -package=mocks -mock_names=Verifier=MockVerifier
type Verifier interface {
	// Verify returns the voucher digest when signature recovers to the issuer
	// over (collectionID, recipient), or ErrInvalidSignature
	Verify(collectionID domain.CollectionID, recipient common.Address, signature []byte) (common.Hash, error)
	// Issuer returns the trusted issuer address
	Issuer() common.Address
}

type verifier struct {
	issuer common.Address
}

// NewVerifier creates a verifier trusting issuer
func NewVerifier(issuer common.Address) Verifier {
	return &verifier{issuer: issuer}
}

func (v *verifier) Issuer() common.Address {
	return v.issuer
}

func (v *verifier) Verify(collectionID domain.CollectionID, recipient common.Address, signature []byte) (common.Hash, error) {
	digest := Digest(collectionID, recipient)

	signer, err := recoverDigest(digest, signature)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if signer != v.issuer {
		return common.Hash{}, fmt.Errorf("%w: recovered %s", domain.ErrInvalidSignature, signer.Hex())
	}

	return digest, nil
}

// Digest is keccak256(abi.encodePacked(uint256 collectionID, address recipient))
func Digest(collectionID domain.CollectionID, recipient common.Address) common.Hash {
	id := common.BigToHash(new(big.Int).SetUint64(uint64(collectionID)))
	return crypto.Keccak256Hash(id.Bytes(), recipient.Bytes())
}

// MessageHash is the EIP-191 personal message hash of a digest, the value
// wallets sign for signMessage(digest)
func MessageHash(digest common.Hash) []byte {
	return accounts.TextHash(digest.Bytes())
}

// Sign issues a voucher for (collectionID, recipient) with the issuer key.
// The returned signature uses v in {27, 28}.
func Sign(key *ecdsa.PrivateKey, collectionID domain.CollectionID, recipient common.Address) ([]byte, error) {
	sig, err := crypto.Sign(MessageHash(Digest(collectionID, recipient)), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign voucher: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Recover returns the address that signed the voucher for (collectionID, recipient)
func Recover(collectionID domain.CollectionID, recipient common.Address, signature []byte) (common.Address, error) {
	return recoverDigest(Digest(collectionID, recipient), signature)
}

func recoverDigest(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(signature))
	}

	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	// Reject malleable high-s signatures
	if !crypto.ValidateSignatureValues(sig[crypto.RecoveryIDOffset], r, s, true) {
		return common.Address{}, fmt.Errorf("invalid signature values")
	}

	pub, err := crypto.SigToPub(MessageHash(digest), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// DecodeSignature decodes a 0x-prefixed hex signature
func DecodeSignature(s string) ([]byte, error) {
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: signature must be %d bytes", domain.ErrInvalidSignature, SignatureLength)
	}
	return sig, nil
}

// EncodeSignature encodes a signature as 0x-prefixed hex
func EncodeSignature(sig []byte) string {
	return hexutil.Encode(sig)
}
