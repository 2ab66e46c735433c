package dto

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyRequest_Validate(t *testing.T) {
	bob := "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"

	tests := []struct {
		name      string
		req       BuyRequest
		wantErr   bool
		amount    *big.Int
		recipient *common.Address
	}{
		{name: "wei", req: BuyRequest{Value: "50000000000000000"}, amount: big.NewInt(50_000_000_000_000_000)},
		{name: "ether", req: BuyRequest{ValueEther: "0.05"}, amount: big.NewInt(50_000_000_000_000_000)},
		{name: "zero", req: BuyRequest{Value: "0"}, amount: big.NewInt(0)},
		{name: "recipient", req: BuyRequest{Value: "1", Recipient: bob}, amount: big.NewInt(1), recipient: addrPtr(common.HexToAddress(bob))},
		{name: "missing value", req: BuyRequest{}, wantErr: true},
		{name: "both forms", req: BuyRequest{Value: "1", ValueEther: "1"}, wantErr: true},
		{name: "too many decimals", req: BuyRequest{ValueEther: "0.0000000000000000001"}, wantErr: true},
		{name: "huge exponent", req: BuyRequest{ValueEther: "1e100000000"}, wantErr: true},
		{name: "not a number", req: BuyRequest{Value: "1e18"}, wantErr: true},
		{name: "bad recipient", req: BuyRequest{Value: "1", Recipient: "bob"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.amount.Cmp(tt.req.Amount()))
			assert.Equal(t, tt.recipient, tt.req.RecipientAddress())
		})
	}
}

func TestMakeCollectionRequest_Validate(t *testing.T) {
	req := MakeCollectionRequest{ID: 3, Size: 10, URI: "ipfs://QmBase/"}
	require.NoError(t, req.Validate())
	assert.Equal(t, 0, req.Price().Sign(), "offer defaults to a free collection")

	req = MakeCollectionRequest{ID: 3, OfferEther: "1.5"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "1500000000000000000", req.Price().String())

	req = MakeCollectionRequest{ID: 0}
	require.Error(t, req.Validate())
}

func TestSizeBounds(t *testing.T) {
	maxSize := uint64(math.MaxInt64)
	tooBig := maxSize + 1

	require.NoError(t, (&SetSizeRequest{Size: &maxSize}).Validate())
	require.Error(t, (&SetSizeRequest{Size: &tooBig}).Validate())

	require.NoError(t, (&MakeCollectionRequest{ID: 1, Size: maxSize}).Validate())
	require.Error(t, (&MakeCollectionRequest{ID: 1, Size: tooBig}).Validate())
	require.Error(t, (&MakeCollectionRequest{ID: tooBig, Size: 1}).Validate())
}

func TestMintRequest_Validate(t *testing.T) {
	req := MintRequest{}
	require.Error(t, req.Validate())

	req = MintRequest{Recipient: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	require.NoError(t, req.Validate())
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), req.RecipientAddress())
}

func addrPtr(a common.Address) *common.Address {
	return &a
}
