package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/voucher"
)

// IssuerKeyEnv is read when --key is not given
const IssuerKeyEnv = "ISSUANCE_ISSUER_KEY"

type voucherOptions struct {
	collection string
	recipient  string
	key        string
	signature  string
	issuer     string
}

// NewVoucherCommand creates the voucher command group
func NewVoucherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Sign and verify mint vouchers",
	}

	cmd.AddCommand(newVoucherSignCommand())
	cmd.AddCommand(newVoucherVerifyCommand())

	return cmd
}

func newVoucherSignCommand() *cobra.Command {
	opts := &voucherOptions{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a voucher allowing recipient to mint one token of a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, recipient, err := opts.target()
			if err != nil {
				return err
			}

			keyHex := opts.key
			if keyHex == "" {
				keyHex = os.Getenv(IssuerKeyEnv)
			}
			if keyHex == "" {
				return fmt.Errorf("--key or %s is required", IssuerKeyEnv)
			}
			key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
			if err != nil {
				return fmt.Errorf("invalid issuer key: %w", err)
			}

			sig, err := voucher.Sign(key, id, recipient)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), voucher.EncodeSignature(sig))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", "", "collection id")
	cmd.Flags().StringVar(&opts.recipient, "recipient", "", "recipient address")
	cmd.Flags().StringVar(&opts.key, "key", "", "hex encoded issuer private key (default $"+IssuerKeyEnv+")")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("recipient")

	return cmd
}

func newVoucherVerifyCommand() *cobra.Command {
	opts := &voucherOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recover the signer of a voucher and compare it to the issuer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, recipient, err := opts.target()
			if err != nil {
				return err
			}
			sig, err := voucher.DecodeSignature(opts.signature)
			if err != nil {
				return err
			}

			signer, err := voucher.Recover(id, recipient, sig)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "signer: %s\n", signer.Hex()); err != nil {
				return err
			}

			if opts.issuer == "" {
				return nil
			}
			issuer, err := domain.ParseAddress(opts.issuer)
			if err != nil {
				return err
			}
			if _, err := voucher.NewVerifier(issuer).Verify(id, recipient, sig); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, "valid")
			return err
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", "", "collection id")
	cmd.Flags().StringVar(&opts.recipient, "recipient", "", "recipient address")
	cmd.Flags().StringVar(&opts.signature, "signature", "", "0x-prefixed voucher signature")
	cmd.Flags().StringVar(&opts.issuer, "issuer", "", "expected issuer address")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

func (o *voucherOptions) target() (domain.CollectionID, common.Address, error) {
	id, err := domain.ParseCollectionID(o.collection)
	if err != nil {
		return 0, common.Address{}, err
	}
	recipient, err := domain.ParseAddress(o.recipient)
	if err != nil {
		return 0, common.Address{}, err
	}
	if recipient == (common.Address{}) {
		return 0, common.Address{}, errors.New("recipient must not be the zero address")
	}
	return id, recipient, nil
}
