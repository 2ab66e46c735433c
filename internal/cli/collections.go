package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/domain"
)

// APIKeyEnv is read when --api-key is not given
const APIKeyEnv = "ISSUANCE_API_KEY"

type registerOptions struct {
	file    string
	api     string
	apiKey  string
	skip    int
	dryRun  bool
	timeout time.Duration
}

// makeCollectionBody is the body of POST /api/v1/collections
type makeCollectionBody struct {
	ID    uint64 `json:"id"`
	Size  uint64 `json:"size"`
	Offer string `json:"offer"`
	URI   string `json:"uri"`
	Fixed bool   `json:"fixed"`
}

// NewCollectionsCommand creates the collections command group
func NewCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections through the API",
	}

	cmd.AddCommand(newRegisterCommand(nil))

	return cmd
}

// newRegisterCommand creates the register command; httpClient is built from flags when nil
func newRegisterCommand(httpClient adapter.HTTPClient) *cobra.Command {
	opts := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the collections of a token manifest in order",
		Long: `Register the collections of a token manifest in order.

The manifest is a JSON object keyed by collection name. Each entry has a
limit, an optional price in ether and either a base-token-uri or a
fixed-token-uri. Collection ids follow the manifest order starting at 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := httpClient
			if client == nil {
				client = adapter.NewHTTPClient(opts.timeout)
			}
			return runRegister(cmd, opts, client)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "data/tokens.json", "token manifest")
	cmd.Flags().StringVar(&opts.api, "api", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "administrative API key (default $"+APIKeyEnv+")")
	cmd.Flags().IntVar(&opts.skip, "skip", 0, "number of leading collections already registered")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the registrations without calling the API")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")

	return cmd
}

func runRegister(cmd *cobra.Command, opts *registerOptions, client adapter.HTTPClient) error {
	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	regs, err := ParseManifest(f)
	if err != nil {
		return err
	}

	apiKey := opts.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" && !opts.dryRun {
		return fmt.Errorf("--api-key or %s is required", APIKeyEnv)
	}

	out := cmd.OutOrStdout()
	url := strings.TrimSuffix(opts.api, "/") + "/api/v1/collections"
	headers := map[string]string{"Authorization": "ApiKey " + apiKey}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for i, reg := range regs {
		if i < opts.skip {
			continue
		}

		_, _ = fmt.Fprintf(out, "adding collection %d %s size=%d offer=%s uri=%q fixed=%t\n",
			reg.ID, reg.Name, reg.Size, domain.FormatEther(reg.Offer), reg.URI, reg.Fixed)
		if opts.dryRun {
			continue
		}

		body, err := json.Marshal(makeCollectionBody{
			ID:    uint64(reg.ID),
			Size:  reg.Size,
			Offer: reg.Offer.String(),
			URI:   reg.URI,
			Fixed: reg.Fixed,
		})
		if err != nil {
			return err
		}
		if _, err := client.Post(ctx, url, headers, body); err != nil {
			return fmt.Errorf("failed to register collection %d (%s): %w", reg.ID, reg.Name, err)
		}
	}

	return nil
}
