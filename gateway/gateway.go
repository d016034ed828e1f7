package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/surgetrade/surge-go/radix"
)

// LedgerState fetches the current chain head.
func (c *Client) LedgerState(ctx context.Context) (*LedgerState, error) {
	var resp constructionResponse
	if err := c.post(ctx, "transaction/construction", nil, &resp); err != nil {
		return nil, fmt.Errorf("get ledger state: %w", err)
	}

	state := &LedgerState{
		Network:      resp.LedgerState.Network,
		Epoch:        resp.LedgerState.Epoch,
		StateVersion: resp.LedgerState.StateVersion,
	}

	switch resp.LedgerState.Network {
	case "mainnet":
		state.NetworkID = MainnetID
	case "stokenet":
		state.NetworkID = StokenetID
	default:
		return nil, fmt.Errorf("unknown network %q", resp.LedgerState.Network)
	}

	return state, nil
}

// NetworkConfiguration fetches the well-known addresses for the network.
func (c *Client) NetworkConfiguration(ctx context.Context) (*NetworkConfiguration, error) {
	var resp networkConfigurationResponse
	if err := c.post(ctx, "status/network-configuration", nil, &resp); err != nil {
		return nil, fmt.Errorf("get network configuration: %w", err)
	}

	return &NetworkConfiguration{
		NetworkID:             resp.NetworkID,
		NetworkName:           resp.NetworkName,
		XRD:                   resp.WellKnownAddresses.XRD,
		Faucet:                resp.WellKnownAddresses.Faucet,
		Ed25519VirtualBadge:   resp.WellKnownAddresses.Ed25519VirtualBadge,
		Secp256k1VirtualBadge: resp.WellKnownAddresses.Secp256k1VirtualBadge,
	}, nil
}

// XRDBalance sums the XRD held across an account's fungible vaults.
func (c *Client) XRDBalance(ctx context.Context, account radix.Address) (float64, error) {
	cfg, err := c.NetworkConfiguration(ctx)
	if err != nil {
		return 0, err
	}

	req := fungibleVaultsRequest{
		Address:         account.String(),
		ResourceAddress: cfg.XRD,
	}

	var resp fungibleVaultsResponse
	if err := c.post(ctx, "state/entity/page/fungible-vaults/", req, &resp); err != nil {
		return 0, fmt.Errorf("get fungible vaults: %w", err)
	}

	var total float64
	for _, item := range resp.Items {
		amount, err := strconv.ParseFloat(item.Amount, 64)
		if err != nil {
			return 0, fmt.Errorf("parse vault amount %q: %w", item.Amount, err)
		}
		total += amount
	}

	return total, nil
}

// ComponentHistory fetches the most recent transactions affecting a
// component, with receipt events included.
func (c *Client) ComponentHistory(ctx context.Context, component radix.Address, limit int) (*StreamTransactionsResponse, error) {
	req := streamTransactionsRequest{
		LimitPerPage:           limit,
		AffectedGlobalEntities: []string{component.String()},
	}
	req.OptIns.ReceiptEvents = true

	var resp StreamTransactionsResponse
	if err := c.post(ctx, "stream/transactions", req, &resp); err != nil {
		return nil, fmt.Errorf("get component history: %w", err)
	}

	return &resp, nil
}

// PreviewTransaction executes a manifest against the current ledger state
// without submitting it. Signature checks are skipped and fees are covered
// by free credit, so previews work for any account.
func (c *Client) PreviewTransaction(ctx context.Context, manifest string) (*PreviewReceipt, error) {
	req := previewRequest{
		Manifest:            manifest,
		StartEpochInclusive: 0,
		EndEpochExclusive:   1,
		Nonce:               randomNonce(),
		SignerPublicKeys:    []string{},
	}
	req.Flags.UseFreeCredit = true
	req.Flags.AssumeAllSignatureProofs = true
	req.Flags.SkipEpochCheck = true

	var resp previewResponse
	if err := c.post(ctx, "transaction/preview", req, &resp); err != nil {
		return nil, fmt.Errorf("preview transaction: %w", err)
	}

	if resp.Receipt.ErrorMessage != "" {
		return nil, fmt.Errorf("preview failed: %s", resp.Receipt.ErrorMessage)
	}

	return &resp.Receipt, nil
}

// SubmitTransaction submits a compiled notarized transaction payload.
func (c *Client) SubmitTransaction(ctx context.Context, payloadHex string) (*SubmitResponse, error) {
	req := submitRequest{NotarizedTransactionHex: payloadHex}

	var resp SubmitResponse
	if err := c.post(ctx, "transaction/submit", req, &resp); err != nil {
		return nil, fmt.Errorf("submit transaction: %w", err)
	}

	return &resp, nil
}

// TransactionDetails fetches committed details for an intent hash. Returns
// an error for which IsNotFound is true while the transaction is not yet
// committed.
func (c *Client) TransactionDetails(ctx context.Context, intentHash string) (*TransactionDetails, error) {
	req := committedDetailsRequest{IntentHash: intentHash}
	req.OptIns.ReceiptStateChanges = true

	var resp TransactionDetails
	if err := c.post(ctx, "transaction/committed-details", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// waitForDetails polls committed-details until the transaction appears or
// ctx expires.
func (c *Client) waitForDetails(ctx context.Context, intentHash string) (*TransactionDetails, error) {
	for {
		details, err := c.TransactionDetails(ctx, intentHash)
		if err == nil {
			return details, nil
		}
		if !IsNotFound(err) {
			return nil, fmt.Errorf("get transaction details: %w", err)
		}

		c.logger.Debug("transaction not yet committed", "intent", intentHash)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// TransactionStatus blocks until the transaction is committed and returns
// its final status.
func (c *Client) TransactionStatus(ctx context.Context, intentHash string) (string, error) {
	details, err := c.waitForDetails(ctx, intentHash)
	if err != nil {
		return "", err
	}
	return details.Transaction.Status, nil
}

// NewGlobalEntities blocks until the transaction is committed and returns
// the addresses of entities it created.
func (c *Client) NewGlobalEntities(ctx context.Context, intentHash string) ([]radix.Address, error) {
	details, err := c.waitForDetails(ctx, intentHash)
	if err != nil {
		return nil, err
	}

	entities := details.Transaction.Receipt.StateUpdates.NewGlobalEntities
	addresses := make([]radix.Address, 0, len(entities))
	for _, e := range entities {
		addr, err := radix.NewAddress(e.EntityAddress)
		if err != nil {
			return nil, fmt.Errorf("new entity address: %w", err)
		}
		addresses = append(addresses, addr)
	}

	return addresses, nil
}

// DefaultEpochsValid is the epoch window length for built transactions.
const DefaultEpochsValid = 2

// BuildTransaction builds, signs, and notarizes a transaction for the
// current epoch. It returns the hex payload for SubmitTransaction and the
// intent hash for status polling. The key both signs and notarizes, as a
// single-key account submits for itself.
func (c *Client) BuildTransaction(ctx context.Context, manifest string, key *radix.PrivateKey) (payloadHex, intentHash string, err error) {
	state, err := c.LedgerState(ctx)
	if err != nil {
		return "", "", err
	}

	header := radix.TransactionHeader{
		NetworkID:           c.networkID,
		StartEpochInclusive: state.Epoch,
		EndEpochExclusive:   state.Epoch + DefaultEpochsValid,
		Nonce:               randomNonce(),
		NotaryPublicKey:     key.Public(),
		NotaryIsSignatory:   false,
		TipPercentage:       0,
	}

	tx, err := radix.BuildNotarized(header, manifest, []*radix.PrivateKey{key}, key)
	if err != nil {
		return "", "", fmt.Errorf("build transaction: %w", err)
	}

	payloadHex, err = tx.PayloadHex()
	if err != nil {
		return "", "", fmt.Errorf("compile transaction: %w", err)
	}

	intentHash, err = tx.IntentHashString()
	if err != nil {
		return "", "", fmt.Errorf("intent hash: %w", err)
	}

	return payloadHex, intentHash, nil
}
