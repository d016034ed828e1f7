package gateway

import "encoding/json"

// LedgerState summarizes the chain head from POST /transaction/construction.
type LedgerState struct {
	Network      string
	NetworkID    uint8
	Epoch        uint64
	StateVersion uint64
}

type constructionResponse struct {
	LedgerState struct {
		Network      string `json:"network"`
		Epoch        uint64 `json:"epoch"`
		StateVersion uint64 `json:"state_version"`
	} `json:"ledger_state"`
}

// NetworkConfiguration holds well-known addresses from
// POST /status/network-configuration.
type NetworkConfiguration struct {
	NetworkID             uint8
	NetworkName           string
	XRD                   string
	Faucet                string
	Ed25519VirtualBadge   string
	Secp256k1VirtualBadge string
}

type networkConfigurationResponse struct {
	NetworkID          uint8  `json:"network_id"`
	NetworkName        string `json:"network_name"`
	WellKnownAddresses struct {
		XRD                   string `json:"xrd"`
		Faucet                string `json:"faucet"`
		Ed25519VirtualBadge   string `json:"ed25519_signature_virtual_badge"`
		Secp256k1VirtualBadge string `json:"secp256k1_signature_virtual_badge"`
	} `json:"well_known_addresses"`
}

type fungibleVaultsRequest struct {
	Address         string `json:"address"`
	ResourceAddress string `json:"resource_address"`
}

type fungibleVaultsResponse struct {
	Items []struct {
		Amount string `json:"amount"`
	} `json:"items"`
}

type streamTransactionsRequest struct {
	LimitPerPage           int      `json:"limit_per_page"`
	AffectedGlobalEntities []string `json:"affected_global_entities_filter"`
	OptIns                 struct {
		ReceiptEvents bool `json:"receipt_events"`
	} `json:"opt_ins"`
}

// CommittedTransaction is one item of a transaction stream page.
type CommittedTransaction struct {
	IntentHash  string          `json:"intent_hash"`
	Status      string          `json:"transaction_status"`
	ConfirmedAt string          `json:"confirmed_at"`
	Receipt     json.RawMessage `json:"receipt"`
}

// StreamTransactionsResponse is a page from POST /stream/transactions.
type StreamTransactionsResponse struct {
	Items []CommittedTransaction `json:"items"`
}

type submitRequest struct {
	NotarizedTransactionHex string `json:"notarized_transaction_hex"`
}

// SubmitResponse from POST /transaction/submit.
type SubmitResponse struct {
	Duplicate bool `json:"duplicate"`
}

type committedDetailsRequest struct {
	IntentHash string `json:"intent_hash"`
	OptIns     struct {
		ReceiptStateChanges bool `json:"receipt_state_changes"`
	} `json:"opt_ins"`
}

// TransactionDetails from POST /transaction/committed-details.
type TransactionDetails struct {
	Transaction struct {
		Status       string `json:"transaction_status"`
		ErrorMessage string `json:"error_message"`
		Receipt      struct {
			StateUpdates struct {
				NewGlobalEntities []struct {
					EntityAddress string `json:"entity_address"`
				} `json:"new_global_entities"`
			} `json:"state_updates"`
		} `json:"receipt"`
	} `json:"transaction"`
}

// Transaction statuses reported by the gateway.
const (
	StatusCommittedSuccess = "CommittedSuccess"
	StatusCommittedFailure = "CommittedFailure"
	StatusRejected         = "Rejected"
	StatusPending          = "Pending"
)

type previewRequest struct {
	Manifest            string   `json:"manifest"`
	StartEpochInclusive uint64   `json:"start_epoch_inclusive"`
	EndEpochExclusive   uint64   `json:"end_epoch_exclusive"`
	TipPercentage       uint16   `json:"tip_percentage"`
	Nonce               uint32   `json:"nonce"`
	SignerPublicKeys    []string `json:"signer_public_keys"`
	Flags               struct {
		UseFreeCredit            bool `json:"use_free_credit"`
		AssumeAllSignatureProofs bool `json:"assume_all_signature_proofs"`
		SkipEpochCheck           bool `json:"skip_epoch_check"`
	} `json:"flags"`
}

type previewResponse struct {
	Receipt PreviewReceipt `json:"receipt"`
}

// PreviewReceipt is the execution receipt of a transaction preview.
type PreviewReceipt struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Output       []PreviewOutput `json:"output"`
}

// PreviewOutput is one return value of a previewed method call.
type PreviewOutput struct {
	ProgrammaticJSON Value `json:"programmatic_json"`
}
