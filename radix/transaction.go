package radix

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Payload discriminators for the compiled transaction encoding. The leading
// version byte allows the encoding to change without ambiguity.
const (
	payloadVersion byte = 1

	payloadKindIntent       byte = 1
	payloadKindSignedIntent byte = 2
	payloadKindNotarized    byte = 3
)

// TransactionHeader carries the transaction envelope: which network the
// intent targets, the epoch window in which it is valid, and the notary.
type TransactionHeader struct {
	NetworkID           uint8
	StartEpochInclusive uint64
	EndEpochExclusive   uint64
	Nonce               uint32
	NotaryPublicKey     PublicKey
	NotaryIsSignatory   bool
	TipPercentage       uint16
}

func (h TransactionHeader) validate() error {
	if len(h.NotaryPublicKey.key) == 0 {
		return fmt.Errorf("header: notary public key is required")
	}
	if h.EndEpochExclusive <= h.StartEpochInclusive {
		return fmt.Errorf("header: epoch window [%d, %d) is empty",
			h.StartEpochInclusive, h.EndEpochExclusive)
	}
	return nil
}

// Intent is a transaction header plus the manifest it executes.
type Intent struct {
	Header   TransactionHeader
	Manifest string
}

// Encode returns the canonical byte encoding of the intent. Encoding the
// same intent twice yields identical bytes.
func (in Intent) Encode() ([]byte, error) {
	if err := in.Header.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Manifest) == "" {
		return nil, fmt.Errorf("intent: empty manifest")
	}

	var buf []byte
	buf = append(buf, payloadVersion, payloadKindIntent)
	buf = append(buf, in.Header.NetworkID)
	buf = binary.BigEndian.AppendUint64(buf, in.Header.StartEpochInclusive)
	buf = binary.BigEndian.AppendUint64(buf, in.Header.EndEpochExclusive)
	buf = binary.BigEndian.AppendUint32(buf, in.Header.Nonce)
	buf = appendBytes(buf, in.Header.NotaryPublicKey.Bytes())
	if in.Header.NotaryIsSignatory {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.BigEndian.AppendUint16(buf, in.Header.TipPercentage)
	buf = appendBytes(buf, []byte(in.Manifest))

	return buf, nil
}

// Hash returns the blake2b-256 hash of the encoded intent. This is the
// message that intent signers sign.
func (in Intent) Hash() ([32]byte, error) {
	encoded, err := in.Encode()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(encoded), nil
}

// SignatureWithPublicKey pairs an intent signature with the key that
// produced it.
type SignatureWithPublicKey struct {
	PublicKey PublicKey
	Signature []byte
}

// NotarizedTransaction is a fully signed transaction ready for submission.
type NotarizedTransaction struct {
	Intent           Intent
	IntentSignatures []SignatureWithPublicKey
	NotarySignature  []byte
}

// BuildNotarized signs the intent with each signer and notarizes the signed
// intent with the notary key. The notary key must match the header's notary
// public key.
func BuildNotarized(header TransactionHeader, manifest string, signers []*PrivateKey, notary *PrivateKey) (*NotarizedTransaction, error) {
	intent := Intent{Header: header, Manifest: manifest}

	intentHash, err := intent.Hash()
	if err != nil {
		return nil, err
	}

	if notary.Public().Hex() != header.NotaryPublicKey.Hex() {
		return nil, fmt.Errorf("notary key does not match header notary public key")
	}

	sigs := make([]SignatureWithPublicKey, 0, len(signers))
	for _, signer := range signers {
		sigs = append(sigs, SignatureWithPublicKey{
			PublicKey: signer.Public(),
			Signature: signer.Sign(intentHash[:]),
		})
	}

	tx := &NotarizedTransaction{
		Intent:           intent,
		IntentSignatures: sigs,
	}

	signedHash, err := tx.signedIntentHash()
	if err != nil {
		return nil, err
	}
	tx.NotarySignature = notary.Sign(signedHash[:])

	return tx, nil
}

// IntentHash returns the transaction's intent hash.
func (t *NotarizedTransaction) IntentHash() ([32]byte, error) {
	return t.Intent.Hash()
}

// IntentHashString returns the intent hash in the "txid_<hex>" form used
// when querying the gateway for transaction status.
func (t *NotarizedTransaction) IntentHashString() (string, error) {
	h, err := t.IntentHash()
	if err != nil {
		return "", err
	}
	return "txid_" + hex.EncodeToString(h[:]), nil
}

func (t *NotarizedTransaction) encodeSignedIntent() ([]byte, error) {
	intentBytes, err := t.Intent.Encode()
	if err != nil {
		return nil, err
	}

	var buf []byte
	buf = append(buf, payloadVersion, payloadKindSignedIntent)
	buf = appendBytes(buf, intentBytes)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.IntentSignatures)))
	for _, sig := range t.IntentSignatures {
		buf = appendBytes(buf, sig.PublicKey.Bytes())
		buf = appendBytes(buf, sig.Signature)
	}
	return buf, nil
}

func (t *NotarizedTransaction) signedIntentHash() ([32]byte, error) {
	encoded, err := t.encodeSignedIntent()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(encoded), nil
}

// Compile returns the full notarized transaction payload.
func (t *NotarizedTransaction) Compile() ([]byte, error) {
	if len(t.NotarySignature) == 0 {
		return nil, fmt.Errorf("transaction is not notarized")
	}

	signedIntent, err := t.encodeSignedIntent()
	if err != nil {
		return nil, err
	}

	var buf []byte
	buf = append(buf, payloadVersion, payloadKindNotarized)
	buf = appendBytes(buf, signedIntent)
	buf = appendBytes(buf, t.NotarySignature)
	return buf, nil
}

// PayloadHex returns the compiled payload as the hex string the gateway's
// submit endpoint expects.
func (t *NotarizedTransaction) PayloadHex() (string, error) {
	compiled, err := t.Compile()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(compiled), nil
}

// appendBytes appends a u32 length prefix followed by b.
func appendBytes(buf, b []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}
