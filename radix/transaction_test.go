package radix

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"
)

func testHeader(notary PublicKey) TransactionHeader {
	return TransactionHeader{
		NetworkID:           2,
		StartEpochInclusive: 100,
		EndEpochExclusive:   102,
		Nonce:               42,
		NotaryPublicKey:     notary,
		NotaryIsSignatory:   false,
		TipPercentage:       0,
	}
}

func testManifest() string {
	return NewManifestBuilder().
		LockFee(MustAddress(testAccount), MustDecimal("10")).
		CallMethod(MustAddress(testExchange), "create_account", Enum(0)).
		Build()
}

func TestIntentEncode(t *testing.T) {
	key, _ := PrivateKeyFromBytes(bytes.Repeat([]byte{3}, ed25519.SeedSize))

	t.Run("deterministic", func(t *testing.T) {
		in := Intent{Header: testHeader(key.Public()), Manifest: testManifest()}
		a, err := in.Encode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := in.Encode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("encoding not deterministic")
		}
	})

	t.Run("nonce changes hash", func(t *testing.T) {
		h1 := testHeader(key.Public())
		h2 := testHeader(key.Public())
		h2.Nonce = 43

		a, _ := Intent{Header: h1, Manifest: testManifest()}.Hash()
		b, _ := Intent{Header: h2, Manifest: testManifest()}.Hash()
		if a == b {
			t.Error("different nonces produced the same intent hash")
		}
	})

	t.Run("manifest changes hash", func(t *testing.T) {
		a, _ := Intent{Header: testHeader(key.Public()), Manifest: testManifest()}.Hash()
		other := NewManifestBuilder().LockFee(MustAddress(testAccount), MustDecimal("11")).Build()
		b, _ := Intent{Header: testHeader(key.Public()), Manifest: other}.Hash()
		if a == b {
			t.Error("different manifests produced the same intent hash")
		}
	})

	t.Run("empty manifest rejected", func(t *testing.T) {
		if _, err := (Intent{Header: testHeader(key.Public()), Manifest: "  \n"}).Encode(); err == nil {
			t.Error("expected error for empty manifest")
		}
	})

	t.Run("missing notary key rejected", func(t *testing.T) {
		h := testHeader(key.Public())
		h.NotaryPublicKey = PublicKey{}
		if _, err := (Intent{Header: h, Manifest: testManifest()}).Encode(); err == nil {
			t.Error("expected error for missing notary key")
		}
	})

	t.Run("empty epoch window rejected", func(t *testing.T) {
		h := testHeader(key.Public())
		h.EndEpochExclusive = h.StartEpochInclusive
		if _, err := (Intent{Header: h, Manifest: testManifest()}).Encode(); err == nil {
			t.Error("expected error for empty epoch window")
		}
	})
}

func TestBuildNotarized(t *testing.T) {
	key, _ := PrivateKeyFromBytes(bytes.Repeat([]byte{5}, ed25519.SeedSize))

	t.Run("signatures verify", func(t *testing.T) {
		tx, err := BuildNotarized(testHeader(key.Public()), testManifest(), []*PrivateKey{key}, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		intentHash, err := tx.IntentHash()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(tx.IntentSignatures) != 1 {
			t.Fatalf("len(IntentSignatures) = %d, want 1", len(tx.IntentSignatures))
		}
		sig := tx.IntentSignatures[0]
		if !sig.PublicKey.Verify(intentHash[:], sig.Signature) {
			t.Error("intent signature did not verify")
		}

		signedHash, err := tx.signedIntentHash()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !key.Public().Verify(signedHash[:], tx.NotarySignature) {
			t.Error("notary signature did not verify")
		}
	})

	t.Run("wrong notary key rejected", func(t *testing.T) {
		other, _ := PrivateKeyFromBytes(bytes.Repeat([]byte{6}, ed25519.SeedSize))
		if _, err := BuildNotarized(testHeader(key.Public()), testManifest(), []*PrivateKey{key}, other); err == nil {
			t.Error("expected error for mismatched notary key")
		}
	})

	t.Run("payload hex decodes", func(t *testing.T) {
		tx, err := BuildNotarized(testHeader(key.Public()), testManifest(), []*PrivateKey{key}, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		payload, err := tx.PayloadHex()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		raw, err := hex.DecodeString(payload)
		if err != nil {
			t.Fatalf("payload is not valid hex: %v", err)
		}
		if raw[0] != payloadVersion || raw[1] != payloadKindNotarized {
			t.Errorf("payload discriminators = %d %d, want %d %d",
				raw[0], raw[1], payloadVersion, payloadKindNotarized)
		}
	})

	t.Run("intent hash string", func(t *testing.T) {
		tx, err := BuildNotarized(testHeader(key.Public()), testManifest(), []*PrivateKey{key}, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s, err := tx.IntentHashString()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(s, "txid_") {
			t.Errorf("intent hash string = %q, want txid_ prefix", s)
		}
		if len(s) != len("txid_")+64 {
			t.Errorf("intent hash string length = %d, want %d", len(s), len("txid_")+64)
		}
	})

	t.Run("compile requires notarization", func(t *testing.T) {
		tx := &NotarizedTransaction{
			Intent: Intent{Header: testHeader(key.Public()), Manifest: testManifest()},
		}
		if _, err := tx.Compile(); err == nil {
			t.Error("expected error for unnotarized transaction")
		}
	})
}
