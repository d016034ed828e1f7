// Package radix provides the primitives the SDK needs to talk to the Radix
// network: addresses, decimal amounts, ed25519 key material, transaction
// manifest construction, and intent signing.
package radix

import (
	"fmt"
	"strings"
)

// Entity address prefixes accepted by Address.
var addressPrefixes = []string{
	"account_",
	"component_",
	"resource_",
	"package_",
	"identity_",
	"pool_",
	"validator_",
	"internal_vault_",
}

// Address is a validated bech32-style Radix entity address.
type Address struct {
	s string
}

// NewAddress validates and wraps an entity address string.
func NewAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}

	valid := false
	for _, p := range addressPrefixes {
		if strings.HasPrefix(s, p) {
			valid = true
			break
		}
	}
	if !valid {
		return Address{}, fmt.Errorf("unknown address prefix: %q", s)
	}

	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return Address{}, fmt.Errorf("invalid character %q in address %q", r, s)
		}
	}

	return Address{s: s}, nil
}

// MustAddress wraps an address string and panics if it is invalid.
// Intended for well-known constants.
func MustAddress(s string) Address {
	a, err := NewAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the address string.
func (a Address) String() string {
	return a.s
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a.s == ""
}

// MarshalJSON encodes the address as a JSON string.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.s + `"`), nil
}

// UnmarshalJSON decodes and validates a JSON string address.
func (a *Address) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NewAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
