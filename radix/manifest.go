package radix

import (
	"fmt"
	"strings"
)

// Value is a single argument in a transaction manifest instruction, already
// rendered in manifest text syntax.
type Value struct {
	text string
}

func (v Value) String() string {
	return v.text
}

// Str renders a quoted string value.
func Str(s string) Value {
	return Value{text: fmt.Sprintf("%q", s)}
}

// Bool renders a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{text: "true"}
	}
	return Value{text: "false"}
}

// U8 renders an 8-bit unsigned integer value.
func U8(v uint8) Value {
	return Value{text: fmt.Sprintf("%du8", v)}
}

// U16 renders a 16-bit unsigned integer value.
func U16(v uint16) Value {
	return Value{text: fmt.Sprintf("%du16", v)}
}

// U32 renders a 32-bit unsigned integer value.
func U32(v uint32) Value {
	return Value{text: fmt.Sprintf("%du32", v)}
}

// U64 renders a 64-bit unsigned integer value.
func U64(v uint64) Value {
	return Value{text: fmt.Sprintf("%du64", v)}
}

// Dec renders a Decimal value.
func Dec(d Decimal) Value {
	return Value{text: fmt.Sprintf("Decimal(%q)", d.String())}
}

// Addr renders an Address value.
func Addr(a Address) Value {
	return Value{text: fmt.Sprintf("Address(%q)", a.String())}
}

// Bucket renders a named bucket reference.
func Bucket(name string) Value {
	return Value{text: fmt.Sprintf("Bucket(%q)", name)}
}

// Enum renders an enum value with the given variant discriminator and fields.
func Enum(variant uint8, fields ...Value) Value {
	return Value{text: fmt.Sprintf("Enum<%du8>(%s)", variant, joinValues(fields))}
}

// Array renders a typed array value. kind is the manifest element kind name,
// e.g. "String", "Bucket", "Tuple", "U64", "Enum".
func Array(kind string, elems ...Value) Value {
	return Value{text: fmt.Sprintf("Array<%s>(%s)", kind, joinValues(elems))}
}

// Tuple renders a tuple value.
func Tuple(fields ...Value) Value {
	return Value{text: fmt.Sprintf("Tuple(%s)", joinValues(fields))}
}

// NonFungibleGlobalID renders a non-fungible global ID value, e.g. a
// virtual-badge rule string.
func NonFungibleGlobalID(id string) Value {
	return Value{text: fmt.Sprintf("NonFungibleGlobalId(%q)", id)}
}

// Expression renders a manifest expression such as "ENTIRE_WORKTOP".
func Expression(expr string) Value {
	return Value{text: fmt.Sprintf("Expression(%q)", expr)}
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.text
	}
	return strings.Join(parts, ", ")
}

// ManifestBuilder accumulates transaction manifest instructions and renders
// them as manifest text. Rendering is deterministic: the same sequence of
// calls always produces identical text.
type ManifestBuilder struct {
	instructions []string
}

// NewManifestBuilder creates an empty manifest builder.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{}
}

// CallMethod appends a CALL_METHOD instruction.
func (b *ManifestBuilder) CallMethod(component Address, method string, args ...Value) *ManifestBuilder {
	var sb strings.Builder
	sb.WriteString("CALL_METHOD\n")
	fmt.Fprintf(&sb, "    Address(%q)\n", component.String())
	fmt.Fprintf(&sb, "    %q", method)
	for _, arg := range args {
		sb.WriteString("\n    ")
		sb.WriteString(arg.text)
	}
	b.instructions = append(b.instructions, sb.String())
	return b
}

// LockFee appends a fee lock against the given account.
func (b *ManifestBuilder) LockFee(account Address, amount Decimal) *ManifestBuilder {
	return b.CallMethod(account, "lock_fee", Dec(amount))
}

// Withdraw appends a withdrawal of amount of resource from account onto the
// worktop.
func (b *ManifestBuilder) Withdraw(account, resource Address, amount Decimal) *ManifestBuilder {
	return b.CallMethod(account, "withdraw", Addr(resource), Dec(amount))
}

// TakeAllFromWorktop appends a TAKE_ALL_FROM_WORKTOP instruction moving all
// of resource into the named bucket.
func (b *ManifestBuilder) TakeAllFromWorktop(resource Address, bucket string) *ManifestBuilder {
	var sb strings.Builder
	sb.WriteString("TAKE_ALL_FROM_WORKTOP\n")
	fmt.Fprintf(&sb, "    Address(%q)\n", resource.String())
	fmt.Fprintf(&sb, "    Bucket(%q)", bucket)
	b.instructions = append(b.instructions, sb.String())
	return b
}

// DepositEntireWorktop appends a deposit of all worktop contents into account.
func (b *ManifestBuilder) DepositEntireWorktop(account Address) *ManifestBuilder {
	return b.CallMethod(account, "deposit_batch", Expression("ENTIRE_WORKTOP"))
}

// Len returns the number of instructions added so far.
func (b *ManifestBuilder) Len() int {
	return len(b.instructions)
}

// Build renders the manifest text.
func (b *ManifestBuilder) Build() string {
	var sb strings.Builder
	for _, ins := range b.instructions {
		sb.WriteString(ins)
		sb.WriteString("\n;\n")
	}
	return sb.String()
}
