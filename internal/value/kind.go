package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of elementary types the formatter distinguishes.
type Kind int

const (
	KindUnknown Kind = iota
	KindAddress
	KindBytes32
	KindBytes4
	KindBool
	KindUint
	KindInt
)

// MaxBits is the widest signed integer type Solidity has.
const MaxBits = 256

// Type is a parsed type tag. Bits is only meaningful for KindInt.
type Type struct {
	Tag  string
	Kind Kind
	Bits int
}

// DecodeError is returned when a signed integer tag carries a malformed bit width.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode type %q: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParseType classifies tag. Exact tags are matched first, then "uint" and "int" substrings, in that order.
func ParseType(tag string) (Type, error) {
	t := Type{Tag: tag}
	switch tag {
	case "address":
		t.Kind = KindAddress
		return t, nil
	case "bytes32":
		t.Kind = KindBytes32
		return t, nil
	case "bytes4":
		t.Kind = KindBytes4
		return t, nil
	case "bool":
		t.Kind = KindBool
		return t, nil
	}
	if strings.Contains(tag, "uint") {
		t.Kind = KindUint
		return t, nil
	}
	if idx := strings.Index(tag, "int"); idx >= 0 {
		bits, err := strconv.Atoi(tag[idx+len("int"):])
		if err != nil {
			return Type{}, &DecodeError{Tag: tag, Err: err}
		}
		if bits <= 0 || bits > MaxBits {
			return Type{}, &DecodeError{Tag: tag, Err: fmt.Errorf("bit width must be between 1 and %d, got %d", MaxBits, bits)}
		}
		t.Kind = KindInt
		t.Bits = bits
		return t, nil
	}
	t.Kind = KindUnknown
	return t, nil
}
