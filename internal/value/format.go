// Package value renders raw counterexample values according to their Solidity type tag.
package value

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SelectorName is the display name whose bytes4 values are annotated with a function name.
const SelectorName = "selector"

// Formatter renders values. The zero Formatter has no selector table; use New.
type Formatter struct {
	selectors Selectors
}

func New(selectors Selectors) *Formatter {
	return &Formatter{selectors: selectors}
}

var defaultFormatter = New(BuiltinSelectors())

// Format renders raw with the built-in selector table.
func Format(raw *big.Int, tag, name string) (string, error) {
	return defaultFormatter.Format(raw, tag, name)
}

// Format renders raw as the type named by tag. name is the variable's display name.
func (f *Formatter) Format(raw *big.Int, tag, name string) (string, error) {
	t, err := ParseType(tag)
	if err != nil {
		return "", err
	}
	return f.FormatType(raw, t, name), nil
}

// FormatType renders raw as the already-parsed type t.
func (f *Formatter) FormatType(raw *big.Int, t Type, name string) string {
	if raw == nil {
		raw = new(big.Int)
	}
	switch t.Kind {
	case KindAddress:
		if fitsBytes(raw, common.AddressLength) {
			// Address.Hex is EIP-55 mixed case; encode the raw bytes to stay lowercase.
			return hexutil.Encode(common.BigToAddress(raw).Bytes())
		}
		return hexPadded(raw, 2*common.AddressLength)
	case KindBytes32:
		if fitsBytes(raw, common.HashLength) {
			return common.BigToHash(raw).Hex()
		}
		return hexPadded(raw, 2*common.HashLength)
	case KindBytes4:
		h := hexPadded(raw, 8)
		if fitsBytes(raw, 4) {
			h = hexutil.Encode(common.LeftPadBytes(raw.Bytes(), 4))
		}
		if name != SelectorName {
			return h
		}
		key := h
		if len(key) > 10 {
			key = key[:10]
		}
		if fn, ok := f.selectors.Lookup(key); ok {
			return fmt.Sprintf("%s (%s)", h, fn)
		}
		return h
	case KindBool:
		if raw.Cmp(big.NewInt(1)) == 0 {
			return "true"
		}
		return "false"
	case KindInt:
		return signed(raw, t.Bits).String()
	default:
		return raw.String()
	}
}

// signed interprets raw mod 2^bits as a two's-complement integer.
func signed(raw *big.Int, bits int) *big.Int {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	v := new(big.Int).Mod(raw, modulus)
	half := new(big.Int).Rsh(modulus, 1)
	if v.Cmp(half) >= 0 {
		v.Sub(v, modulus)
	}
	return v
}

func fitsBytes(raw *big.Int, n int) bool {
	return raw.BitLen() <= 8*n
}

// hexPadded renders values wider than their type without truncating them.
func hexPadded(raw *big.Int, digits int) string {
	return fmt.Sprintf("0x%0*x", digits, raw)
}
