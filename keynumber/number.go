// Package keynumber implements the arbitrary-precision key-space
// arithmetic the prefetch planner uses to compute speculative start
// points: encoding an alphabet-conformant key as a big integer, and back,
// plus the addition, subtraction and scalar multiplication needed to
// compute sub-range windows.
package keynumber

import (
	"fmt"
	"math/big"
)

// floatPrecisionBits is the minimum big.Float precision for the
// shrink-factor multiplication: at least 30 significant decimal digits,
// well beyond what float64 (about 15-16 digits) can hold. MulFloat widens
// it further for operands longer than this.
const floatPrecisionBits = 160

// Number is a non-negative arbitrary-precision integer: the base-64
// interpretation of a key relative to a configured prefix.
type Number struct {
	v *big.Int
}

// Zero is the Number representing the empty key.
var Zero = Number{v: big.NewInt(0)}

// FromInt builds a Number from a non-negative int64.
func FromInt(n int64) Number {
	if n < 0 {
		panic("keynumber: FromInt requires a non-negative value")
	}
	return Number{v: big.NewInt(n)}
}

// FromKey encodes s (with any shared prefix already stripped by the
// caller) as a Number. Every byte of s must be a member of the fixed
// alphabet; the first violation is reported via ErrBadInput.
func FromKey(s string) (Number, error) {
	n := new(big.Int)
	base := big.NewInt(Base)
	for i := 0; i < len(s); i++ {
		idx := indexOf(s[i])
		if idx < 0 {
			return Number{}, fmt.Errorf("%w: byte %q at offset %d", ErrBadInput, s[i], i)
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}
	return Number{v: n}, nil
}

// Key decodes n back into its alphabet-conformant string form. Zero decodes
// to the empty string.
func (n Number) Key() string {
	if n.v.Sign() == 0 {
		return ""
	}

	base := big.NewInt(Base)
	rem := new(big.Int)
	cur := new(big.Int).Set(n.v)

	var digits []byte
	for cur.Sign() > 0 {
		cur.DivMod(cur, base, rem)
		digits = append(digits, alphabet[rem.Int64()])
	}
	// digits were emitted least-significant first; reverse in place.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Add returns n + other.
func (n Number) Add(other Number) Number {
	return Number{v: new(big.Int).Add(n.v, other.v)}
}

// Sub returns n - other. The caller must guarantee n >= other; violating
// that is a logical invariant failure, reported rather than allowed to
// silently underflow into a negative Number.
func (n Number) Sub(other Number) (Number, error) {
	if n.v.Cmp(other.v) < 0 {
		return Number{}, ErrLogicalInvariant
	}
	return Number{v: new(big.Int).Sub(n.v, other.v)}, nil
}

// MulScalar returns n * k for a non-negative integer scalar k.
func (n Number) MulScalar(k int64) Number {
	return Number{v: new(big.Int).Mul(n.v, big.NewInt(k))}
}

// MulFloat returns n * alpha, computed through a high-precision decimal
// float intermediate so long keys are not truncated the way a float64
// multiplication would be past about 9 base-64 digits (53 bits). The
// intermediate holds n and the product exactly; only the final conversion
// back to an integer truncates toward zero.
func (n Number) MulFloat(alpha float64) Number {
	prec := uint(n.v.BitLen()) + 64
	if prec < floatPrecisionBits {
		prec = floatPrecisionBits
	}
	f := new(big.Float).SetPrec(prec).SetInt(n.v)
	a := new(big.Float).SetPrec(prec).SetFloat64(alpha)
	f.Mul(f, a)

	result, _ := f.Int(nil)
	return Number{v: result}
}

// LessEq reports whether n <= other.
func (n Number) LessEq(other Number) bool {
	return n.v.Cmp(other.v) <= 0
}

// Cmp returns -1, 0 or +1 as n is less than, equal to, or greater than
// other, following the big.Int convention.
func (n Number) Cmp(other Number) int {
	return n.v.Cmp(other.v)
}

// String implements fmt.Stringer for debug logging; it prints the decimal
// value, not the decoded key (use Key for that).
func (n Number) String() string {
	return n.v.String()
}
