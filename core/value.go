package core

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ValueKind discriminates the tagged union Value implements (spec.md §3's
// "Value" type): boolean, u64, u128, string, null, and homogeneous vectors
// of each.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindU64
	KindU128
	KindString
	KindVecBool
	KindVecU64
	KindVecU128
	KindVecString
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindString:
		return "string"
	case KindVecBool:
		return "vec<bool>"
	case KindVecU64:
		return "vec<u64>"
	case KindVecU128:
		return "vec<u128>"
	case KindVecString:
		return "vec<string>"
	default:
		return "unknown"
	}
}

// Value is the currency of all runtime data movement across the engine:
// expression arguments, action inputs, storage-bucket entries and
// postprocessing results are all Values.
type Value struct {
	Kind ValueKind
	B    bool
	U    uint64
	I    *big.Int
	S    string
	VB   []bool
	VU   []uint64
	VI   []*big.Int
	VS   []string
}

func NullValue() Value               { return Value{Kind: KindNull} }
func BoolValue(b bool) Value         { return Value{Kind: KindBool, B: b} }
func U64Value(u uint64) Value        { return Value{Kind: KindU64, U: u} }
func U128Value(i *big.Int) Value     { return Value{Kind: KindU128, I: new(big.Int).Set(i)} }
func U128FromUint64(u uint64) Value  { return U128Value(new(big.Int).SetUint64(u)) }
func StringValue(s string) Value     { return Value{Kind: KindString, S: s} }
func VecBoolValue(v []bool) Value    { return Value{Kind: KindVecBool, VB: v} }
func VecU64Value(v []uint64) Value   { return Value{Kind: KindVecU64, VU: v} }
func VecU128Value(v []*big.Int) Value { return Value{Kind: KindVecU128, VI: v} }
func VecStringValue(v []string) Value { return Value{Kind: KindVecString, VS: v} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool performs a typed cast, failing with ErrCast on a kind mismatch.
func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("%w: expected bool, got %s", ErrCast, v.Kind)
	}
	return v.B, nil
}

func (v Value) AsU64() (uint64, error) {
	if v.Kind != KindU64 {
		return 0, fmt.Errorf("%w: expected u64, got %s", ErrCast, v.Kind)
	}
	return v.U, nil
}

func (v Value) AsU128() (*big.Int, error) {
	if v.Kind != KindU128 {
		return nil, fmt.Errorf("%w: expected u128, got %s", ErrCast, v.Kind)
	}
	return v.I, nil
}

func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("%w: expected string, got %s", ErrCast, v.Kind)
	}
	return v.S, nil
}

// Equal implements the equality operator across compatible kinds. u64 and
// u128 compare numerically against each other; every other pairing of
// distinct kinds is incompatible.
func (a Value) Equal(b Value) (bool, error) {
	switch {
	case a.Kind == KindNull || b.Kind == KindNull:
		return a.Kind == b.Kind, nil
	case a.Kind == KindBool && b.Kind == KindBool:
		return a.B == b.B, nil
	case a.Kind == KindString && b.Kind == KindString:
		return a.S == b.S, nil
	case isNumeric(a.Kind) && isNumeric(b.Kind):
		return numeric(a).Cmp(numeric(b)) == 0, nil
	default:
		return false, fmt.Errorf("%w: cannot compare %s and %s", ErrEvalIncompatible, a.Kind, b.Kind)
	}
}

// Compare implements ordering (<, <=, >, >=) over numeric kinds only.
func (a Value) Compare(b Value) (int, error) {
	if !isNumeric(a.Kind) || !isNumeric(b.Kind) {
		return 0, fmt.Errorf("%w: cannot order %s and %s", ErrEvalIncompatible, a.Kind, b.Kind)
	}
	return numeric(a).Cmp(numeric(b)), nil
}

func isNumeric(k ValueKind) bool { return k == KindU64 || k == KindU128 }

func numeric(v Value) *big.Int {
	if v.Kind == KindU128 {
		return v.I
	}
	return new(big.Int).SetUint64(v.U)
}

// Arith implements +, -, *, / over numeric kinds, promoting to u128 whenever
// either operand is u128. Division by zero fails with ErrEvalDivByZero.
func (a Value) Arith(op Op, b Value) (Value, error) {
	if !isNumeric(a.Kind) || !isNumeric(b.Kind) {
		return Value{}, fmt.Errorf("%w: cannot do arithmetic on %s and %s", ErrEvalIncompatible, a.Kind, b.Kind)
	}
	x, y := numeric(a), numeric(b)
	r := new(big.Int)
	switch op {
	case OpAdd:
		r.Add(x, y)
	case OpSub:
		r.Sub(x, y)
	case OpMul:
		r.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return Value{}, ErrEvalDivByZero
		}
		r.Div(x, y)
	default:
		return Value{}, fmt.Errorf("%w: not an arithmetic op", ErrEvalIncompatible)
	}
	if a.Kind == KindU128 || b.Kind == KindU128 {
		return U128Value(r), nil
	}
	if !r.IsUint64() {
		return U128Value(r), nil
	}
	return U64Value(r.Uint64()), nil
}

// jsonValue is the wire shape a Value marshals to/from: u128 always as a
// decimal string (matching the teacher's convention of serializing
// high-precision ledger amounts as strings, see Transaction.Value handling
// across core/*_token.go), everything else as its native JSON type.
type jsonValue struct {
	Kind ValueKind `json:"kind"`
	Bool *bool     `json:"bool,omitempty"`
	U64  *uint64   `json:"u64,omitempty"`
	U128 *string   `json:"u128,omitempty"`
	Str  *string   `json:"string,omitempty"`
	VB   []bool    `json:"vec_bool,omitempty"`
	VU   []uint64  `json:"vec_u64,omitempty"`
	VI   []string  `json:"vec_u128,omitempty"`
	VS   []string  `json:"vec_string,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Kind: v.Kind}
	switch v.Kind {
	case KindBool:
		jv.Bool = &v.B
	case KindU64:
		jv.U64 = &v.U
	case KindU128:
		s := "0"
		if v.I != nil {
			s = v.I.String()
		}
		jv.U128 = &s
	case KindString:
		jv.Str = &v.S
	case KindVecBool:
		jv.VB = v.VB
	case KindVecU64:
		jv.VU = v.VU
	case KindVecU128:
		vs := make([]string, len(v.VI))
		for i, n := range v.VI {
			vs[i] = n.String()
		}
		jv.VI = vs
	case KindVecString:
		jv.VS = v.VS
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	v.Kind = jv.Kind
	switch jv.Kind {
	case KindBool:
		if jv.Bool != nil {
			v.B = *jv.Bool
		}
	case KindU64:
		if jv.U64 != nil {
			v.U = *jv.U64
		}
	case KindU128:
		n := new(big.Int)
		if jv.U128 != nil {
			n.SetString(*jv.U128, 10)
		}
		v.I = n
	case KindString:
		if jv.Str != nil {
			v.S = *jv.Str
		}
	case KindVecBool:
		v.VB = jv.VB
	case KindVecU64:
		v.VU = jv.VU
	case KindVecU128:
		v.VI = make([]*big.Int, len(jv.VI))
		for i, s := range jv.VI {
			n := new(big.Int)
			n.SetString(s, 10)
			v.VI[i] = n
		}
	case KindVecString:
		v.VS = jv.VS
	}
	return nil
}

// Datatype mirrors Value with an optional nullable flag per primitive plus
// compound descriptors used to type-check both user inputs and serialized
// call payloads (spec.md §3 "Datatype descriptor").
type Datatype struct {
	Kind        ValueKind
	Nullable    bool
	ObjectID    string   // object(id) / nullable-object(id)
	VecObjectID string   // vec-object(id)
	TupleID     string   // vec-tuple(id)
	EnumIDs     []string // enum(ids)
}

// Check validates that v conforms to d, respecting the nullable flag.
func (d Datatype) Check(v Value) error {
	if v.Kind == KindNull {
		if d.Nullable {
			return nil
		}
		return fmt.Errorf("%w: null not allowed for %s", ErrDeserializeDaoObject, d.Kind)
	}
	if v.Kind != d.Kind {
		return fmt.Errorf("%w: expected %s, got %s", ErrDeserializeDaoObject, d.Kind, v.Kind)
	}
	return nil
}
