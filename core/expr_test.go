package core

import "testing"

func TestEvalArithmeticAndCompare(t *testing.T) {
	n := ExprNode{Op: OpGte, Children: []ExprNode{
		{Op: OpAdd, Children: []ExprNode{Arg(0), Arg(1)}},
		Arg(2),
	}}
	bound := []Value{U64Value(3), U64Value(4), U64Value(7)}
	v, err := Eval(n, bound)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got, err := v.AsBool()
	if err != nil {
		t.Fatalf("AsBool: %v", err)
	}
	if !got {
		t.Fatalf("expected 3+4 >= 7 to be true")
	}
}

func TestEvalAndOrNot(t *testing.T) {
	and := ExprNode{Op: OpAnd, Children: []ExprNode{Arg(0), Arg(1)}}
	if v, err := Eval(and, []Value{BoolValue(true), BoolValue(false)}); err != nil || v.B {
		t.Fatalf("expected true && false = false, got %+v err=%v", v, err)
	}

	or := ExprNode{Op: OpOr, Children: []ExprNode{Arg(0), Arg(1)}}
	if v, err := Eval(or, []Value{BoolValue(true), BoolValue(false)}); err != nil || !v.B {
		t.Fatalf("expected true || false = true, got %+v err=%v", v, err)
	}

	not := ExprNode{Op: OpNot, Children: []ExprNode{Arg(0)}}
	if v, err := Eval(not, []Value{BoolValue(false)}); err != nil || !v.B {
		t.Fatalf("expected !false = true, got %+v err=%v", v, err)
	}
}

func TestEvalArgOutOfRangeErrors(t *testing.T) {
	if _, err := Eval(Arg(5), []Value{U64Value(1)}); err == nil {
		t.Fatalf("expected out-of-range arg index to error")
	}
}

func TestEvalOperatorArityMismatch(t *testing.T) {
	n := ExprNode{Op: OpEq, Children: []ExprNode{Arg(0)}}
	if _, err := Eval(n, []Value{U64Value(1)}); err == nil {
		t.Fatalf("expected arity error for a binary op with one child")
	}
}

func TestEvalBoolRequiresBoolResult(t *testing.T) {
	if _, err := EvalBool(Arg(0), []Value{U64Value(1)}); err == nil {
		t.Fatalf("expected EvalBool to reject a non-bool result")
	}
}
