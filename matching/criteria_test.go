package matching

import "testing"

func TestParseCompareOpLeMapsToLt(t *testing.T) {
	op, err := ParseCompareOp("le")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpLT {
		t.Fatalf("expected \"le\" to map to OpLT (reproducing the reference quirk), got %v", op)
	}
	if Eval(op, NumberValue(1), NumberValue(1)) {
		t.Fatalf("expected le(1,1) to be false under the lt mapping")
	}
}

func TestParseCompareOpGeMapsToGt(t *testing.T) {
	op, err := ParseCompareOp("ge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpGT {
		t.Fatalf("expected \"ge\" to map to OpGT (reproducing the reference quirk), got %v", op)
	}
	if Eval(op, NumberValue(1), NumberValue(1)) {
		t.Fatalf("expected ge(1,1) to be false under the gt mapping")
	}
}

func TestParseCompareOpUnknown(t *testing.T) {
	if _, err := ParseCompareOp("bogus"); err == nil {
		t.Fatalf("expected an error for an unrecognized operator")
	}
}

func TestEvalStringValues(t *testing.T) {
	if !Eval(OpEQ, StringValue("A"), StringValue("A")) {
		t.Fatalf("expected equal strings to compare equal")
	}
	if Eval(OpEQ, StringValue("A"), StringValue("B")) {
		t.Fatalf("expected different strings to compare unequal")
	}
}
