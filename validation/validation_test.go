package validation

import (
	"reflect"
	"testing"
)

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Required("email", "a@x.com", v)
	if v["name"] != "required" {
		t.Fatalf("expected name required, got %#v", v)
	}
	if _, ok := v["email"]; ok {
		t.Fatalf("email should be valid")
	}
}

func TestOneOfAndNonNegative(t *testing.T) {
	v := make(Violations)
	OneOf("mop", "Cheque", []string{"Cash", "UPI"}, v)
	OneOf("item", "UPI", []string{"Cash", "UPI"}, v)
	NonNegativeInt("quant_0", -1, v)
	NonNegativeInt("quant_1", 0, v)
	want := []string{"mop", "quant_0"}
	if got := v.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
}

func TestMergeKeepsExisting(t *testing.T) {
	v := Violations{"a": "required"}
	v.Merge(Violations{"a": "other", "b": "not_allowed"})
	if v["a"] != "required" || v["b"] != "not_allowed" {
		t.Fatalf("unexpected merge result %#v", v)
	}
	if v.Empty() {
		t.Fatalf("expected non-empty")
	}
}
