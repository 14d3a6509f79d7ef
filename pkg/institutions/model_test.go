package institutions

import (
	"testing"
)

func TestSearchPredicateEncoding(t *testing.T) {
	predicate := NewSearchPredicate().
		WithBrinCode("12AB").
		WithBranchCode("01").
		WithName("De Regenboog").
		WithZipCode("3511 AB").
		ActiveOnly(false)

	encoded := predicate.Values().Encode()
	want := "activeOnly=false&brincode=12AB&dependancecode=01&naam=De+Regenboog&postcode=3511+AB"
	if encoded != want {
		t.Errorf("Encode() = %q, want %q", encoded, want)
	}
}

func TestSearchPredicateUnsetCriteriaOmitted(t *testing.T) {
	values := NewSearchPredicate().WithCity("Utrecht").Values()

	if len(values) != 1 {
		t.Errorf("values = %v, want only plaats", values)
	}
	if values.Get("plaats") != "Utrecht" {
		t.Errorf("plaats = %q", values.Get("plaats"))
	}
}

func TestSearchPredicateValuesReturnsCopy(t *testing.T) {
	predicate := NewSearchPredicate().WithCity("Utrecht")

	values := predicate.Values()
	values.Set("plaats", "Amsterdam")

	if predicate.Values().Get("plaats") != "Utrecht" {
		t.Error("mutating the returned values must not affect the predicate")
	}
}
