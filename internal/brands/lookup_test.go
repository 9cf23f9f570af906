package brands

import (
	"reflect"
	"testing"
)

func testLookup() *Lookup {
	return NewLookup(map[string][]string{
		"Northwind": {"Mint +", "Peach Tea", "Mint +", " "},
		"contoso":   {"Blue Ridge"},
	}, "contoso")
}

func TestBrandsFor(t *testing.T) {
	l := testLookup()

	got := l.BrandsFor("northwind")
	want := []string{"Mint +", "Peach Tea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := l.BrandsFor("  NORTHWIND "); !reflect.DeepEqual(got, want) {
		t.Errorf("expected case-insensitive match, got %v", got)
	}
}

func TestBrandsFor_UnknownAccountUsesDefault(t *testing.T) {
	l := testLookup()

	got := l.BrandsFor("acme")
	if !reflect.DeepEqual(got, []string{"Blue Ridge"}) {
		t.Errorf("expected default account brands, got %v", got)
	}
	if l.Known("acme") {
		t.Error("expected acme to be unknown")
	}
}

func TestBrandsFor_ReturnsCopy(t *testing.T) {
	l := testLookup()
	got := l.BrandsFor("contoso")
	got[0] = "changed"

	if l.BrandsFor("contoso")[0] != "Blue Ridge" {
		t.Error("caller mutation leaked into the lookup")
	}
}

func TestReplace(t *testing.T) {
	l := testLookup()
	l.Replace(map[string][]string{"acme": {"Rocket"}}, "acme")

	if got := l.BrandsFor("northwind"); !reflect.DeepEqual(got, []string{"Rocket"}) {
		t.Errorf("expected replaced table, got %v", got)
	}
	if !reflect.DeepEqual(l.Accounts(), []string{"acme"}) {
		t.Errorf("unexpected accounts %v", l.Accounts())
	}
}

func TestBrandsFor_EmptyLookup(t *testing.T) {
	l := NewLookup(nil, "")
	if got := l.BrandsFor("x"); len(got) != 0 {
		t.Errorf("expected no brands, got %v", got)
	}
}
