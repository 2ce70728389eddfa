package postal

import "testing"

func TestResolveOrAllocate(t *testing.T) {
	g := newPrefixGroup()

	tokyo := PrefMunic{Pref: "東京都", Munic: "渋谷区"}
	osaka := PrefMunic{Pref: "大阪府", Munic: "大阪市北区"}

	if code := g.resolveOrAllocate(tokyo); code != 1 {
		t.Fatalf("first allocation = %d, want 1", code)
	}
	if code := g.resolveOrAllocate(osaka); code != 2 {
		t.Fatalf("second allocation = %d, want 2", code)
	}

	// Resolving an existing pair returns its original code and allocates
	// nothing new.
	if code := g.resolveOrAllocate(tokyo); code != 1 {
		t.Errorf("resolve tokyo = %d, want 1", code)
	}
	if code := g.resolveOrAllocate(osaka); code != 2 {
		t.Errorf("resolve osaka = %d, want 2", code)
	}
	if len(g.PrefAndMunics) != 2 {
		t.Errorf("pairs = %d, want 2", len(g.PrefAndMunics))
	}
}

func TestResolveOrAllocate_ExactEquality(t *testing.T) {
	g := newPrefixGroup()

	// Same prefecture, different municipality: distinct pairs.
	a := g.resolveOrAllocate(PrefMunic{Pref: "東京都", Munic: "渋谷区"})
	b := g.resolveOrAllocate(PrefMunic{Pref: "東京都", Munic: "新宿区"})
	if a == b {
		t.Errorf("distinct municipalities shared code %d", a)
	}

	// No normalization: a trailing space makes a different pair.
	c := g.resolveOrAllocate(PrefMunic{Pref: "東京都", Munic: "渋谷区 "})
	if c == a {
		t.Errorf("whitespace variant resolved to existing code %d", c)
	}
}

func TestResolveOrAllocate_CodesAreDense(t *testing.T) {
	g := newPrefixGroup()
	for i := 0; i < 5; i++ {
		g.resolveOrAllocate(PrefMunic{Pref: "北海道", Munic: string(rune('a' + i))})
	}
	for code := 1; code <= 5; code++ {
		if _, ok := g.PrefAndMunics[code]; !ok {
			t.Errorf("missing code %d in pair table", code)
		}
	}
}
