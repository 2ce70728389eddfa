package postal

// PrefMunic is one (prefecture, municipality) pair. Two pairs are equal iff
// both fields match exactly; no normalization is applied.
type PrefMunic struct {
	Pref  string `json:"Pref"`
	Munic string `json:"Munic"`
}

// SuffixEntry holds everything recorded under one 4-digit suffix.
//
// Code is the pair code in effect when the entry was first created and is
// never rewritten afterwards, even if a later row for the same suffix
// resolves to a different pair. Address is append-only: each element is
// either [townArea] for a full-registry row or
// [townArea, houseNumber, officeName] for an office-registry row, with
// duplicates kept as-is.
type SuffixEntry struct {
	Code    int        `json:"Code"`
	Address [][]string `json:"Address"`
}

// PrefixGroup is the aggregate for one 3-digit prefix: the pair table and
// the suffix entries that reference it by code.
type PrefixGroup struct {
	PrefAndMunics map[int]PrefMunic       `json:"PrefAndMunics"`
	Address       map[string]*SuffixEntry `json:"Address"`
}

func newPrefixGroup() *PrefixGroup {
	return &PrefixGroup{
		PrefAndMunics: make(map[int]PrefMunic),
		Address:       make(map[string]*SuffixEntry),
	}
}

// resolveOrAllocate returns the code of pair within this group, allocating
// the next code and inserting the pair when it is unseen. Codes are dense
// (1..n), so walking them in numeric order visits pairs in allocation
// order; the first equal pair wins.
func (g *PrefixGroup) resolveOrAllocate(pair PrefMunic) int {
	for code := 1; code <= len(g.PrefAndMunics); code++ {
		if g.PrefAndMunics[code] == pair {
			return code
		}
	}
	code := len(g.PrefAndMunics) + 1
	g.PrefAndMunics[code] = pair
	return code
}

// Dataset maps 3-digit prefixes to their groups. It is built by sequential
// Aggregate passes and read once by Emit; nothing mutates it concurrently.
type Dataset map[string]*PrefixGroup

// NewDataset returns an empty dataset ready for aggregation.
func NewDataset() Dataset {
	return make(Dataset)
}
