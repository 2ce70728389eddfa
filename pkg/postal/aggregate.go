package postal

import (
	"bufio"
	"fmt"
	"io"
)

// Aggregate folds every line of r into ds using the given layout and
// returns the number of rows folded. Rows are processed strictly in file
// order: pair codes and address payload order both depend on it. A row the
// layout cannot parse aborts the whole pass; these files are machine
// generated and a short line means the wrong file, not a bad record.
//
// The full registry must be aggregated before the office registry so that
// both share one prefix/suffix/pair-code space with full-registry codes
// allocated first.
func Aggregate(ds Dataset, layout Layout, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	rows := 0
	for sc.Scan() {
		row, err := ParseRow(sc.Text(), layout)
		if err != nil {
			return rows, fmt.Errorf("line %d: %w", rows+1, err)
		}
		prefix, suffix := row.SplitCode()

		group, ok := ds[prefix]
		if !ok {
			group = newPrefixGroup()
			ds[prefix] = group
		}

		code := group.resolveOrAllocate(PrefMunic{Pref: row.Prefecture, Munic: row.Municipality})

		entry, ok := group.Address[suffix]
		if !ok {
			entry = &SuffixEntry{Code: code}
			group.Address[suffix] = entry
		}

		var item []string
		switch layout {
		case LayoutFull:
			item = []string{row.TownArea}
		case LayoutOffice:
			item = []string{row.TownArea, row.HouseNumber, row.OfficeName}
		}
		entry.Address = append(entry.Address, item)
		rows++
	}
	if err := sc.Err(); err != nil {
		return rows, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}
