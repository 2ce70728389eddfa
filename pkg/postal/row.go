// Package postal folds the Japan Post postal-code registries into one
// in-memory dataset keyed by the first three digits of each code, and
// emits one JSON document per populated prefix.
package postal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRow reports a registry line that cannot satisfy the active
// layout: too few columns, or a postal code shorter than three digits.
var ErrMalformedRow = errors.New("malformed registry row")

// Layout selects which of the two published CSV schemas a row follows.
type Layout int

const (
	// LayoutFull is the nationwide registry (ken_all): ≥9 columns, with
	// postal code, prefecture, municipality and town area at 2, 6, 7, 8.
	LayoutFull Layout = iota
	// LayoutOffice is the large-office registry (jigyosyo): ≥8 columns,
	// with office name at 2 and the postal code at 7.
	LayoutOffice
)

func (l Layout) String() string {
	switch l {
	case LayoutFull:
		return "full"
	case LayoutOffice:
		return "office"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// minColumns is the highest consumed index plus one.
func (l Layout) minColumns() int {
	if l == LayoutFull {
		return 9
	}
	return 8
}

// Row holds the six semantic fields extracted from one registry line.
// HouseNumber and OfficeName are empty for LayoutFull rows.
type Row struct {
	PostalCode   string
	Prefecture   string
	Municipality string
	TownArea     string
	HouseNumber  string
	OfficeName   string
}

// noListing marks town areas with no finer-grained listing; it carries no
// address information and is cleared to the empty string.
const noListing = "以下に掲載がない場合"

// townAreaCuts are removed from the town area in order: the three literal
// bracketed annotations first, then any parenthesis left standing.
var townAreaCuts = []string{
	"（その他）",
	"（次のビルを除く）",
	"（地階・階層不明）",
	"（",
	"）",
}

// ParseRow splits one raw registry line on commas and extracts the fields
// the layout defines. Fields are not quote-delimited in these files; every
// double quote is noise and is stripped wherever it appears.
func ParseRow(line string, layout Layout) (Row, error) {
	cols := strings.Split(line, ",")
	if len(cols) < layout.minColumns() {
		return Row{}, fmt.Errorf("%w: %d columns, %s layout needs %d",
			ErrMalformedRow, len(cols), layout, layout.minColumns())
	}

	var row Row
	switch layout {
	case LayoutFull:
		row = Row{
			PostalCode:   cols[2],
			Prefecture:   cols[6],
			Municipality: cols[7],
			TownArea:     cols[8],
		}
	case LayoutOffice:
		row = Row{
			OfficeName:   cols[2],
			Prefecture:   cols[3],
			Municipality: cols[4],
			TownArea:     cols[5],
			HouseNumber:  cols[6],
			PostalCode:   cols[7],
		}
	}

	row.PostalCode = stripQuotes(row.PostalCode)
	row.Prefecture = stripQuotes(row.Prefecture)
	row.Municipality = stripQuotes(row.Municipality)
	row.TownArea = stripQuotes(row.TownArea)
	row.HouseNumber = stripQuotes(row.HouseNumber)
	row.OfficeName = stripQuotes(row.OfficeName)

	if row.TownArea == noListing {
		row.TownArea = ""
	}
	for _, cut := range townAreaCuts {
		row.TownArea = strings.ReplaceAll(row.TownArea, cut, "")
	}

	if len(row.PostalCode) < 3 {
		return Row{}, fmt.Errorf("%w: postal code %q shorter than 3 digits",
			ErrMalformedRow, row.PostalCode)
	}
	return row, nil
}

// SplitCode returns the 3-digit prefix and the remaining suffix of the
// postal code. ParseRow guarantees at least three characters.
func (r Row) SplitCode() (prefix, suffix string) {
	return r.PostalCode[:3], r.PostalCode[3:]
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
