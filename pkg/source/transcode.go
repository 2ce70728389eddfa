package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DecodeReader wraps r so that text in the named charset reads as UTF-8.
// UTF-8 (or an empty name) passes through untouched.
func DecodeReader(r io.Reader, encoding string) (io.Reader, error) {
	if isUTF8(encoding) {
		return r, nil
	}
	e, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
