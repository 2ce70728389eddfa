package source

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// encodeShiftJIS renders a UTF-8 string as Shift_JIS bytes for test input.
func encodeShiftJIS(t *testing.T, s string) []byte {
	t.Helper()
	e, err := htmlindex.Get("shift_jis")
	if err != nil {
		t.Fatalf("htmlindex.Get: %v", err)
	}
	out, _, err := transform.Bytes(e.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func TestDecodeReader_ShiftJIS(t *testing.T) {
	text := "01101,\"0600000\",北海道,札幌市中央区\n"
	raw := encodeShiftJIS(t, text)
	if bytes.Equal(raw, []byte(text)) {
		t.Fatal("test input is not actually re-encoded")
	}

	r, err := DecodeReader(bytes.NewReader(raw), "shift_jis")
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != text {
		t.Errorf("decoded = %q, want %q", string(got), text)
	}
}

func TestDecodeReader_UTF8Passthrough(t *testing.T) {
	for _, enc := range []string{"", "utf-8", "UTF-8", "utf8"} {
		in := strings.NewReader("東京都")
		r, err := DecodeReader(in, enc)
		if err != nil {
			t.Fatalf("DecodeReader(%q): %v", enc, err)
		}
		if r != in {
			t.Errorf("encoding %q should pass through unwrapped", enc)
		}
	}
}

func TestDecodeReader_UnknownEncoding(t *testing.T) {
	if _, err := DecodeReader(strings.NewReader(""), "no-such-charset"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
