package postal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// memSink collects documents in memory, recording creation order.
type memSink struct {
	docs  map[string]*bytes.Buffer
	order []string
	fail  string // Create fails for this name
}

func newMemSink() *memSink {
	return &memSink{docs: make(map[string]*bytes.Buffer)}
}

func (s *memSink) Create(name string) (io.WriteCloser, error) {
	if name == s.fail {
		return nil, errors.New("sink full")
	}
	buf := &bytes.Buffer{}
	s.docs[name] = buf
	s.order = append(s.order, name)
	return nopCloser{buf}, nil
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

// countProgress tallies processed/empty prefixes.
type countProgress struct {
	processed []string
	empty     int
}

func (p *countProgress) Processed(prefix string) { p.processed = append(p.processed, prefix) }
func (p *countProgress) Empty(string)            { p.empty++ }

func sampleDataset(t *testing.T) Dataset {
	t.Helper()
	ds := NewDataset()
	lines := strings.Join([]string{
		fullLine("9800001", "宮城県", "仙台市青葉区", "中央"),
		fullLine("1500001", "東京都", "渋谷区", "神宮前"),
		fullLine("0600000", "北海道", "札幌市中央区", ""),
	}, "\n") + "\n"
	if _, err := Aggregate(ds, LayoutFull, strings.NewReader(lines)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	return ds
}

func TestEmit_OrderAndProgress(t *testing.T) {
	ds := sampleDataset(t)
	sink := newMemSink()
	progress := &countProgress{}

	if err := Emit(ds, sink, progress); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	// Ascending numeric order regardless of aggregation order.
	want := []string{"060.json", "150.json", "980.json"}
	if len(sink.order) != len(want) {
		t.Fatalf("documents = %v, want %v", sink.order, want)
	}
	for i, name := range want {
		if sink.order[i] != name {
			t.Errorf("document[%d] = %s, want %s", i, sink.order[i], name)
		}
	}

	if got := progress.processed; len(got) != 3 || got[0] != "060" || got[2] != "980" {
		t.Errorf("processed = %v", got)
	}
	// 999 candidate prefixes, 3 populated.
	if progress.empty != 996 {
		t.Errorf("empty = %d, want 996", progress.empty)
	}
}

func TestEmit_DocumentShape(t *testing.T) {
	ds := NewDataset()
	full := fullLine("1500001", "東京都", "渋谷区", "神宮前") + "\n"
	if _, err := Aggregate(ds, LayoutFull, strings.NewReader(full)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	office := officeLine("1500001", "東京都", "目黒区", "青葉台", "１－２－３", "株式会社サンプル") + "\n"
	if _, err := Aggregate(ds, LayoutOffice, strings.NewReader(office)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	sink := newMemSink()
	if err := Emit(ds, sink, nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	raw := sink.docs["150.json"].Bytes()
	var doc struct {
		PrefAndMunics map[string]PrefMunic
		Address       map[string]SuffixEntry
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if doc.PrefAndMunics["1"].Munic != "渋谷区" || doc.PrefAndMunics["2"].Munic != "目黒区" {
		t.Errorf("PrefAndMunics = %v", doc.PrefAndMunics)
	}
	entry := doc.Address["0001"]
	if entry.Code != 1 || len(entry.Address) != 2 {
		t.Errorf("Address[0001] = %+v", entry)
	}

	// Pretty printed.
	if !bytes.Contains(raw, []byte("\n  \"")) {
		t.Error("document is not indented")
	}
}

func TestEmit_Deterministic(t *testing.T) {
	run := func() map[string]string {
		ds := sampleDataset(t)
		office := officeLine("1500001", "東京都", "目黒区", "青葉台", "１", "社") + "\n"
		if _, err := Aggregate(ds, LayoutOffice, strings.NewReader(office)); err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		sink := newMemSink()
		if err := Emit(ds, sink, nil); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		out := make(map[string]string)
		for name, buf := range sink.docs {
			out[name] = buf.String()
		}
		return out
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("document counts differ: %d vs %d", len(first), len(second))
	}
	for name, doc := range first {
		if second[name] != doc {
			t.Errorf("document %s differs between runs", name)
		}
	}
}

func TestEmit_WriteFailureAborts(t *testing.T) {
	ds := sampleDataset(t)
	sink := newMemSink()
	sink.fail = "150.json"

	err := Emit(ds, sink, nil)
	if err == nil {
		t.Fatal("expected error from failing sink")
	}
	// 060 was written before the failure; 980 must not be.
	if _, ok := sink.docs["060.json"]; !ok {
		t.Error("060.json missing")
	}
	if _, ok := sink.docs["980.json"]; ok {
		t.Error("emission continued past the write failure")
	}
}

func TestEmit_DirSink(t *testing.T) {
	ds := sampleDataset(t)
	dir := t.TempDir()

	if err := Emit(ds, DirSink{Dir: dir}, nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	for _, name := range []string{"060.json", "150.json", "980.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}
		var group PrefixGroup
		if err := json.Unmarshal(data, &group); err != nil {
			t.Errorf("%s is not valid JSON: %v", name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("files = %d, want 3 (no documents for empty prefixes)", len(entries))
	}
}
