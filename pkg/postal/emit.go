package postal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DocumentSink receives one named JSON document per populated prefix.
type DocumentSink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes documents as files under Dir.
type DirSink struct {
	Dir string
}

func (s DirSink) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(s.Dir, name))
}

// Progress receives the per-prefix outcome during emission. It is a
// reporting side channel only; implementations must not fail.
type Progress interface {
	Processed(prefix string)
	Empty(prefix string)
}

type nopProgress struct{}

func (nopProgress) Processed(string) {}
func (nopProgress) Empty(string)     {}

// Emit walks prefixes 001 through 999 in ascending numeric order and
// serializes each populated group to sink as "<prefix>.json", pretty
// printed. Prefixes with no data produce no document and are reported as
// empty. Any write failure aborts the remaining emission: a partial result
// set must not pass for a complete one. A nil progress is allowed.
func Emit(ds Dataset, sink DocumentSink, progress Progress) error {
	if progress == nil {
		progress = nopProgress{}
	}
	for n := 1; n < 1000; n++ {
		prefix := fmt.Sprintf("%03d", n)
		group, ok := ds[prefix]
		if !ok {
			progress.Empty(prefix)
			continue
		}

		data, err := json.MarshalIndent(group, "", "  ")
		if err != nil {
			return fmt.Errorf("encode prefix %s: %w", prefix, err)
		}

		w, err := sink.Create(prefix + ".json")
		if err != nil {
			return fmt.Errorf("create %s.json: %w", prefix, err)
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return fmt.Errorf("write %s.json: %w", prefix, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("close %s.json: %w", prefix, err)
		}
		progress.Processed(prefix)
	}
	return nil
}
