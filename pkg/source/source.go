// Package source describes the postal registries published by Japan Post
// and the plumbing that turns them into readable UTF-8 text: HTTP fetch,
// ZIP extraction, charset transcoding, and a small SQLite table tracking
// source URLs and their availability.
package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hazyhaar/zip2json/pkg/postal"
)

// Source describes one downloadable postal registry.
type Source interface {
	// ID returns the unique identifier of this source (e.g. "ken-all-jp").
	ID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the publisher's download URL used for seeding.
	DefaultURL() string
	// License returns the terms the publisher distributes the data under.
	License() string
	// Archive returns the local file name for the downloaded ZIP.
	Archive() string
	// Layout returns the CSV schema the archived files follow.
	Layout() postal.Layout
	// Encoding returns the charset of the archived files (e.g. "shift_jis").
	Encoding() string
}

var (
	registryMu sync.RWMutex
	sources    = make(map[string]Source)
)

// Register adds a source to the global registry.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	sources[s.ID()] = s
}

// Get returns a registered source by ID, or an error if not found.
func Get(id string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := sources[id]
	if !ok {
		return nil, fmt.Errorf("unknown registry source: %q", id)
	}
	return s, nil
}

// All returns all registered sources sorted by ID.
func All() []Source {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Source, 0, len(sources))
	for _, s := range sources {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// BuildOrder returns the sources in aggregation order: the full registry
// first, then the office registry. Pair codes in the shared dataset depend
// on this order, so it is fixed rather than alphabetical.
func BuildOrder() ([]Source, error) {
	order := []string{"ken-all-jp", "jigyosyo-jp"}
	result := make([]Source, 0, len(order))
	for _, id := range order {
		s, err := Get(id)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func init() {
	Register(kenAllSource{})
	Register(jigyosyoSource{})
}

// kenAllSource is the nationwide postal-code registry.
type kenAllSource struct{}

func (kenAllSource) ID() string          { return "ken-all-jp" }
func (kenAllSource) Description() string { return "Japan Post nationwide postal codes (ken_all)" }
func (kenAllSource) DefaultURL() string {
	return "https://www.post.japanpost.jp/zipcode/dl/kogaki/zip/ken_all.zip"
}
func (kenAllSource) License() string       { return "Japan Post (free use)" }
func (kenAllSource) Archive() string       { return "ken_all.zip" }
func (kenAllSource) Layout() postal.Layout { return postal.LayoutFull }
func (kenAllSource) Encoding() string      { return "shift_jis" }

// jigyosyoSource is the large-volume-office registry.
type jigyosyoSource struct{}

func (jigyosyoSource) ID() string          { return "jigyosyo-jp" }
func (jigyosyoSource) Description() string { return "Japan Post large-office postal codes (jigyosyo)" }
func (jigyosyoSource) DefaultURL() string {
	return "https://www.post.japanpost.jp/zipcode/dl/jigyosyo/zip/jigyosyo.zip"
}
func (jigyosyoSource) License() string       { return "Japan Post (free use)" }
func (jigyosyoSource) Archive() string       { return "jigyosyo.zip" }
func (jigyosyoSource) Layout() postal.Layout { return postal.LayoutOffice }
func (jigyosyoSource) Encoding() string      { return "shift_jis" }
