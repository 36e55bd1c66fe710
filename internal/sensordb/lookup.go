package sensordb

import (
	"errors"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound reports that a make/model pair has no datasheet.
var ErrNotFound = errors.New("sensor not found in database")

// Lookup resolves make/model metadata pairs against the loaded datasheets.
// Matching is best-effort over curated free text: case-insensitive, tolerant
// of extra whitespace and of models that repeat the make as a prefix.
// Read-only after construction and safe for concurrent use; results are
// memoized because datasets repeat the same few cameras across thousands of
// images.
type Lookup struct {
	sheets []Datasheet
	memo   *gocache.Cache
}

// cached lookup outcome, including misses.
type memoEntry struct {
	width float64
	found bool
}

// NewLookup creates a lookup over the given datasheets.
func NewLookup(sheets []Datasheet) *Lookup {
	return &Lookup{
		sheets: sheets,
		memo:   gocache.New(gocache.NoExpiration, 0),
	}
}

// SensorWidth returns the physical sensor width in millimeters for a camera
// make/model, or ErrNotFound. Deterministic: the same input always yields
// the same result.
func (l *Lookup) SensorWidth(brand, model string) (float64, error) {
	key := normalize(brand) + "|" + normalize(model)
	if v, ok := l.memo.Get(key); ok {
		entry := v.(memoEntry)
		if !entry.found {
			return 0, ErrNotFound
		}
		return entry.width, nil
	}

	width, found := l.match(brand, model)
	l.memo.Set(key, memoEntry{width: width, found: found}, gocache.NoExpiration)
	if !found {
		return 0, ErrNotFound
	}
	return width, nil
}

func (l *Lookup) match(brand, model string) (float64, bool) {
	nMake := normalize(brand)
	nModel := normalize(model)

	// exact match first
	for _, d := range l.sheets {
		if normalize(d.Make) == nMake && normalize(d.Model) == nModel {
			return d.SensorWidthMM, true
		}
	}

	// tolerate a model string that repeats the make, e.g. metadata
	// ("NIKON CORPORATION", "D850") against datasheet
	// ("NIKON CORPORATION", "NIKON D850")
	for _, d := range l.sheets {
		dMake, dModel := normalize(d.Make), normalize(d.Model)
		if dMake != nMake && !strings.Contains(nMake, dMake) && !strings.Contains(dMake, nMake) {
			continue
		}
		makeTokens := append(strings.Fields(dMake), strings.Fields(nMake)...)
		if stripMakeTokens(nModel, makeTokens) == stripMakeTokens(dModel, makeTokens) {
			return d.SensorWidthMM, true
		}
	}
	return 0, false
}

// normalize lowercases and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// stripMakeTokens drops leading model words that repeat the make.
func stripMakeTokens(model string, makeTokens []string) string {
	fields := strings.Fields(model)
	for len(fields) > 0 && hasToken(makeTokens, fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func hasToken(tokens []string, s string) bool {
	for _, t := range tokens {
		if t == s {
			return true
		}
	}
	return false
}
