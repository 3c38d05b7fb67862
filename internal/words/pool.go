// Package words supplies the word sources boards are dealt from.
package words

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed words_en.txt
var defaultList string

// Pool is an immutable, de-duplicated word source.
type Pool struct {
	words []string
}

// NewPool normalizes and de-duplicates the given words. Entries are trimmed
// and upper-cased; blanks and lines starting with '#' are dropped.
func NewPool(entries []string) (*Pool, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		w := strings.ToUpper(strings.TrimSpace(e))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("word pool is empty")
	}
	return &Pool{words: out}, nil
}

// Default returns the embedded English pool.
func Default() *Pool {
	p, err := NewPool(strings.Split(defaultList, "\n"))
	if err != nil {
		// The embedded list is part of the build; an empty one is a
		// packaging bug.
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return p
}

// FromFile loads a pool from a newline-separated file.
func FromFile(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	p, err := NewPool(strings.Split(string(raw), "\n"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Words returns a copy of the pool's contents.
func (p *Pool) Words() []string {
	return append([]string(nil), p.words...)
}

// Size returns how many distinct words the pool holds.
func (p *Pool) Size() int {
	return len(p.words)
}
