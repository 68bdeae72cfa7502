// Package counter allocates synthetic page numbers for bibstems that have no
// real pagination. State is a JSON document mapping bibstem to year to the
// last page handed out.
//
// The load-increment-write cycle is not locked. Two processes sharing one
// counter file can both read the same value and the last writer wins.
package counter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// State maps bibstem -> year -> last allocated page.
type State map[string]map[string]int

// Entry is one flattened (bibstem, year, page) row of a State.
type Entry struct {
	Bibstem string `json:"bibstem"`
	Year    string `json:"year"`
	Page    int    `json:"page"`
}

// Load reads the counter document at path. A missing file is an empty state.
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if state == nil {
		return nil, &LoadError{Path: path, Err: errNotObject}
	}
	return state, nil
}

// fileMode is the permission of a newly created counter file.
const fileMode os.FileMode = 0644

// Save writes state to path through a temporary file and a rename, so a
// failed write never leaves a truncated document behind. An existing file
// keeps its permission bits.
func Save(path string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	mode := fileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// GetPage allocates the next page for (bibstem, year) in the counter file at
// path and returns it. The first allocation for a pair is 1. The new value is
// only returned once it has been written.
func GetPage(bibstem, year, path string) (int, error) {
	if bibstem == "" || year == "" || path == "" {
		return 0, ErrUsage
	}

	state, err := Load(path)
	if err != nil {
		return 0, err
	}

	page := state.Next(bibstem, year)
	if err := Save(path, state); err != nil {
		return 0, err
	}
	return page, nil
}

// Next increments and returns the in-memory counter for (bibstem, year).
func (s State) Next(bibstem, year string) int {
	years, ok := s[bibstem]
	if !ok || years == nil {
		years = map[string]int{}
		s[bibstem] = years
	}
	years[year]++
	return years[year]
}

// Entries returns the state as rows sorted by bibstem then year.
func (s State) Entries() []Entry {
	var out []Entry
	for bibstem, years := range s {
		for year, page := range years {
			out = append(out, Entry{Bibstem: bibstem, Year: year, Page: page})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bibstem != out[j].Bibstem {
			return out[i].Bibstem < out[j].Bibstem
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// String renders an entry for log messages.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s: %d", e.Bibstem, e.Year, e.Page)
}
