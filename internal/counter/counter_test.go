package counter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetPage_FirstAllocationIsOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")

	page, err := GetPage("pds..data", "2023", path)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if page != 1 {
		t.Errorf("GetPage() = %d, want 1", page)
	}
}

func TestGetPage_SuccessiveCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")

	for want := 1; want <= 5; want++ {
		got, err := GetPage("MPEC", "2024", path)
		if err != nil {
			t.Fatalf("GetPage() call %d error = %v", want, err)
		}
		if got != want {
			t.Errorf("GetPage() call %d = %d, want %d", want, got, want)
		}
	}

	// A new year and a new bibstem each start over.
	if got, _ := GetPage("MPEC", "2025", path); got != 1 {
		t.Errorf("GetPage(new year) = %d, want 1", got)
	}
	if got, _ := GetPage("jaxa", "2024", path); got != 1 {
		t.Errorf("GetPage(new bibstem) = %d, want 1", got)
	}

	state, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state["MPEC"]["2024"] != 5 || state["MPEC"]["2025"] != 1 || state["jaxa"]["2024"] != 1 {
		t.Errorf("state = %v", state)
	}
}

func TestGetPage_ExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	if err := os.WriteFile(path, []byte(`{"ApJ..": {"2020": 41}}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := GetPage("ApJ..", "2020", path)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if got != 42 {
		t.Errorf("GetPage() = %d, want 42", got)
	}
}

func TestGetPage_MissingArguments(t *testing.T) {
	tests := []struct {
		name                string
		bibstem, year, path string
	}{
		{"no bibstem", "", "2023", "c.json"},
		{"no year", "MPEC", "", "c.json"},
		{"no path", "MPEC", "2023", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetPage(tt.bibstem, tt.year, tt.path)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("GetPage() error = %v, want ErrUsage", err)
			}
			if IsLoadError(err) || IsWriteError(err) {
				t.Error("usage error must not look like an I/O error")
			}
		})
	}
}

func TestGetPage_LoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	original := []byte("{not json")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := GetPage("MPEC", "2023", path)
	if !IsLoadError(err) {
		t.Fatalf("GetPage() error = %v, want LoadError", err)
	}
	if IsWriteError(err) || errors.Is(err, ErrUsage) {
		t.Error("load error must be distinguishable")
	}

	data, _ := os.ReadFile(path)
	if string(data) != string(original) {
		t.Errorf("counter file was modified after a load error: %q", data)
	}
}

func TestGetPage_NonObjectDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"null", "null\n"},
		{"array", "[1, 2]"},
		{"number", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "counter.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := GetPage("MPEC", "2023", path)
			if !IsLoadError(err) {
				t.Fatalf("GetPage() error = %v, want LoadError", err)
			}
			data, _ := os.ReadFile(path)
			if string(data) != tt.content {
				t.Errorf("counter file was modified: %q", data)
			}
		})
	}
}

func TestGetPage_NullYearMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	if err := os.WriteFile(path, []byte(`{"MPEC": null}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := GetPage("MPEC", "2023", path)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if got != 1 {
		t.Errorf("GetPage() = %d, want 1", got)
	}
}

func TestSave_KeepsFileMode(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		existing bool
		mode     os.FileMode
		want     os.FileMode
	}{
		{"new file", false, 0, 0644},
		{"shared file", true, 0644, 0644},
		{"group file", true, 0664, 0664},
		{"private file", true, 0600, 0600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".json")
			if tt.existing {
				if err := os.WriteFile(path, []byte("{}"), tt.mode); err != nil {
					t.Fatal(err)
				}
				if err := os.Chmod(path, tt.mode); err != nil {
					t.Fatal(err)
				}
			}

			if _, err := GetPage("MPEC", "2023", path); err != nil {
				t.Fatalf("GetPage() error = %v", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := info.Mode().Perm(); got != tt.want {
				t.Errorf("mode after save = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetPage_WriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "counter.json")

	page, err := GetPage("MPEC", "2023", path)
	if !IsWriteError(err) {
		t.Fatalf("GetPage() error = %v, want WriteError", err)
	}
	if page != 0 {
		t.Errorf("GetPage() returned %d alongside a write error", page)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("counter file should not exist after a failed write")
	}
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.json")

	if err := Save(path, State{"MPEC": {"2023": 3}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "counter.json" {
		t.Errorf("directory contents = %v, want only counter.json", entries)
	}
}

func TestState_Entries(t *testing.T) {
	s := State{
		"b": {"2021": 2, "2020": 7},
		"a": {"2022": 1},
	}

	got := s.Entries()
	want := []Entry{
		{"a", "2022", 1},
		{"b", "2020", 7},
		{"b", "2021", 2},
	}
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got[0].String() != "a 2022: 1" {
		t.Errorf("String() = %q", got[0].String())
	}
}
