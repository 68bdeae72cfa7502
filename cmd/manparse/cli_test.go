package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	manparseBinary     string
	manparseBinaryOnce sync.Once
	manparseBinaryErr  error
)

// getBinary builds manparse once and returns its path.
func getBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI build in short mode")
	}
	manparseBinaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			manparseBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "manparse-test-*")
		if err != nil {
			manparseBinaryErr = err
			return
		}
		manparseBinary = filepath.Join(tmpDir, "manparse")

		cmd := exec.Command("go", "build", "-o", manparseBinary, "./cmd/manparse")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			manparseBinaryErr = &buildError{output: string(output), err: err}
		}
	})
	if manparseBinaryErr != nil {
		t.Fatalf("failed to build manparse: %v", manparseBinaryErr)
	}
	return manparseBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// setupWorkspace creates a config home with a manparse config pointing at
// files inside the returned directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	configDir := filepath.Join(dir, "config", "manparse")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := "counter_path: " + filepath.Join(dir, "counter.json") + "\n" +
		"lookup_db: " + filepath.Join(dir, "lookup.db") + "\n" +
		"output_file: " + filepath.Join(dir, "out.tag") + "\n" +
		"suppressed_titles: ['^erratum']\n" +
		"bibstems:\n  MPEC:\n    synthetic_page: true\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// runManparse executes manparse in dir and returns stdout, stderr and the
// exit code.
func runManparse(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(getBinary(t), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+filepath.Join(dir, "config"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("running manparse: %v", err)
	}
	return stdout.String(), stderr.String(), code
}

func TestCLI_Translate(t *testing.T) {
	dir := setupWorkspace(t)
	input := filepath.Join(dir, "mpec.jsonl")
	content := `{"title": {"textEnglish": "MPEC 2023-F01: 2023 FA"}, "authors": [{"name": {"pubraw": "Minor Planet Center Staff", "collab": "Minor Planet Center Staff"}}], "otherContributor": [{"role": "editor", "contrib": {"name": {"surname": "Williams", "given_name": "Gareth"}}}], "publication": {"pubYear": "2023"}}
{"title": {"textEnglish": "Erratum: ignore me"}}
`
	if err := os.WriteFile(input, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runManparse(t, dir, "translate", "--bibstem", "MPEC", input)
	if code != ExitSuccess {
		t.Fatalf("translate exit %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}

	var summary TranslateSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, stdout)
	}
	if summary.Records != 2 || summary.Written != 1 || summary.Suppressed != 1 || summary.Pages != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.RunID == "" {
		t.Error("summary has no run id")
	}
	if stderr != "" && !strings.Contains(stderr, "run_id="+summary.RunID) {
		t.Errorf("run id %q not carried into logs: %s", summary.RunID, stderr)
	}

	if _, err := os.Stat(filepath.Join(dir, "counter.json")); !os.IsNotExist(err) {
		t.Errorf("circular allocated a counter page: %v", err)
	}

	tag, err := os.ReadFile(filepath.Join(dir, "out.tag"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"%T 2023 FA\n",
		"%A Williams, Gareth\n",
		"%J Minor Planet Electronic Circ., No. 2023-F01\n",
	} {
		if !strings.Contains(string(tag), want) {
			t.Errorf("tag file missing %q:\n%s", want, tag)
		}
	}
}

func TestCLI_CounterPage(t *testing.T) {
	dir := setupWorkspace(t)

	for want := 1; want <= 2; want++ {
		stdout, stderr, code := runManparse(t, dir, "counter", "page", "MPEC", "2024")
		if code != ExitSuccess {
			t.Fatalf("counter page exit %d: %s", code, stderr)
		}
		var res CounterPageResult
		if err := json.Unmarshal([]byte(stdout), &res); err != nil {
			t.Fatal(err)
		}
		if res.Page != want {
			t.Errorf("page = %d, want %d", res.Page, want)
		}
	}

	stdout, _, code := runManparse(t, dir, "counter", "show", "--human")
	if code != ExitSuccess || !strings.Contains(stdout, "MPEC") {
		t.Errorf("counter show exit %d:\n%s", code, stdout)
	}
}

func TestCLI_CounterLoadErrorExitCode(t *testing.T) {
	dir := setupWorkspace(t)
	if err := os.WriteFile(filepath.Join(dir, "counter.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, code := runManparse(t, dir, "counter", "page", "MPEC", "2024")
	if code != ExitCounterError {
		t.Errorf("exit code = %d, want %d", code, ExitCounterError)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "counter.json"))
	if string(data) != "{broken" {
		t.Error("counter file changed after a load error")
	}
}

func TestCLI_Lookup(t *testing.T) {
	dir := setupWorkspace(t)
	tsv := filepath.Join(dir, "map.tsv")
	if err := os.WriteFile(tsv, []byte("2023ApJ...950...12S\t10.3847/abc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runManparse(t, dir, "lookup", "import", tsv)
	if code != ExitSuccess {
		t.Fatalf("lookup import exit %d: %s", code, stderr)
	}
	var imported LookupImportResult
	if err := json.Unmarshal([]byte(stdout), &imported); err != nil || imported.Imported != 1 {
		t.Errorf("import result = %s", stdout)
	}

	stdout, _, code = runManparse(t, dir, "lookup", "get", "--human", "https://doi.org/10.3847/ABC")
	if code != ExitSuccess || strings.TrimSpace(stdout) != "2023ApJ...950...12S" {
		t.Errorf("lookup get exit %d: %q", code, stdout)
	}

	_, _, code = runManparse(t, dir, "lookup", "get", "10.1/missing")
	if code != ExitDataError {
		t.Errorf("missing DOI exit code = %d, want %d", code, ExitDataError)
	}
}

func TestCLI_BadConfig(t *testing.T) {
	dir := setupWorkspace(t)
	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, code := runManparse(t, dir, "--config", bad, "config", "show")
	if code != ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, ExitConfigError)
	}
}
