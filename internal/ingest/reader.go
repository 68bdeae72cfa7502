package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines.
// Ingest records with long reference lists easily pass the scanner default.
const MaxJSONLLineCapacity = 8 * 1024 * 1024

// Parse decodes ingest records from data. A JSON object yields one record and
// a JSON array yields one record per element.
func Parse(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var recs []Record
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("parsing ingest array: %w", err)
		}
		return recs, nil
	}

	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("parsing ingest record: %w", err)
	}
	return []Record{rec}, nil
}

// ReadFile reads ingest records from a file. Files ending in .jsonl are read
// one record per line; anything else goes through Parse.
func ReadFile(path string) ([]Record, error) {
	if strings.HasSuffix(path, ".jsonl") {
		return ReadJSONL(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ingest file: %w", err)
	}
	recs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadJSONL reads all records from a JSONL file.
func ReadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ingest file: %w", err)
	}
	defer f.Close()

	var recs []Record
	scanner := bufio.NewScanner(f)

	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ingest file: %w", err)
	}

	return recs, nil
}
