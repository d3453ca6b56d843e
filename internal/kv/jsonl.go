package kv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// JSONLFileName is the file created inside the data directory.
const JSONLFileName = "itemlists.jsonl"

// jsonlRecord is one line of the JSONL file.
type jsonlRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// JSONLBackend keeps all keys in memory and rewrites the whole file after
// every mutation using an atomic temp-file, fsync, rename sequence.
type JSONLBackend struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// OpenJSONL loads dataDir/itemlists.jsonl, creating the directory if needed.
// A missing file is an empty store. Malformed lines are skipped.
func OpenJSONL(dataDir string) (*JSONLBackend, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(dataDir, JSONLFileName)

	records, err := readJSONL(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data := make(map[string]string, len(records))
	for _, raw := range records {
		var rec jsonlRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Key == "" {
			continue
		}
		data[rec.Key] = rec.Value
	}
	return &JSONLBackend{path: path, data: data}, nil
}

// Get returns the value for key from the loaded records.
func (j *JSONLBackend) Get(key string) (string, bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	v, ok := j.data[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file.
func (j *JSONLBackend) Set(key, value string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	prev, existed := j.data[key]
	j.data[key] = value
	if err := j.persistLocked(); err != nil {
		if existed {
			j.data[key] = prev
		} else {
			delete(j.data, key)
		}
		return err
	}
	return nil
}

// Remove deletes key and rewrites the file when it was present.
func (j *JSONLBackend) Remove(key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	prev, existed := j.data[key]
	if !existed {
		return nil
	}
	delete(j.data, key)
	if err := j.persistLocked(); err != nil {
		j.data[key] = prev
		return err
	}
	return nil
}

// SetAll writes every record with a single file rewrite. On failure none of
// the records are applied.
func (j *JSONLBackend) SetAll(records map[string]string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	saved := maps.Clone(j.data)
	maps.Copy(j.data, records)
	if err := j.persistLocked(); err != nil {
		j.data = saved
		return err
	}
	return nil
}

// Keys returns the keys starting with prefix in no particular order.
func (j *JSONLBackend) Keys(prefix string) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var keys []string
	for k := range j.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Close is a no-op; every mutation is already on disk.
func (j *JSONLBackend) Close() error { return nil }

// persistLocked writes every record sorted by key. The caller holds j.mu.
func (j *JSONLBackend) persistLocked() error {
	keys := make([]string, 0, len(j.data))
	for k := range j.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		b, err := json.Marshal(jsonlRecord{Key: k, Value: j.data[k]})
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", k, err)
		}
		records = append(records, b)
	}
	return writeJSONL(j.path, records)
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	abort := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return abort("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return abort("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return abort("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return abort("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
