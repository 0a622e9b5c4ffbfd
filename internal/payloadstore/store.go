// Package payloadstore persists large JSON record collections to a local
// directory despite a configurable per-payload quota. Small payloads are
// written as a single blob; larger ones are split into ordered chunk files
// with a metadata record written last, so a reader never observes metadata
// pointing at not-yet-written chunks.
package payloadstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultKey is the collection key used for the synced order set.
	DefaultKey = "shopify_orders"

	defaultChunkThreshold = 5 << 20  // Single-blob writes below this size
	defaultMaxPayload     = 50 << 20 // Quota for one serialized payload
	defaultChunkSize      = 500      // Records per chunk file
)

// ErrQuotaExceeded indicates the serialized payload exceeds the store quota.
// Nothing is written; existing data under the key stays intact.
var ErrQuotaExceeded = errors.New("payload exceeds storage quota")

// Metadata describes a chunked payload. LastUpdated drives TTL eviction.
type Metadata struct {
	TotalItems  int       `json:"totalItems"`
	ChunkCount  int       `json:"chunkCount"`
	ChunkSize   int       `json:"chunkSize"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Options tune the store. Zero values fall back to defaults.
type Options struct {
	ChunkThreshold int64
	MaxPayload     int64
	ChunkSize      int
}

// Store is a directory-backed JSON store for one or more record collections.
type Store struct {
	dir            string
	chunkThreshold int64
	maxPayload     int64
	chunkSize      int

	mu          sync.Mutex
	subscribers []func(key string)
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create payload store dir: %w", err)
	}

	s := &Store{
		dir:            dir,
		chunkThreshold: opts.ChunkThreshold,
		maxPayload:     opts.MaxPayload,
		chunkSize:      opts.ChunkSize,
	}
	if s.chunkThreshold <= 0 {
		s.chunkThreshold = defaultChunkThreshold
	}
	if s.maxPayload <= 0 {
		s.maxPayload = defaultMaxPayload
	}
	if s.chunkSize <= 0 {
		s.chunkSize = defaultChunkSize
	}
	return s, nil
}

// Subscribe registers a callback invoked after every successful Save.
// Callbacks run synchronously on the saving goroutine and must be cheap.
func (s *Store) Subscribe(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	subs := make([]func(string), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
}

// Save persists records under key, chunking when the serialized size
// crosses the threshold. On success every subscriber is notified.
func (s *Store) Save(key string, records []json.RawMessage) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("serialize payload: %w", err)
	}

	if int64(len(payload)) > s.maxPayload {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrQuotaExceeded, len(payload), s.maxPayload)
	}

	if int64(len(payload)) < s.chunkThreshold {
		if err := s.writeFile(s.blobPath(key), payload); err != nil {
			return err
		}
		// A direct write supersedes any chunked layout left from before
		s.removeChunks(key)
		s.notify(key)
		return nil
	}

	if err := s.saveChunked(key, records); err != nil {
		return err
	}
	s.notify(key)
	return nil
}

func (s *Store) saveChunked(key string, records []json.RawMessage) error {
	chunkCount := (len(records) + s.chunkSize - 1) / s.chunkSize

	for i := 0; i < chunkCount; i++ {
		start := i * s.chunkSize
		end := start + s.chunkSize
		if end > len(records) {
			end = len(records)
		}

		chunk, err := json.Marshal(records[start:end])
		if err != nil {
			return fmt.Errorf("serialize chunk %d: %w", i, err)
		}
		if err := s.writeFile(s.chunkPath(key, i), chunk); err != nil {
			return err
		}
	}

	count, err := json.Marshal(chunkCount)
	if err != nil {
		return err
	}
	if err := s.writeFile(s.countPath(key), count); err != nil {
		return err
	}

	// Metadata last: readers key off it to discover the chunk layout
	meta, err := json.Marshal(Metadata{
		TotalItems:  len(records),
		ChunkCount:  chunkCount,
		ChunkSize:   s.chunkSize,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := s.writeFile(s.metadataPath(key), meta); err != nil {
		return err
	}

	// The direct blob would shadow the chunks on read
	os.Remove(s.blobPath(key))

	log.Printf("Payload store: saved %d records under %q in %d chunks", len(records), key, chunkCount)
	return nil
}

// Load returns the records stored under key. A missing key yields an empty
// slice. For chunked payloads, missing or corrupt chunks are skipped rather
// than failing the read: this is a local cache, not a system of record.
func (s *Store) Load(key string) ([]json.RawMessage, error) {
	if data, err := os.ReadFile(s.blobPath(key)); err == nil {
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse payload %q: %w", key, err)
		}
		return records, nil
	}

	meta, err := s.readMetadata(key)
	if err != nil {
		return []json.RawMessage{}, nil
	}

	var records []json.RawMessage
	for i := 0; i < meta.ChunkCount; i++ {
		data, err := os.ReadFile(s.chunkPath(key, i))
		if err != nil {
			log.Printf("Payload store: chunk %d of %q missing, skipping", i, key)
			continue
		}

		var chunk []json.RawMessage
		if err := json.Unmarshal(data, &chunk); err != nil {
			log.Printf("Payload store: chunk %d of %q corrupt, skipping", i, key)
			continue
		}
		records = append(records, chunk...)
	}

	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// Cleanup evicts the payload under key when its metadata is older than
// maxAgeDays. Returns true when an eviction happened.
func (s *Store) Cleanup(key string, maxAgeDays int) (bool, error) {
	meta, err := s.readMetadata(key)
	if err != nil {
		return false, nil
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	if meta.LastUpdated.After(cutoff) {
		return false, nil
	}

	log.Printf("Payload store: evicting %q (last updated %s)", key, meta.LastUpdated.Format(time.RFC3339))
	return true, s.Clear(key)
}

// Clear removes the blob, every chunk, the chunk count, and the metadata
// for key. This is the documented "clear cache" operation.
func (s *Store) Clear(key string) error {
	os.Remove(s.blobPath(key))
	s.removeChunks(key)
	return nil
}

func (s *Store) removeChunks(key string) {
	if meta, err := s.readMetadata(key); err == nil {
		for i := 0; i < meta.ChunkCount; i++ {
			os.Remove(s.chunkPath(key, i))
		}
	} else {
		// No readable metadata; sweep by filename pattern instead
		matches, _ := filepath.Glob(filepath.Join(s.dir, key+"_chunk_*.json"))
		for _, match := range matches {
			os.Remove(match)
		}
	}
	os.Remove(s.countPath(key))
	os.Remove(s.metadataPath(key))
}

func (s *Store) readMetadata(key string) (*Metadata, error) {
	data, err := os.ReadFile(s.metadataPath(key))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// writeFile writes atomically via a temp file in the same directory.
func (s *Store) writeFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(s.dir, "payload_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func (s *Store) blobPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) chunkPath(key string, i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_chunk_%d.json", key, i))
}

func (s *Store) countPath(key string) string {
	return filepath.Join(s.dir, key+"_chunks.json")
}

func (s *Store) metadataPath(key string) string {
	return filepath.Join(s.dir, key+"_metadata.json")
}
