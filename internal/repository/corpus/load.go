package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// seedDocument is one line of a JSONL corpus seed file.
type seedDocument struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Subject string `json:"subject"`
}

// LoadJSONL reads a JSONL seed file and adds every document to the snapshot.
// Blank lines are skipped. Returns the number of documents loaded.
func (s *Snapshot) LoadJSONL(ctx context.Context, path string) (int, error) {
	docs, err := readSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Add(ctx, docs...); err != nil {
		return 0, fmt.Errorf("index corpus seed %s: %w", path, err)
	}
	return len(docs), nil
}

// readSeedFile parses a JSONL seed file into documents.
// Blank lines and lines with empty content are skipped.
func readSeedFile(path string) ([]domain.Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus seed %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var docs []domain.Document
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var seed seedDocument
		if err := json.Unmarshal([]byte(line), &seed); err != nil {
			return nil, fmt.Errorf("parse corpus seed line %d: %w", lineNo, err)
		}
		if seed.Content == "" {
			continue
		}

		meta := map[string]string{}
		if seed.Source != "" {
			meta["source"] = seed.Source
		}
		if seed.Subject != "" {
			meta["subject"] = seed.Subject
		}

		docs = append(docs, domain.NewDocument(seed.Content, meta))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus seed %s: %w", path, err)
	}

	return docs, nil
}
