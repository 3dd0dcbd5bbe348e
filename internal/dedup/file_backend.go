package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileBackend stores state as two JSON artifacts: an array of posted
// URLs and an object mapping normalized title to ISO timestamp.
type FileBackend struct {
	urlsPath   string
	titlesPath string
}

// NewFileBackend creates a file backend writing posted_articles.json
// and posted_titles.json under dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{
		urlsPath:   filepath.Join(dir, "posted_articles.json"),
		titlesPath: filepath.Join(dir, "posted_titles.json"),
	}
}

func (fb *FileBackend) Load() ([]string, map[string]time.Time, error) {
	var urls []string
	if err := readJSON(fb.urlsPath, &urls); err != nil {
		return nil, nil, fmt.Errorf("failed to read posted articles: %w", err)
	}

	raw := map[string]string{}
	if err := readJSON(fb.titlesPath, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to read posted titles: %w", err)
	}

	titles := make(map[string]time.Time, len(raw))
	for title, stamp := range raw {
		ts, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			// Drop unparseable entries instead of failing the whole load.
			continue
		}
		titles[title] = ts
	}
	return urls, titles, nil
}

func (fb *FileBackend) Save(urls []string, titles map[string]time.Time) error {
	raw := make(map[string]string, len(titles))
	for title, ts := range titles {
		raw[title] = ts.UTC().Format(time.RFC3339Nano)
	}

	if err := writeJSON(fb.urlsPath, urls); err != nil {
		return fmt.Errorf("failed to write posted articles: %w", err)
	}
	if err := writeJSON(fb.titlesPath, raw); err != nil {
		return fmt.Errorf("failed to write posted titles: %w", err)
	}
	return nil
}

// readJSON decodes path into v. A missing or empty file leaves v
// untouched.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
