package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cursor is the persisted resume position for the file source.
type Cursor struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
}

type cursorFile struct {
	path string
}

func newCursorFile(path string) *cursorFile {
	return &cursorFile{path: path}
}

// Load returns the persisted cursor, or a zero cursor when no sidecar
// file exists yet.
func (c *cursorFile) Load() (Cursor, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return Cursor{}, nil
	}
	if err != nil {
		return Cursor{}, fmt.Errorf("read cursor file %s: %w", c.path, err)
	}

	var cur Cursor
	if err := json.Unmarshal(data, &cur); err != nil {
		return Cursor{}, fmt.Errorf("decode cursor file %s: %w", c.path, err)
	}
	if cur.Offset < 0 {
		return Cursor{}, fmt.Errorf("cursor file %s has negative offset %d", c.path, cur.Offset)
	}

	return cur, nil
}

// Save writes the cursor atomically (tmp file + rename) so a crash mid-write
// leaves the previous cursor intact.
func (c *cursorFile) Save(cur Cursor) error {
	data, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cursor directory %s: %w", dir, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cursor file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("rename cursor file %s: %w", tmp, err)
	}

	return nil
}
