// Package jsonfile implements the repository ports on top of a directory of
// human-readable JSON files, one logical collection per file.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// Store is the generic load/save gateway shared by the repositories.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed and returns a store rooted
// in it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: could not create data directory %q: %v", apperrors.ErrStorage, dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(fileName string) string {
	return filepath.Join(s.dir, fileName)
}

// Load decodes the named file into v. A missing file is not an error: v is
// left at its default value, which stands for the empty collection.
func (s *Store) Load(fileName string, v any) error {
	data, err := os.ReadFile(s.path(fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: could not read %q: %v", apperrors.ErrStorage, fileName, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: could not decode %q: %v", apperrors.ErrStorage, fileName, err)
	}
	return nil
}

// Save encodes v as indented JSON into the named file. With atomic set, the
// bytes go to a temporary file in the same directory which is then renamed
// into place, so an interrupted write can never leave a half-written file.
// Direct overwrite is reserved for advisory data where losing the last
// entry is tolerable.
func (s *Store) Save(fileName string, v any, atomic bool) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: could not encode %q: %v", apperrors.ErrStorage, fileName, err)
	}
	data = append(data, '\n')

	if !atomic {
		if err := os.WriteFile(s.path(fileName), data, 0o644); err != nil {
			return fmt.Errorf("%w: could not write %q: %v", apperrors.ErrStorage, fileName, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: could not create temp file for %q: %v", apperrors.ErrStorage, fileName, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: could not write temp file for %q: %v", apperrors.ErrStorage, fileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: could not close temp file for %q: %v", apperrors.ErrStorage, fileName, err)
	}
	if err := os.Rename(tmpName, s.path(fileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: could not replace %q: %v", apperrors.ErrStorage, fileName, err)
	}
	return nil
}
