package tradebook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists a whole book at once.
type Store interface {
	Load(ctx context.Context) (*Book, error)
	Save(ctx context.Context, book *Book) error
}

// LoadBook reads the book file at path. A missing file is an empty book.
// See DecodeBook for the meaning of skipped.
func LoadBook(path string) (book *Book, skipped []error, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewBook(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not open book file %q: %w", path, err)
	}
	defer f.Close()

	book, skipped, err = DecodeBook(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("could not decode book file %q: %w", path, err)
	}
	return book, skipped, nil
}

// SaveBook writes the book to path, creating its directory if needed.
func SaveBook(path string, book *Book) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for book %q: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening book file %q for writing: %w", path, err)
	}
	if err := EncodeBook(file, book); err != nil {
		file.Close()
		return fmt.Errorf("error writing book file %q: %w", path, err)
	}
	return file.Close()
}

// FileStore is a Store backed by a JSONL file.
type FileStore struct {
	Path string
	// OnSkip, if set, is called for every line skipped while loading.
	OnSkip func(error)
}

func (s *FileStore) Load(ctx context.Context) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	book, skipped, err := LoadBook(s.Path)
	if s.OnSkip != nil {
		for _, e := range skipped {
			s.OnSkip(e)
		}
	}
	return book, err
}

func (s *FileStore) Save(ctx context.Context, book *Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveBook(s.Path, book)
}
