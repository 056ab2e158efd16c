package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"tsgpt/internal/domain"
	"tsgpt/internal/ports"
)

// Store loads and persists catalogs on disk through a codec.
//
// Writes go straight to the destination path; an interrupted write can leave a
// truncated file behind.
type Store struct {
	Codec ports.CatalogCodec
}

func New(codec ports.CatalogCodec) *Store { return &Store{Codec: codec} }

// Load reads and parses the catalog at path. Read failures wrap
// domain.ErrIO, malformed content wraps domain.ErrParse.
func (s *Store) Load(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewCatalog(), domain.WrapIO("read", path, err)
	}
	cat, err := s.Codec.Parse(data)
	if err != nil {
		return domain.NewCatalog(), fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func (s *Store) Save(path string, cat *domain.Catalog, language string) error {
	data, err := s.Codec.Serialize(cat, language)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.WrapIO("write", path, err)
	}
	return nil
}

// Seed creates a new locale catalog at path from a template. An existing file
// is never overwritten.
func (s *Store) Seed(templatePath, path, language string) error {
	if _, err := os.Stat(path); err == nil {
		return domain.WrapIO("create", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return domain.WrapIO("stat", path, err)
	}
	tpl, err := os.ReadFile(templatePath)
	if err != nil {
		return domain.WrapIO("read template", templatePath, err)
	}
	data, err := s.Codec.CreateFromTemplate(tpl, language)
	if err != nil {
		return fmt.Errorf("%s: %w", templatePath, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.WrapIO("write", path, err)
	}
	return nil
}

// Exists reports whether a catalog file is present at path.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
