package ports

import "tsgpt/internal/domain"

// CatalogCodec reads and writes the persisted catalog document.
type CatalogCodec interface {
	Parse(data []byte) (*domain.Catalog, error)
	Serialize(c *domain.Catalog, language string) ([]byte, error)
	CreateFromTemplate(template []byte, language string) ([]byte, error)
}
