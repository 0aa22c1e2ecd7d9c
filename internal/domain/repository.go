package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Upload is a file submitted for analysis
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ProductExtractor reads a product record from a label photo or document
type ProductExtractor interface {
	ExtractProduct(ctx context.Context, file Upload) (*ProductRecord, error)
}

// ListExtractor reads shopping-list item names from a photo or document
type ListExtractor interface {
	ExtractList(ctx context.Context, file Upload) ([]string, error)
}

// ReportRenderer writes a cart report, e.g. as PDF
type ReportRenderer interface {
	Render(w io.Writer, report Report) error
	ContentType() string
}
