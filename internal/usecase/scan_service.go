package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/smartcart/backend/internal/domain"
)

// ExtractionRecorder observes calls to the extraction model
type ExtractionRecorder interface {
	ObserveExtraction(kind, outcome string, duration time.Duration)
}

// credentialChecker is implemented by extractors that know up front whether
// they can reach the model
type credentialChecker interface {
	Configured() bool
}

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	CacheTTL time.Duration
}

// ScanService turns uploaded photos into cart entries and shopping-list items
type ScanService struct {
	session  *Session
	products domain.ProductExtractor
	lists    domain.ListExtractor
	cache    domain.CacheRepository
	recorder ExtractionRecorder
	logger   zerolog.Logger
	cacheTTL time.Duration
}

// NewScanService creates a new scan service with dependencies. cache and
// recorder may be nil.
func NewScanService(
	session *Session,
	products domain.ProductExtractor,
	lists domain.ListExtractor,
	cache domain.CacheRepository,
	recorder ExtractionRecorder,
	logger zerolog.Logger,
	config ScanServiceConfig,
) *ScanService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ScanService{
		session:  session,
		products: products,
		lists:    lists,
		cache:    cache,
		recorder: recorder,
		logger:   logger.With().Str("component", "scan").Logger(),
		cacheTTL: cacheTTL,
	}
}

// AnalyzeBatch analyzes files one at a time and adds every recognized product
// to the cart. A failing file is recorded and the batch moves on; a missing
// API key stops the batch at once. When it stops part way, the returned result
// holds the entries already added together with the error.
func (s *ScanService) AnalyzeBatch(ctx context.Context, files []domain.Upload) (*domain.BatchResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files submitted", domain.ErrInvalidRequest)
	}
	if c, ok := s.products.(credentialChecker); ok && !c.Configured() {
		return nil, domain.ErrMissingCredential
	}

	result := &domain.BatchResult{Added: []domain.CartEntry{}}
	for _, file := range files {
		record, err := s.analyze(ctx, file)
		if err != nil {
			if errors.Is(err, domain.ErrMissingCredential) {
				return result, err
			}
			s.logger.Warn().Err(err).Str("file", file.FileName).Msg("product analysis failed")
			result.Failures = append(result.Failures, domain.FileFailure{
				FileName: file.FileName,
				Error:    err.Error(),
			})
			continue
		}
		entry := s.session.AddProduct(*record, 1)
		result.Added = append(result.Added, entry)
	}

	if len(result.Failures) > 0 {
		names := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			names = append(names, f.FileName)
		}
		result.Message = fmt.Sprintf("Failed to analyze %d of %d files: %s",
			len(result.Failures), len(files), strings.Join(names, ", "))
	}

	s.logger.Info().
		Int("files", len(files)).
		Int("added", len(result.Added)).
		Int("failed", len(result.Failures)).
		Msg("scan batch finished")
	return result, nil
}

// ImportList reads item names from a photographed list and appends them to the
// shopping list. On failure the list is left as it was.
func (s *ScanService) ImportList(ctx context.Context, file domain.Upload) ([]domain.ListEntry, error) {
	if err := checkContentType(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListReadFailed, err)
	}

	start := time.Now()
	names, err := s.lists.ExtractList(ctx, file)
	if err != nil {
		s.observe("list", "error", start)
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		if !errors.Is(err, domain.ErrListReadFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrListReadFailed, err)
		}
		return nil, err
	}
	s.observe("list", "success", start)

	added := s.session.ImportListItems(names)
	s.logger.Info().Str("file", file.FileName).Int("items", len(added)).Msg("shopping list imported")
	return added, nil
}

func (s *ScanService) analyze(ctx context.Context, file domain.Upload) (*domain.ProductRecord, error) {
	if err := checkContentType(&file); err != nil {
		return nil, err
	}

	cacheKey := productCacheKey(file.Data)
	if record, ok := s.getFromCache(ctx, cacheKey); ok {
		s.observe("product", "cache_hit", time.Now())
		return record, nil
	}

	start := time.Now()
	record, err := s.products.ExtractProduct(ctx, file)
	if err != nil {
		s.observe("product", "error", start)
		if errors.Is(err, domain.ErrMissingCredential) || errors.Is(err, domain.ErrAnalysisFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}
	s.observe("product", "success", start)

	s.setInCache(ctx, cacheKey, record)
	return record, nil
}

// checkContentType fills in a missing content type by sniffing the bytes and
// accepts only images and PDFs.
func checkContentType(file *domain.Upload) error {
	ct := strings.ToLower(strings.TrimSpace(file.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(file.Data).String()
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
	}
	file.ContentType = ct

	if strings.HasPrefix(ct, "image/") || ct == "application/pdf" {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrUnsupportedContentType, ct)
}

// productCacheKey identifies a photo by content. Format: "product:{sha256}"
func productCacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "product:" + hex.EncodeToString(sum[:])
}

func (s *ScanService) getFromCache(ctx context.Context, key string) (*domain.ProductRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("extraction cache read failed")
		}
		return nil, false
	}
	var record domain.ProductRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return nil, false
	}
	return &record, true
}

func (s *ScanService) setInCache(ctx context.Context, key string, record *domain.ProductRecord) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("extraction cache write failed")
	}
}

func (s *ScanService) observe(kind, outcome string, start time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveExtraction(kind, outcome, time.Since(start))
}
