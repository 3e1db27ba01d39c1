package cards

import (
	"log/slog"
	"os"
	"sync"
)

// Provider is the card-data collaborator: an opaque lookup returning the
// serialized card catalog clients download at startup
type Provider interface {
	GetCardMap() string
}

// Service is a file-backed Provider. The catalog is read once and cached;
// reloads are explicit.
type Service struct {
	mu      sync.RWMutex
	catalog string
	logger  *slog.Logger
}

// New creates a cards Service with an empty catalog
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "cards")),
	}
}

var _ Provider = (*Service)(nil)

// LoadFromFile reads the serialized catalog from disk
func (s *Service) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = string(data)
	s.mu.Unlock()

	s.logger.Info("card catalog loaded",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}

// SetCatalog replaces the catalog directly (used in tests and tooling)
func (s *Service) SetCatalog(catalog string) {
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
}

// GetCardMap returns the serialized card catalog
func (s *Service) GetCardMap() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}
