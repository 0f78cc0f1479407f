package application

import "context"

// List returns every stored record, most recent first. Callers must have passed
// the admin gate; no credential check happens here.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	storeCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.List(storeCtx)
}
