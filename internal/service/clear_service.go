package service

import "context"

type clearer interface {
	Clear(ctx context.Context) error
}

// ClearService wipes every account, session and game.
type ClearService struct {
	store clearer
}

func NewClearService(store clearer) *ClearService {
	return &ClearService{store: store}
}

func (s *ClearService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return wrapError(KindPersistence, "could not clear data", err)
	}
	return nil
}
