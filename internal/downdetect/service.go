package downdetect

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const checkTimeout = 5 * time.Second

// DependencyCheck reports whether one backing service answers.
type DependencyCheck func(ctx context.Context) error

type DowndetectService struct {
	databaseCheck DependencyCheck
	cacheCheck    DependencyCheck
}

func NewDowndetectService(databaseCheck, cacheCheck DependencyCheck) *DowndetectService {
	return &DowndetectService{
		databaseCheck: databaseCheck,
		cacheCheck:    cacheCheck,
	}
}

// IsAvailable checks the database and the cache in parallel and returns the
// first failure.
func (s *DowndetectService) IsAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := s.databaseCheck(groupCtx); err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		if err := s.cacheCheck(groupCtx); err != nil {
			return fmt.Errorf("cache check failed: %w", err)
		}
		return nil
	})

	return group.Wait()
}
