package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pixvault/api/internal/repository"
	"pixvault/api/internal/storage"
)

// Sweeper reclaims thumbnail blobs whose derivative row is gone. A blob
// can only end up orphaned if the process died between a blob write and
// the rollback, so one pass a night is plenty.
type Sweeper struct {
	cron   *cron.Cron
	images *repository.ImageRepository
	store  *storage.ObjectStore
	log    zerolog.Logger
}

func NewSweeper(images *repository.ImageRepository, store *storage.ObjectStore, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:   cron.New(),
		images: images,
		store:  store,
		log:    log,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@daily", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("sweeper stop timed out")
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	keys, err := s.store.ListThumbnailKeys(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep: list failed")
		return
	}

	removed := 0
	for _, key := range keys {
		exists, err := s.images.DerivativeObjectKeyExists(ctx, key)
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("orphan sweep: lookup failed")
			return
		}
		if exists {
			continue
		}
		if err := s.store.RemoveThumbnail(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("orphan sweep: remove failed")
			continue
		}
		removed++
	}

	s.log.Info().Int("scanned", len(keys)).Int("removed", removed).Msg("orphan sweep done")
}
