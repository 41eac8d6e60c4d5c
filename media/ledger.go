package media

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/models"
)

// GormLedger stores orphaned assets in the orphan_assets table.
type GormLedger struct {
	db      *gorm.DB
	backoff time.Duration
}

// NewGormLedger returns a ledger writing to db. backoff is the delay before the
// first retry of a provider failure.
func NewGormLedger(db *gorm.DB, backoff time.Duration) *GormLedger {
	if backoff <= 0 {
		backoff = 10 * time.Minute
	}
	return &GormLedger{db: db, backoff: backoff}
}

// RecordOrphan implements Ledger.
func (l *GormLedger) RecordOrphan(ctx context.Context, res DeleteResult) error {
	row := models.OrphanAsset{
		URL:        res.URL,
		Identifier: res.Identifier,
		Kind:       string(res.Kind),
		Reason:     string(res.Reason),
		LastError:  res.Error,
		Attempts:   1,
		NextTryAt:  time.Now().Add(l.backoff),
	}
	return l.db.WithContext(ctx).Create(&row).Error
}

// Due lists unresolved provider failures whose next retry is due.
func (l *GormLedger) Due(ctx context.Context, maxAttempts, limit int) ([]models.OrphanAsset, error) {
	var rows []models.OrphanAsset
	err := l.db.WithContext(ctx).
		Where("resolved_at IS NULL AND reason = ? AND attempts < ? AND next_try_at <= ?",
			string(ReasonProviderError), maxAttempts, time.Now()).
		Order("next_try_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Resolve marks an orphan as deleted upstream.
func (l *GormLedger) Resolve(ctx context.Context, id string) error {
	now := time.Now()
	return l.db.WithContext(ctx).Model(&models.OrphanAsset{}).
		Where("id = ?", id).
		Update("resolved_at", &now).Error
}

// Retry bumps the attempt counter and pushes the next try back exponentially.
func (l *GormLedger) Retry(ctx context.Context, row models.OrphanAsset, lastErr string) error {
	attempts := row.Attempts + 1
	next := time.Now().Add(l.backoff << min(attempts, 10))
	return l.db.WithContext(ctx).Model(&models.OrphanAsset{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"attempts":    attempts,
			"last_error":  lastErr,
			"next_try_at": next,
		}).Error
}

// Sweeper periodically retries orphan deletes and clears stale staged files.
type Sweeper struct {
	ledger      *GormLedger
	client      *Client
	intake      *Intake
	interval    time.Duration
	stagedTTL   time.Duration
	maxAttempts int
	batch       int
	log         *zap.Logger
}

// SweeperConfig tunes a Sweeper.
type SweeperConfig struct {
	Interval    time.Duration
	StagedTTL   time.Duration
	MaxAttempts int
	Batch       int
}

// NewSweeper builds a Sweeper; zero config values fall back to defaults.
func NewSweeper(ledger *GormLedger, client *Client, intake *Intake, cfg SweeperConfig, log *zap.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StagedTTL <= 0 {
		cfg.StagedTTL = time.Hour
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		ledger:      ledger,
		client:      client,
		intake:      intake,
		interval:    cfg.Interval,
		stagedTTL:   cfg.StagedTTL,
		maxAttempts: cfg.MaxAttempts,
		batch:       cfg.Batch,
		log:         log.Named("sweeper"),
	}
}

// Start runs the sweeper until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single sweep pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if s.intake != nil {
		if n, err := s.intake.SweepStale(s.stagedTTL); err != nil {
			s.log.Warn("staged sweep failed", zap.Error(err))
		} else if n > 0 {
			s.log.Info("removed stale staged files", zap.Int("count", n))
		}
	}

	rows, err := s.ledger.Due(ctx, s.maxAttempts, s.batch)
	if err != nil {
		s.log.Warn("orphan query failed", zap.Error(err))
		return
	}
	for _, row := range rows {
		res := s.client.Delete(ctx, row.URL, ParseKind(row.Kind))
		if res.Success {
			if err := s.ledger.Resolve(ctx, row.ID); err != nil {
				s.log.Warn("resolve orphan failed", zap.String("id", row.ID), zap.Error(err))
			}
			continue
		}
		if err := s.ledger.Retry(ctx, row, res.Error); err != nil {
			s.log.Warn("reschedule orphan failed", zap.String("id", row.ID), zap.Error(err))
		}
	}
}
