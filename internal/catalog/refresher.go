package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/ravkun27/nftix/pkg/logger"
)

// Reloadable is anything that can re-read the catalog
type Reloadable interface {
	Reload(ctx context.Context) error
}

// Refresher periodically reloads the catalog from its source
type Refresher struct {
	repo     Reloadable
	interval time.Duration
	log      *logger.Logger
	onReload func(err error)
}

// NewRefresher creates a Refresher. onReload may be nil.
func NewRefresher(repo Reloadable, interval time.Duration, log *logger.Logger, onReload func(err error)) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{
		repo:     repo,
		interval: interval,
		log:      log.Named("catalog-refresh"),
		onReload: onReload,
	}
}

// Run schedules the reload job and blocks until ctx is done.
// A non-positive interval disables refreshing.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.log.Info("catalog refresh disabled")
		<-ctx.Done()
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.refresh(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		scheduler.Shutdown()
		return fmt.Errorf("schedule catalog refresh: %w", err)
	}

	r.log.Info("catalog refresh scheduled", zap.Duration("interval", r.interval))
	scheduler.Start()

	<-ctx.Done()
	return scheduler.Shutdown()
}

func (r *Refresher) refresh(ctx context.Context) {
	err := r.repo.Reload(ctx)
	if err != nil {
		r.log.Error("catalog refresh failed", zap.Error(err))
	}
	if r.onReload != nil {
		r.onReload(err)
	}
}
