package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type StreakLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Reconciler sweeps every tracked user on a schedule and queues a full
// streak rebuild for each. It catches drift the incremental path missed,
// e.g. a crash between storing a log and storing its streak.
type Reconciler struct {
	streaks   StreakLister
	rebuilder *StreakRebuilder
	cron      *cron.Cron
	spec      string
}

func NewReconciler(streaks StreakLister, rebuilder *StreakRebuilder, spec string) *Reconciler {
	return &Reconciler{
		streaks:   streaks,
		rebuilder: rebuilder,
		cron:      cron.New(),
		spec:      spec,
	}
}

func (r *Reconciler) Start() error {
	log.Printf("[CRON] Scheduling streak reconciliation: %s", r.spec)

	if _, err := r.cron.AddFunc(r.spec, r.run); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()
	return nil
}

func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("[CRON] Streak reconciliation stopped")
}

func (r *Reconciler) run() {
	log.Println("[CRON] Running streak reconciliation...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userIDs, err := r.streaks.ListUserIDs(ctx)
	if err != nil {
		log.Printf("[CRON] Error listing users for reconciliation: %v", err)
		return
	}

	for _, id := range userIDs {
		r.rebuilder.Enqueue(id)
	}

	log.Printf("[CRON] Queued %d streak rebuilds", len(userIDs))
}
