package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wishlyst/giftregistry/internal/metrics"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// Run starts the background scheduler: a nightly audit-log prune plus one cron
// entry per enabled reminder, producing an upcoming-holiday digest of matching
// gifts. Reminder schedules are reloaded from the DB every 60 seconds so edits
// take effect without a restart. Run blocks; call it in its own goroutine.
func Run(auditRepo *repo.AuditRepo, reminderRepo *repo.ReminderRepo, giftRepo *repo.GiftRepo, retentionDays int) {
	c := cron.New()
	var mu sync.Mutex
	entryByID := make(map[int]cron.EntryID) // reminder ID -> cron entry

	// Nightly retention prune at 03:00.
	_, err := c.AddFunc("0 3 * * *", func() {
		n, err := auditRepo.PruneOlderThan(context.Background(), retentionDays)
		if err != nil {
			slog.Error("scheduler: prune audit log", "err", err)
			return
		}
		slog.Info("scheduler: pruned audit log", "rows", n, "retention_days", retentionDays)
	})
	if err != nil {
		slog.Error("scheduler: register prune job", "err", err)
	}

	syncReminders := func() {
		mu.Lock()
		defer mu.Unlock()

		// Remove all current entries so we reflect the DB (and pick up edits)
		for _, entryID := range entryByID {
			c.Remove(entryID)
		}
		entryByID = make(map[int]cron.EntryID)

		reminders, err := reminderRepo.ListEnabled(context.Background())
		if err != nil {
			slog.Error("scheduler: list enabled reminders", "err", err)
			return
		}

		for _, rem := range reminders {
			rem := rem
			entryID, err := c.AddFunc(rem.CronExpr, func() { digest(giftRepo, rem.UserID, rem.Holiday) })
			if err != nil {
				slog.Error("scheduler: invalid cron_expr",
					"reminder_id", rem.ID, "cron_expr", rem.CronExpr, "err", err)
				continue
			}
			entryByID[rem.ID] = entryID
		}
	}

	syncReminders()
	c.Start()

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		syncReminders()
	}
}

// digest logs a summary of gifts matching the reminder's holiday. Delivery
// beyond the log (email, push) is a separate concern and not wired here.
func digest(giftRepo *repo.GiftRepo, userID int, holiday string) {
	gifts, err := giftRepo.Search(context.Background(), repo.GiftFilter{Holiday: holiday}, 20, 0)
	if err != nil {
		slog.Error("scheduler: reminder digest", "holiday", holiday, "err", err)
		return
	}
	metrics.ReminderDigestTotal.Inc()
	slog.Info("scheduler: reminder digest",
		"user_id", userID,
		"holiday", holiday,
		"gift_count", len(gifts))
}
