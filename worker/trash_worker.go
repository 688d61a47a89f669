package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
)

// TrashWorker purges teams that have been sitting in the trash longer than
// the retention window. Restore is only possible while the row still exists.
type TrashWorker struct {
	DB        *gorm.DB
	Logger    *logrus.Entry
	Retention time.Duration
	Interval  time.Duration
}

func NewTrashWorker(db *gorm.DB, logger *logrus.Entry, retentionDays int) *TrashWorker {
	return &TrashWorker{
		DB:        db,
		Logger:    logger,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		Interval:  time.Hour,
	}
}

func (tw *TrashWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	tw.Logger.Info("trash worker started")

	ticker := time.NewTicker(tw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tw.Logger.Info("trash worker shutting down")
			return
		case <-ticker.C:
			tw.Purge()
		}
	}
}

// Purge hard-deletes every team trashed before the retention cutoff,
// membership rows included.
func (tw *TrashWorker) Purge() {
	cutoff := time.Now().Add(-tw.Retention)

	var expired []models.Team
	if err := tw.DB.
		Where("is_deleted = ? AND deleted_at < ?", true, cutoff).
		Find(&expired).Error; err != nil {
		tw.Logger.WithError(err).Error("failed to list expired trashed teams")
		return
	}

	var purged int64
	for i := range expired {
		// Select takes the team_members rows down with the team
		if err := tw.DB.Select("Members").Delete(&expired[i]).Error; err != nil {
			tw.Logger.WithError(err).WithField("team_id", expired[i].ID).Error("failed to purge trashed team")
			continue
		}
		purged++
	}

	if purged > 0 {
		tw.Logger.WithField("purged", purged).Info("purged trashed teams")
	}
}
