// Package jobs contains the work that runs outside of HTTP requests.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecole-gestion/backend/internal/types"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/notify"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Summary counts the outcome of a reminder run.
type Summary struct {
	Tranches int
	Sent     int
	Skipped  int // Rows without a recipient address
	Failed   int
}

func (s *Summary) add(o Summary) {
	s.Tranches += o.Tranches
	s.Sent += o.Sent
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

// TrancheReminders sends a recovery reminder for every unsettled debt row
// of the tranche that matches the filter.
//
// Failing deliveries are logged and counted, they do not abort the run.
func TrancheReminders(ctx context.Context, db *gorm.DB, notifier notify.Notifier, trancheID uuid.UUID, filter recovery.StudentFilter, today types.Date) (Summary, error) {
	report, err := recovery.ComputeDebtRows(db, trancheID, filter, today)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Tranches: 1}
	for _, row := range report.Unsettled() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		err := notifier.RecoveryReminder(ctx, row)
		switch {
		case err == nil:
			summary.Sent++
		case errors.Is(err, notify.ErrNoRecipient):
			log.Debug().Str("student", row.Student.Matricule).Str("tranche", row.Tranche.Name).Msg("no recipient for reminder")
			summary.Skipped++
		default:
			log.Error().Err(err).Str("student", row.Student.Matricule).Str("tranche", row.Tranche.Name).Msg("reminder failed")
			summary.Failed++
		}
	}

	return summary, nil
}

// Reminders sends the reminders for all tranches of all active fee configurations.
func Reminders(ctx context.Context, db *gorm.DB, notifier notify.Notifier, today types.Date) (Summary, error) {
	var tranches []models.Tranche
	err := db.
		Joins("JOIN fee_configurations ON fee_configurations.id = tranches.configuration_id AND fee_configurations.deleted_at IS NULL").
		Where("fee_configurations.active = ?", true).
		Order("tranches.due_date").
		Find(&tranches).
		Error
	if err != nil {
		return Summary{}, fmt.Errorf("could not load tranches for reminders: %w", err)
	}

	var summary Summary
	for _, tranche := range tranches {
		s, err := TrancheReminders(ctx, db, notifier, tranche.ID, recovery.StudentFilter{}, today)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			summary.add(s)
			return summary, err
		}

		// A tranche deleted while the run is in progress
		if err != nil {
			log.Warn().Err(err).Str("tranche", tranche.ID.String()).Msg("skipping tranche for reminders")
			continue
		}

		summary.add(s)
	}

	return summary, nil
}

// ScheduleReminders runs Reminders on the cron schedule in the given location.
//
// The returned cron instance is already started, stop it on shutdown.
func ScheduleReminders(db *gorm.DB, notifier notify.Notifier, schedule string, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		summary, err := Reminders(ctx, db, notifier, types.Today(loc))
		if err != nil {
			log.Error().Err(err).Msg("reminder run failed")
		}

		log.Info().Int("tranches", summary.Tranches).Int("sent", summary.Sent).Int("skipped", summary.Skipped).Int("failed", summary.Failed).Msg("reminder run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("unable to schedule reminders: %w", err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Str("timezone", loc.String()).Msg("reminder scheduler started")

	return c, nil
}
