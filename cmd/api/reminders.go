package main

import (
	"fmt"
	"time"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/go-co-op/gocron/v2"
)

// startReminderScheduler registers a daily job that mails the club about
// players whose medical clearance expires within the configured lead time.
// Without SMTP credentials the job is skipped rather than failing at send.
func (app *application) startReminderScheduler() error {
	if !app.config.Reminders.Enabled {
		app.logger.Info().Msg("clearance reminders disabled")
		return nil
	}
	if !app.config.SMTPConfigured() {
		app.logger.Warn().Msg("smtp not configured, clearance reminders disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	cronExpr := fmt.Sprintf("0 %d * * *", app.config.Reminders.HourOfDay)
	_, err = scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(app.sendClearanceReminders),
		gocron.WithName("clearance-reminders"),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	app.scheduler = scheduler
	app.logger.Info().Str("cron", cronExpr).Msg("clearance reminder job scheduled")

	return nil
}

func (app *application) sendClearanceReminders() {
	deadline := data.DateOf(time.Now().AddDate(0, 0, app.config.Reminders.LeadDays))

	players, err := app.models.Players.GetExpiringClearances(deadline)
	if err != nil {
		app.logger.Error().Err(err).Msg("cannot fetch expiring clearances")
		return
	}

	for _, player := range players {
		recipient := player.Email1
		if recipient == "" {
			recipient = player.Email2
		}
		if recipient == "" {
			app.logger.Warn().Int64("player_id", player.ID).
				Msg("no contact email for expiring clearance")
			continue
		}

		payload := map[string]string{
			"FirstName": player.FirstName,
			"LastName":  player.LastName,
			"ExpiresOn": player.MedicalValidUntil.String(),
		}

		err := app.mailer.Send(recipient, "clearance_reminder.tmpl", payload)
		if err != nil {
			app.logger.Error().Err(err).Int64("player_id", player.ID).
				Msg("cannot send clearance reminder")
			continue
		}

		app.logger.Info().Int64("player_id", player.ID).
			Str("expires_on", player.MedicalValidUntil.String()).
			Msg("clearance reminder sent")
	}
}
