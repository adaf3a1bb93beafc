package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/appnutry/nutry-backend/internal/notifications"
	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/logger"
	"github.com/appnutry/nutry-backend/pkg/metrics"
	"github.com/appnutry/nutry-backend/pkg/types"
)

const (
	paymentReminderJobName  = "payment-reminder"
	defaultDueLookaheadDays = 3
	defaultReminderBatch    = 250
)

type duePlansRepo interface {
	ListDueForReminder(ctx context.Context, from, to types.Date, limit int) ([]models.PlanRecord, error)
}

type reminderCreator interface {
	CreateReminder(ctx context.Context, params notifications.ReminderParams) (bool, error)
}

// PaymentReminderJobParams configure the payment reminder sweep.
type PaymentReminderJobParams struct {
	Logger        *logger.Logger
	Plans         duePlansRepo
	Notifications reminderCreator
	Metrics       *metrics.CronJobMetrics
	LookaheadDays int
	BatchSize     int
}

type paymentReminderJob struct {
	logg          *logger.Logger
	plans         duePlansRepo
	notifications reminderCreator
	metrics       *metrics.CronJobMetrics
	lookaheadDays int
	batchSize     int
	now           func() time.Time
}

// NewPaymentReminderJob builds the job that turns upcoming plan payments into
// pending notifications.
func NewPaymentReminderJob(params PaymentReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Plans == nil {
		return nil, fmt.Errorf("plans repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	lookahead := params.LookaheadDays
	if lookahead <= 0 {
		lookahead = defaultDueLookaheadDays
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReminderBatch
	}
	return &paymentReminderJob{
		logg:          params.Logger,
		plans:         params.Plans,
		notifications: params.Notifications,
		metrics:       params.Metrics,
		lookaheadDays: lookahead,
		batchSize:     batch,
		now:           time.Now,
	}, nil
}

func (j *paymentReminderJob) Name() string { return paymentReminderJobName }

func (j *paymentReminderJob) Run(ctx context.Context) error {
	today := types.DateOf(j.now().UTC())
	until := today.AddDays(j.lookaheadDays)

	plans, err := j.plans.ListDueForReminder(ctx, today, until, j.batchSize)
	if err != nil {
		return fmt.Errorf("list due plans: %w", err)
	}

	created := 0
	for _, plan := range plans {
		if plan.NextPaymentDate == nil {
			continue
		}
		planID := plan.ID
		patientID := plan.PatientID
		due := *plan.NextPaymentDate
		wrote, err := j.notifications.CreateReminder(ctx, notifications.ReminderParams{
			UserID:      plan.UserID,
			PatientID:   &patientID,
			PlanID:      &planID,
			Type:        enums.NotificationTypePaymentDue,
			Title:       "Payment due soon",
			Message:     fmt.Sprintf("A plan payment of %s is due on %s.", plan.Price.StringFixed(2), due),
			ScheduledAt: due.Time(),
		})
		if err != nil {
			return fmt.Errorf("create reminder for plan %s: %w", plan.ID, err)
		}
		if wrote {
			created++
		}
	}

	if j.metrics != nil {
		j.metrics.AddProcessed(j.Name(), created)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"window_from":       today,
		"window_to":         until,
		"plans_due":         len(plans),
		"reminders_created": created,
	})
	j.logg.Info(logCtx, "payment reminder sweep complete")
	return nil
}
