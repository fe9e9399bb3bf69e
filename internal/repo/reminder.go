package repo

import (
	"context"
	"database/sql"

	"github.com/wishlyst/giftregistry/internal/models"
)

// ReminderRepo persists holiday reminder schedules.
type ReminderRepo struct {
	DB *sql.DB
}

// NewReminderRepo returns a new ReminderRepo.
func NewReminderRepo(db *sql.DB) *ReminderRepo {
	return &ReminderRepo{DB: db}
}

// Create inserts a reminder for userID.
func (r *ReminderRepo) Create(ctx context.Context, userID int, holiday, cronExpr string, enabled bool) (*models.Reminder, error) {
	rem := &models.Reminder{}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO reminders (user_id, holiday, cron_expr, enabled)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, holiday, cron_expr, enabled, created_at`,
		userID, holiday, cronExpr, enabled,
	).Scan(&rem.ID, &rem.UserID, &rem.Holiday, &rem.CronExpr, &rem.Enabled, &rem.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// ListByUser returns userID's reminders ordered by id.
func (r *ReminderRepo) ListByUser(ctx context.Context, userID int) ([]models.Reminder, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, holiday, cron_expr, enabled, created_at
		 FROM reminders WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Holiday, &rem.CronExpr, &rem.Enabled, &rem.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rem)
	}
	return list, rows.Err()
}

// ListEnabled returns all enabled reminders (for the cron runner).
func (r *ReminderRepo) ListEnabled(ctx context.Context) ([]models.Reminder, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, holiday, cron_expr, enabled, created_at
		 FROM reminders WHERE enabled = true ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Holiday, &rem.CronExpr, &rem.Enabled, &rem.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rem)
	}
	return list, rows.Err()
}

// Update changes holiday, cron_expr, and enabled for one of userID's reminders.
func (r *ReminderRepo) Update(ctx context.Context, userID, id int, holiday, cronExpr string, enabled bool) (*models.Reminder, error) {
	rem := &models.Reminder{}
	err := r.DB.QueryRowContext(ctx,
		`UPDATE reminders
		 SET holiday = $1, cron_expr = $2, enabled = $3
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, user_id, holiday, cron_expr, enabled, created_at`,
		holiday, cronExpr, enabled, id, userID,
	).Scan(&rem.ID, &rem.UserID, &rem.Holiday, &rem.CronExpr, &rem.Enabled, &rem.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// Delete removes one of userID's reminders.
func (r *ReminderRepo) Delete(ctx context.Context, userID, id int) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
