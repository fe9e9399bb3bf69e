package repo

import (
	"context"
	"database/sql"

	"github.com/wishlyst/giftregistry/internal/models"
)

const giftColumns = "id, name, price, holiday, recipient, description, link, image, created_at"

// GiftRepo persists catalog gifts.
type GiftRepo struct {
	DB *sql.DB
}

// NewGiftRepo returns a new GiftRepo.
func NewGiftRepo(db *sql.DB) *GiftRepo {
	return &GiftRepo{DB: db}
}

// GiftFilter narrows searches. Empty fields match everything.
type GiftFilter struct {
	Holiday   string
	Recipient string
	// Query matches name or description, case-insensitive substring.
	Query string
}

// Create inserts a gift and returns it with id and created_at set.
func (r *GiftRepo) Create(ctx context.Context, g models.Gift) (models.Gift, error) {
	var gift models.Gift
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO gifts (name, price, holiday, recipient, description, link, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+giftColumns,
		g.Name, g.Price, g.Holiday, g.Recipient, g.Description, g.Link, g.Image,
	).Scan(
		&gift.ID, &gift.Name, &gift.Price, &gift.Holiday, &gift.Recipient,
		&gift.Description, &gift.Link, &gift.Image, &gift.CreatedAt,
	)
	return gift, err
}

// GetByID returns one gift, or ErrNotFound.
func (r *GiftRepo) GetByID(ctx context.Context, id int) (models.Gift, error) {
	var gift models.Gift
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+giftColumns+` FROM gifts WHERE id = $1`, id,
	).Scan(
		&gift.ID, &gift.Name, &gift.Price, &gift.Holiday, &gift.Recipient,
		&gift.Description, &gift.Link, &gift.Image, &gift.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Gift{}, ErrNotFound
	}
	return gift, err
}

// DeleteByID removes a gift. Membership rows go with it via cascade.
func (r *GiftRepo) DeleteByID(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM gifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns gifts matching the filter, paginated and ordered by id.
func (r *GiftRepo) Search(ctx context.Context, f GiftFilter, limit, offset int) ([]models.Gift, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+giftColumns+`
		 FROM gifts
		 WHERE ($1 = '' OR holiday = $1)
		   AND ($2 = '' OR recipient = $2)
		   AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
		 ORDER BY id
		 LIMIT $4 OFFSET $5`,
		f.Holiday, f.Recipient, f.Query, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []models.Gift
	for rows.Next() {
		var g models.Gift
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Price, &g.Holiday, &g.Recipient,
			&g.Description, &g.Link, &g.Image, &g.CreatedAt,
		); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}
