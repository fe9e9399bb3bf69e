package repo

import (
	"context"
	"database/sql"

	"github.com/wishlyst/giftregistry/internal/models"
)

// ListRepo persists gift lists and their memberships. Every operation is
// scoped by owner: a list id that exists but belongs to someone else behaves
// exactly like a missing list.
type ListRepo struct {
	DB *sql.DB
}

// NewListRepo returns a new ListRepo.
func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{DB: db}
}

// Create inserts a list owned by userID.
func (r *ListRepo) Create(ctx context.Context, userID int, title string) (*models.List, error) {
	l := &models.List{}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO lists (user_id, title)
		 VALUES ($1, $2)
		 RETURNING id, user_id, title, created_at`,
		userID, title,
	).Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID returns one of userID's lists with its gifts embedded, or ErrNotFound.
func (r *ListRepo) GetByID(ctx context.Context, userID, listID int) (*models.List, error) {
	l := &models.List{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at
		 FROM lists
		 WHERE id = $1 AND user_id = $2`,
		listID, userID,
	).Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	gifts, err := r.giftsForList(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Gifts = gifts
	return l, nil
}

// ListByUser returns all of userID's lists, gifts embedded, ordered by id.
func (r *ListRepo) ListByUser(ctx context.Context, userID int) ([]models.List, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, title, created_at
		 FROM lists
		 WHERE user_id = $1
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		gifts, err := r.giftsForList(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Gifts = gifts
	}
	return lists, nil
}

// Rename updates the title of one of userID's lists, or returns ErrNotFound.
func (r *ListRepo) Rename(ctx context.Context, userID, listID int, title string) (*models.List, error) {
	l := &models.List{}
	err := r.DB.QueryRowContext(ctx,
		`UPDATE lists
		 SET title = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, title, created_at`,
		title, listID, userID,
	).Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes one of userID's lists. Memberships cascade.
func (r *ListRepo) Delete(ctx context.Context, userID, listID int) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM lists WHERE id = $1 AND user_id = $2`,
		listID, userID,
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

// AddGift attaches a gift to one of userID's lists. Adding the same gift
// twice is a no-op. A list owned by someone else returns ErrNotFound.
func (r *ListRepo) AddGift(ctx context.Context, userID, listID, giftID int) error {
	if err := r.ownedBy(ctx, userID, listID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO list_gifts (list_id, gift_id)
		 VALUES ($1, $2)
		 ON CONFLICT (list_id, gift_id) DO NOTHING`,
		listID, giftID,
	)
	return err
}

// RemoveGift detaches a gift from one of userID's lists by id. Removal is
// keyed on the gift id, never its position.
func (r *ListRepo) RemoveGift(ctx context.Context, userID, listID, giftID int) error {
	if err := r.ownedBy(ctx, userID, listID); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM list_gifts WHERE list_id = $1 AND gift_id = $2`,
		listID, giftID,
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

func (r *ListRepo) ownedBy(ctx context.Context, userID, listID int) error {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM lists WHERE id = $1 AND user_id = $2`,
		listID, userID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (r *ListRepo) giftsForList(ctx context.Context, listID int) ([]models.Gift, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT g.id, g.name, g.price, g.holiday, g.recipient, g.description, g.link, g.image, g.created_at
		 FROM gifts g
		 JOIN list_gifts lg ON lg.gift_id = g.id
		 WHERE lg.list_id = $1
		 ORDER BY lg.added_at, g.id`,
		listID,
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
