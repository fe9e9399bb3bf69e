package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO lists \(user_id, title\)`).
		WithArgs(1, "Dad").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at"}).
			AddRow(5, 1, "Dad", time.Now()))

	repo := NewListRepo(db)
	list, err := repo.Create(context.Background(), 1, "Dad")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if list.ID != 5 || list.Title != "Dad" || list.UserID != 1 {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListRepo_GetByID_WithGifts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_id, title, created_at`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at"}).
			AddRow(5, 1, "Dad", time.Now()))
	mock.ExpectQuery(`FROM gifts g`).
		WithArgs(5).
		WillReturnRows(giftRows("socks"))

	repo := NewListRepo(db)
	list, err := repo.GetByID(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(list.Gifts) != 1 || list.Gifts[0].Name != "socks" {
		t.Errorf("unexpected gifts: %+v", list.Gifts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListRepo_GetByID_OtherOwnerIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// user 2 asks for user 1's list: the ownership predicate matches nothing.
	mock.ExpectQuery(`SELECT id, user_id, title, created_at`).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at"}))

	repo := NewListRepo(db)
	_, err = repo.GetByID(context.Background(), 2, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListRepo_AddGift(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM lists`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO list_gifts`).
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewListRepo(db)
	if err := repo.AddGift(context.Background(), 1, 5, 7); err != nil {
		t.Fatalf("AddGift: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListRepo_RemoveGift_MissingMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM lists`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM list_gifts`).
		WithArgs(5, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewListRepo(db)
	if err := repo.RemoveGift(context.Background(), 1, 5, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
