package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists users. Methods take the *gorm.DB to run on so they
// work both inside and outside a transaction.
type Repository struct{}

// Insert stores u, assigning its ID and timestamps.
func (Repository) Insert(ctx context.Context, db *gorm.DB, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	return db.WithContext(ctx).Create(u).Error
}

// FindByID returns gorm.ErrRecordNotFound when no user has id.
func (Repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*User, error) {
	var u User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail matches case-insensitively.
func (Repository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error) {
	var u User
	if err := db.WithContext(ctx).First(&u, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Query returns the base listing query, newest first.
func (Repository) Query(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Model(&User{}).Order("created_at desc, id")
}

// CountByRole counts users with role, or all users when role is empty.
func (Repository) CountByRole(ctx context.Context, db *gorm.DB, role string) (int64, error) {
	q := db.WithContext(ctx).Model(&User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
