package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shopfront/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	rec := userToRecord(u)
	rec.ID = 0
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	created := userFromRecord(rec)
	return &created, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findUser(ctx, "id = ?", id)
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *GormRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.userExists(ctx, "username = ?", username)
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.userExists(ctx, "email = ?", email)
}

func (r *GormRepo) findUser(ctx context.Context, cond string, arg any) (*models.User, error) {
	var rec userRecord
	if err := r.DB.WithContext(ctx).Where(cond, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := userFromRecord(rec)
	return &user, nil
}

func (r *GormRepo) userExists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&userRecord{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}
