package store

import (
	"context"
	"errors"
	"fmt"

	dbutil "github.com/router-for-me/calculator-api/internal/db"
	"github.com/router-for-me/calculator-api/internal/models"
	"gorm.io/gorm"
)

// UserStore persists user accounts.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore constructs a UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user and returns it with its assigned ID and timestamp.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if errTx != nil {
		if column, ok := dbutil.UniqueViolationColumn(errTx); ok {
			switch column {
			case "username":
				return models.User{}, ErrUsernameTaken
			case "email":
				return models.User{}, ErrEmailTaken
			default:
				return models.User{}, fmt.Errorf("%w: %s", ErrConflict, column)
			}
		}
		return models.User{}, fmt.Errorf("create user: %w", errTx)
	}
	return user, nil
}

// Get loads a user by ID.
func (s *UserStore) Get(ctx context.Context, id uint64) (models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", errFind)
	}
	return user, nil
}

// GetByUsername loads a user by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user by username: %w", errFind)
	}
	return user, nil
}

// List returns users in creation order.
func (s *UserStore) List(ctx context.Context, page Page) ([]models.User, error) {
	page = page.normalize()
	rows := make([]models.User, 0)
	if page.Limit == 0 {
		return rows, nil
	}
	if errFind := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("list users: %w", errFind)
	}
	return rows, nil
}

// Delete removes a user together with the user's calculations.
func (s *UserStore) Delete(ctx context.Context, id uint64) error {
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errFind := tx.First(&user, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errFind
		}
		if errDelCalcs := tx.Where("user_id = ?", id).Delete(&models.Calculation{}).Error; errDelCalcs != nil {
			return errDelCalcs
		}
		if errDelUser := tx.Delete(&models.User{}, id).Error; errDelUser != nil {
			return errDelUser
		}
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", errTx)
	}
	return nil
}
