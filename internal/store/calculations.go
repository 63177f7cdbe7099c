package store

import (
	"context"
	"errors"
	"fmt"

	dbutil "github.com/router-for-me/calculator-api/internal/db"
	"github.com/router-for-me/calculator-api/internal/models"
	"gorm.io/gorm"
)

// CalculationStore persists calculation history.
type CalculationStore struct {
	db *gorm.DB
}

// NewCalculationStore constructs a CalculationStore.
func NewCalculationStore(db *gorm.DB) *CalculationStore {
	return &CalculationStore{db: db}
}

// Create records a calculation for an existing user.
func (s *CalculationStore) Create(ctx context.Context, userID uint64, operation string, operand1, operand2, result float64) (models.Calculation, error) {
	calc := models.Calculation{
		UserID:    userID,
		Operation: operation,
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
	}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if errCount := tx.Model(&models.User{}).Where("id = ?", userID).Count(&owners).Error; errCount != nil {
			return errCount
		}
		if owners == 0 {
			return ErrNotFound
		}
		return tx.Omit("User").Create(&calc).Error
	})
	if errTx != nil {
		if errors.Is(errTx, ErrNotFound) || dbutil.IsForeignKeyViolation(errTx) {
			return models.Calculation{}, ErrNotFound
		}
		return models.Calculation{}, fmt.Errorf("create calculation: %w", errTx)
	}
	return calc, nil
}

// ListForUser returns a user's calculations, most recent first.
func (s *CalculationStore) ListForUser(ctx context.Context, userID uint64, page Page) ([]models.Calculation, error) {
	page = page.normalize()
	rows := make([]models.Calculation, 0)
	if page.Limit == 0 {
		return rows, nil
	}
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("list calculations: %w", errFind)
	}
	return rows, nil
}

// ClearForUser deletes every calculation owned by userID and returns the count removed.
func (s *CalculationStore) ClearForUser(ctx context.Context, userID uint64) (int64, error) {
	var deleted int64
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Calculation{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if errTx != nil {
		return 0, fmt.Errorf("clear calculations: %w", errTx)
	}
	return deleted, nil
}
