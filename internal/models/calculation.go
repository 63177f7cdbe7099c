package models

import "time"

// Calculation records one arithmetic operation performed by a user.
type Calculation struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`                                // Owning user ID.
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Owning user record.

	Operation string  `gorm:"type:text;not null"` // add, subtract, multiply or divide.
	Operand1  float64 `gorm:"not null"`           // First operand.
	Operand2  float64 `gorm:"not null"`           // Second operand.
	Result    float64 `gorm:"not null"`           // Computed result.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
