package model

import (
	"time"

	"foodstack-pos/pkg/cpf"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a staff member allowed to operate the till.
type User struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	CPF    string `gorm:"column:cpf;type:varchar(11);not null;uniqueIndex:idx_usuarios_cpf_active,where:deleted_at IS NULL" json:"cpf" validate:"required,cpf"`
	Email  string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone  string `gorm:"type:varchar(20)" json:"phone"`
	Login  string `gorm:"type:varchar(100)" json:"login"`
	Secret string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, hidden from JSON
}

func (User) TableName() string {
	return "usuarios"
}

// SetSecret hashes and sets the user's credential
func (u *User) SetSecret(secret string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Secret = string(hashed)
	return nil
}

// CheckSecret verifies if the provided credential matches the stored hash
func (u *User) CheckSecret(secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Secret), []byte(secret))
	return err == nil
}

// Snapshot freezes the identity fields copied into a cash session.
func (u *User) Snapshot() OperatorSnapshot {
	return OperatorSnapshot{ID: u.ID, Name: u.Name, CPF: u.CPF}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		CPF:       cpf.Format(u.CPF),
		Email:     u.Email,
		Phone:     u.Phone,
		Login:     u.Login,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
