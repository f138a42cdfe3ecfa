package repository

import (
	"context"

	"foodstack-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByCPF(ctx context.Context, cpf string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Search(ctx context.Context, nameTerm, cpfDigits string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateSecret(ctx context.Context, userID uuid.UUID, hashedSecret string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByCPF expects the digit-only form.
func (r *userRepo) FindByCPF(ctx context.Context, cpf string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches a case-insensitive substring of the name, or a substring of the stored
// CPF when cpfDigits is not empty.
func (r *userRepo) Search(ctx context.Context, nameTerm, cpfDigits string) ([]model.User, error) {
	var users []model.User
	query := r.db.WithContext(ctx).Model(&model.User{})
	if cpfDigits != "" {
		query = query.Where("LOWER(name) LIKE ? OR cpf LIKE ?", likePattern(nameTerm), "%"+cpfDigits+"%")
	} else {
		query = query.Where("LOWER(name) LIKE ?", likePattern(nameTerm))
	}
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdateSecret(ctx context.Context, userID uuid.UUID, hashedSecret string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("secret", hashedSecret)
	return res.RowsAffected, res.Error
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error) {
	return softDelete(r.db.WithContext(ctx).Model(&model.User{}), id, deletedBy)
}
