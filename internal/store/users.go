package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// bcryptCost matches the adaptive work factor used for stored password hashes
const bcryptCost = 12

// RegisterUser creates a new account with a hashed password. Emails are
// stored lowercase; duplicates fail with ErrDuplicateEmail regardless of case.
func RegisterUser(ctx context.Context, db *gorm.DB, name, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleUser,
		IsActive: true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong password
// both fail with ErrInvalidCredentials so the two cases are not
// distinguishable from outside.
func AuthenticateUser(ctx context.Context, db *gorm.DB, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return &user, nil
}

// ChangePassword re-verifies the current password before storing a new hash.
// A mismatch fails with ErrInvalidCredentials and leaves the record untouched.
func ChangePassword(ctx context.Context, db *gorm.DB, userID uint, current, next string) (*model.User, error) {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return nil, ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := db.WithContext(ctx).Model(user).Update("password", string(hashed)).Error; err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return user, nil
}

// GetUser fetches a user by id with saved addresses preloaded
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).Preload("Addresses").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users []model.User `json:"users"`
	Total int64        `json:"total"`
	Pages int          `json:"pages"`
	Page  int          `json:"page"`
}

// ListUsers returns users newest first, paginated for the admin panel
func ListUsers(ctx context.Context, db *gorm.DB, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	var users []model.User
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &UserPage{
		Users: users,
		Total: total,
		Pages: pageCount(total, limit),
		Page:  page,
	}, nil
}

// UserUpdate carries the admin-editable user fields
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UpdateUser applies an admin edit. Only name, email, role and the active
// flag may change through this path.
func UpdateUser(ctx context.Context, db *gorm.DB, id uint, upd UserUpdate) (*model.User, error) {
	user, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Name != nil {
		changes["name"] = *upd.Name
	}
	if upd.Email != nil {
		changes["email"] = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Role != nil {
		if *upd.Role != model.RoleUser && *upd.Role != model.RoleAdmin {
			return nil, fmt.Errorf("unknown role %q: %w", *upd.Role, ErrForbidden)
		}
		changes["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		changes["is_active"] = *upd.IsActive
	}

	if len(changes) > 0 {
		if err := db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return user, nil
}

// DeleteUser removes a user account (admin action)
func DeleteUser(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddAddress appends a shipping address to the user's address book and
// returns the updated list
func AddAddress(ctx context.Context, db *gorm.DB, userID uint, addr model.Address) ([]model.Address, error) {
	if _, err := GetUser(ctx, db, userID); err != nil {
		return nil, err
	}

	addr.ID = 0
	addr.UserID = userID
	if err := db.WithContext(ctx).Create(&addr).Error; err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}

	var addresses []model.Address
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

func pageCount(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
