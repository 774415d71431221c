package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer or admin account. The password hash is never
// serialized; emails are stored lowercase and unique.
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"type:varchar(50);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	Phone     string         `json:"phone,omitempty" gorm:"type:varchar(30)"`
	AvatarURL string         `json:"avatar_url,omitempty" gorm:"type:varchar(255)"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	Addresses []Address      `json:"addresses,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Wishlist  []Product      `json:"wishlist,omitempty" gorm:"many2many:user_wishlist"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Address is a saved shipping address belonging to a user
type Address struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(50)"`
	Street    string    `json:"street" gorm:"type:varchar(255)"`
	City      string    `json:"city" gorm:"type:varchar(100)"`
	State     string    `json:"state" gorm:"type:varchar(100)"`
	Zip       string    `json:"zip" gorm:"type:varchar(20)"`
	Country   string    `json:"country" gorm:"type:varchar(100)"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
