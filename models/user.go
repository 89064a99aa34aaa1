package models

import "time"

const UserTable = "rk_users"

// Role is the closed set of account roles. Authorization decisions go
// through the capability methods below, never through raw string checks
// scattered in handlers.
type Role string

const (
	RolePenyewa Role = "penyewa" // borrower / storefront customer
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePenyewa, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// CanReviewOrders covers the reservation workflow: approve, reject,
// confirm payment, mark returned.
func (r Role) CanReviewOrders() bool { return r == RoleStaff || r == RoleAdmin }

// CanManageCatalog covers category and item CRUD.
func (r Role) CanManageCatalog() bool { return r == RoleAdmin }

// CanManageUsers covers staff accounts and user deletion.
func (r Role) CanManageUsers() bool { return r == RoleAdmin }

// CanViewReports covers the daily report and monthly CSV export.
func (r Role) CanViewReports() bool { return r == RoleStaff || r == RoleAdmin }

// CanViewPaymentProofs: proof images carry personal data, admins only.
func (r Role) CanViewPaymentProofs() bool { return r == RoleAdmin }

type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         Role   `gorm:"size:20;not null;default:'penyewa'" json:"role"`
	ImageFile    string `gorm:"size:100;not null;default:'default.jpg'" json:"imageFile"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Rentals []Rental `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return UserTable }
