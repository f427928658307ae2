package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    *string   `gorm:"column:first_name;size:100"`
	LastName     *string   `gorm:"column:last_name;size:100"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:50;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string { return "roles" }

type UserRole struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	RoleID    int64     `gorm:"column:role_id;primaryKey"`
	GrantedBy *int64    `gorm:"column:granted_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserRole) TableName() string { return "user_roles" }

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string { return "permissions" }

type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (RolePermission) TableName() string { return "role_permissions" }
