package model

import "time"

type Role string

const (
	RoleStudent      Role = "STUDENT"
	RoleCollaborator Role = "COLLABORATOR"
	RoleAdmin        Role = "ADMIN"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(120);not null"`
	Email     string    `json:"email" gorm:"type:varchar(160);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(120);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);index;not null;default:'STUDENT'"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
