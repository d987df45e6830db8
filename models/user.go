package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Email    string `gorm:"uniqueIndex" json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `gorm:"default:user" json:"role"`
}
