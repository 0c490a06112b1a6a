package models

import "time"

// User is a registered patient account.
type User struct {
	ID        string    `gorm:"primaryKey;column:id" json:"_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;size:255;not null;unique;index" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Address   string    `gorm:"column:address" json:"address"`
	Dob       string    `gorm:"column:dob" json:"dob"`
	Gender    string    `gorm:"column:gender" json:"gender"`
	Image     string    `gorm:"column:image" json:"image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
