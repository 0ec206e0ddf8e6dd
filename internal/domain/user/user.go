package user

import (
	"regexp"
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:150;column:username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FirstName string    `gorm:"not null;default:'';column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;default:'';column:last_name" json:"last_name"`
	Phone     string    `gorm:"not null;default:'';size:11;column:phone" json:"phone"`
	IsStaff   bool      `gorm:"not null;default:false;column:is_staff" json:"is_staff"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

var phonePattern = regexp.MustCompile(`^0\d{10}$`)

// ValidPhone accepts the empty string or an 11 digit number starting with 0.
func ValidPhone(phone string) bool {
	return phone == "" || phonePattern.MatchString(phone)
}
