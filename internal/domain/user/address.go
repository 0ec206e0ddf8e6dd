package user

import "time"

const DefaultCountry = "United States"

// Address belongs to exactly one user. At most one address per user has
// IsDefault set; the address book aggregate and a partial unique index
// keep it that way.
type Address struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null;column:user_id" json:"user_id"`
	Label      string    `gorm:"not null;size:100;column:label" json:"label"`
	Street     string    `gorm:"not null;size:255;column:street" json:"street"`
	City       string    `gorm:"not null;size:100;column:city" json:"city"`
	State      string    `gorm:"not null;size:100;column:state" json:"state"`
	Country    string    `gorm:"not null;size:100;column:country" json:"country"`
	PostalCode string    `gorm:"not null;size:20;column:postal_code" json:"postal_code"`
	IsDefault  bool      `gorm:"not null;default:false;column:is_default" json:"is_default"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Address) TableName() string { return "addresses" }

// MissingFields lists required fields that are blank.
func (a *Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name, val string
	}{
		{"label", a.Label},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
