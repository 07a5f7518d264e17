package model

import "github.com/shopspring/decimal"

// Periodic is implemented by records that belong to a calendar month.
type Periodic interface {
	Period() (month, year int)
}

type Resident struct {
	BaseModel
	OwnerName       string `gorm:"type:varchar(255);not null" json:"owner_name" validate:"required"`
	TenantName      string `gorm:"type:varchar(255)" json:"tenant_name"`
	ApartmentNumber int    `gorm:"not null;index" json:"apartment_number" validate:"gt=0"`
	Phone           string `gorm:"type:varchar(32)" json:"phone"`
}

// Payment is a condominium fee paid by an apartment. Month and Year are
// optional (zero when absent) and fall back to Date.
type Payment struct {
	BaseModel
	ApartmentNumber int             `gorm:"not null;index" json:"apartment_number" validate:"gt=0"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" validate:"gte=0"`
	Date            Date            `gorm:"not null" json:"date"`
	Month           int             `gorm:"not null;default:0" json:"month,omitempty" validate:"gte=0,lte=12"`
	Year            int             `gorm:"not null;default:0" json:"year,omitempty" validate:"gte=0"`
	Description     string          `gorm:"type:varchar(255)" json:"description"`
}

func (p Payment) Period() (month, year int) {
	month, year = p.Month, p.Year
	if month == 0 {
		month = int(p.Date.Month())
	}
	if year == 0 {
		year = p.Date.Year()
	}
	return month, year
}

type Expense struct {
	BaseModel
	Description string          `gorm:"type:varchar(255);not null" json:"description" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" validate:"gte=0"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Date        Date            `gorm:"not null" json:"date"`
}

func (e Expense) Period() (month, year int) {
	return int(e.Date.Month()), e.Date.Year()
}
