package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU          string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price" validate:"gte=0"`
	SerialNumber string          `gorm:"type:varchar(128);index" json:"serial_number"`
	MacAddress   string          `gorm:"type:varchar(64)" json:"mac_address"`
	AssetTag     string          `gorm:"type:varchar(128);index" json:"asset_tag"`
	ImageURL     string          `gorm:"type:text" json:"image_url"`
	Description  string          `gorm:"type:text" json:"description"`

	// ExpectedQuantity is the stock an editor last saw. An update that
	// carries it fails when the stored quantity has moved on.
	ExpectedQuantity *int `gorm:"-" json:"expected_quantity,omitempty"`
}

func (p *Product) OutOfStock() bool {
	return p.Quantity == 0
}

// Person is someone who takes items out of stock.
type Person struct {
	BaseModel
	Name       string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email      string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone      string `gorm:"type:varchar(32)" json:"phone"`
	Department string `gorm:"type:varchar(128)" json:"department"`
}
