package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Token is the opaque bearer credential issued on login. A user holds at most one.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Brand       string          `gorm:"size:100;not null" json:"brand"`
	Image       *string         `gorm:"size:100" json:"image"`
}

type Order struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
}

// Review.ProductID is a plain column rather than a foreign key: reviews may
// reference products that do not exist.
type Review struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Rating    int    `gorm:"not null" json:"rating"`
	Comment   string `gorm:"type:text;not null" json:"comment"`
}

// All lists every entity in migration order.
func All() []any {
	return []any{&User{}, &Token{}, &Product{}, &Order{}, &CartItem{}, &Category{}, &Review{}}
}
