package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate        = validator.New()
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	maxPrice        = decimal.New(1, 8)
)

// Price exponent bounds. The scale allows trailing zeros such as "1.000".
const (
	maxPriceScale    = 20
	maxPriceExponent = 8
)

// FieldErrors maps a request field to the reason it was rejected.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e[field] = "field required"
		return false
	}
	return true
}

func (e FieldErrors) maxLen(field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		e[field] = fmt.Sprintf("ensure this value has at most %d characters", n)
	}
}

type SignUpSchema struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (s SignUpSchema) Validate() error {
	errs := FieldErrors{}
	if errs.required("username", s.Username) {
		errs.maxLen("username", s.Username, 150)
		if _, bad := errs["username"]; !bad && !usernamePattern.MatchString(s.Username) {
			errs["username"] = "may contain only letters, numbers, and @/./+/-/_ characters"
		}
	}
	errs.required("password", s.Password)
	if errs.required("email", s.Email) {
		if err := validate.Var(s.Email, "email"); err != nil {
			errs["email"] = "value is not a valid email address"
		}
	}
	return errs.err()
}

type LoginSchema struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s LoginSchema) Validate() error {
	errs := FieldErrors{}
	errs.required("username", s.Username)
	errs.required("password", s.Password)
	return errs.err()
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// ProductSchema is the create/replace body for a product. Price is a pointer so
// an omitted price can be told apart from zero.
type ProductSchema struct {
	ID          *uint            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Brand       string           `json:"brand"`
	Image       *string          `json:"image"`
}

func (s ProductSchema) Validate() error {
	errs := FieldErrors{}
	if errs.required("name", s.Name) {
		errs.maxLen("name", s.Name, 100)
	}
	errs.required("description", s.Description)
	if errs.required("brand", s.Brand) {
		errs.maxLen("brand", s.Brand, 100)
	}
	if s.Image != nil {
		errs.maxLen("image", *s.Image, 100)
	}
	switch {
	case s.Price == nil:
		errs["price"] = "field required"
	case s.Price.IsZero():
	case s.Price.IsNegative():
		errs["price"] = "must be greater than or equal to 0"
	// Rounding and comparison rescale the coefficient, so the exponent is
	// bounded first.
	case s.Price.Exponent() < -maxPriceScale:
		errs["price"] = "ensure that there are no more than 2 decimal places"
	case s.Price.Exponent() > maxPriceExponent:
		errs["price"] = "ensure that there are no more than 10 digits in total"
	case !s.Price.Round(2).Equal(*s.Price):
		errs["price"] = "ensure that there are no more than 2 decimal places"
	case s.Price.GreaterThanOrEqual(maxPrice):
		errs["price"] = "ensure that there are no more than 10 digits in total"
	}
	return errs.err()
}

func (s ProductSchema) Product() Product {
	p := Product{
		Name:        s.Name,
		Description: s.Description,
		Brand:       s.Brand,
		Image:       s.Image,
	}
	if s.Price != nil {
		p.Price = *s.Price
	}
	return p
}

type OrderSchema struct {
	ID        *uint `json:"id"`
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (s OrderSchema) Validate() error {
	return validateLine(s.ProductID, s.Quantity)
}

func (s OrderSchema) Order() Order {
	return Order{ProductID: s.ProductID, Quantity: s.Quantity}
}

type CartItemSchema struct {
	ID        *uint `json:"id"`
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (s CartItemSchema) Validate() error {
	return validateLine(s.ProductID, s.Quantity)
}

func (s CartItemSchema) CartItem() CartItem {
	return CartItem{ProductID: s.ProductID, Quantity: s.Quantity}
}

func validateLine(productID uint, quantity int) error {
	errs := FieldErrors{}
	if productID == 0 {
		errs["product_id"] = "field required"
	}
	if quantity < 1 {
		errs["quantity"] = "must be greater than or equal to 1"
	}
	return errs.err()
}

type CategorySchema struct {
	ID          *uint  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s CategorySchema) Validate() error {
	errs := FieldErrors{}
	if errs.required("name", s.Name) {
		errs.maxLen("name", s.Name, 100)
	}
	errs.required("description", s.Description)
	return errs.err()
}

func (s CategorySchema) Category() Category {
	return Category{Name: s.Name, Description: s.Description}
}

// ReviewSchema carries an optional product_id; the one in the URL always wins.
type ReviewSchema struct {
	ID        *uint   `json:"id"`
	ProductID *uint   `json:"product_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

func (s ReviewSchema) Validate() error {
	errs := FieldErrors{}
	if s.Rating < 1 || s.Rating > 5 {
		errs["rating"] = "must be between 1 and 5"
	}
	return errs.err()
}

func (s ReviewSchema) Review(productID uint) Review {
	r := Review{ProductID: productID, Rating: s.Rating}
	if s.Comment != nil {
		r.Comment = *s.Comment
	}
	return r
}
