package models

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type User struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// ProductPage is one 1-indexed slice of a product listing or search.
type ProductPage struct {
	Items      []Product
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}
