package transport

import "github.com/Skotchmaster/shopfront/internal/models"

type CreateProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"max=200"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,max=120"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProductPageResponse struct {
	Results    []models.Product `json:"results"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

func NewProductPageResponse(p *models.ProductPage) ProductPageResponse {
	results := p.Items
	if results == nil {
		results = []models.Product{}
	}
	return ProductPageResponse{
		Results:    results,
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}
}

type CreateProductResponse struct {
	Message string         `json:"message"`
	Product models.Product `json:"product"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type ProtectedResponse struct {
	LoggedInAs string `json:"logged_in_as"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
