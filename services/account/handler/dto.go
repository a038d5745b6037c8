package handler

// Request DTOs
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

type BalanceRequestRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id" binding:"required"`
	Notes         string  `json:"notes"`
	ProofURL      string  `json:"proof_url"`
}

type ResolveBalanceRequestRequest struct {
	Approve   *bool  `json:"approve" binding:"required"`
	AdminNote string `json:"admin_note"`
}

// Response DTOs
type LoginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type IncomeResponse struct {
	Income float64 `json:"income"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type FavoriteResponse struct {
	ProductID string `json:"product_id"`
	Favorite  bool   `json:"favorite"`
}
