package dto

type AddToCartInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  *int `json:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartLineOutput struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	ImageURL  string  `json:"imageUrl"`
}
