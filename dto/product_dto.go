package dto

import "mime/multipart"

// CreateProductInput is bound from a multipart form.
type CreateProductInput struct {
	Name        string                `form:"name" binding:"required,max=200"`
	Description string                `form:"description" binding:"required"`
	Price       string                `form:"price" binding:"required"`
	Category    string                `form:"category" binding:"required,max=255"`
	Image       *multipart.FileHeader `form:"image" binding:"required"`
	File        *multipart.FileHeader `form:"file"`
}

type ProductOutput struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category"`
}
