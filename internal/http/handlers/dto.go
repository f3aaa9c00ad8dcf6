package handlers

import "github.com/rogerio-castellano/product-services/internal/models"

// ProductRequest is the body of create and update calls. Absent and null fields stay nil.
type ProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type ProductResponse struct {
	Id    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{Id: p.ID, Name: p.Name, Price: p.Price}
}
