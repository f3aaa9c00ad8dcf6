package models

// Product is one record of the product registry.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductPatch carries the fields an update replaces. Nil fields are left alone.
type ProductPatch struct {
	Name  *string
	Price *float64
}
