package models

// Product represents a catalog product
type Product struct {
	ID          int     `json:"product_id"`
	Name        string  `json:"product_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}
