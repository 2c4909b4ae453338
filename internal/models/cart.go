package models

// Cart represents a user's shopping cart
type Cart struct {
	ID     int `json:"cart_id"`
	UserID int `json:"user_id"`
}

// CartItem represents a product entry inside a cart
type CartItem struct {
	ItemID    int `json:"item_id"`
	CartID    int `json:"cart_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CartItemView is the cart listing row joined with product data
type CartItemView struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}
