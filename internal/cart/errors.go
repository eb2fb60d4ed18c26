package cart

import "errors"

var (
	ErrUnknownProduct = errors.New("product not in catalog")
	ErrUnknownVariant = errors.New("size variant not offered for product")
	ErrUnknownRecipe  = errors.New("recipe not found")
	ErrEmptyCart      = errors.New("cart is empty, nothing to order")
)
