package models

type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
}

// CreateProductRequest deliberately carries no binding tags: the catalog
// accepts any input verbatim, including a negative price or an empty color.
type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
}
