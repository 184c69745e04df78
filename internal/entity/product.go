package entity

type ProductImage struct {
	URL string `json:"url"`
}

// Product doubles as the purchasable variant: the catalog is flat, one
// variant per product, priced in minor currency units.
type Product struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Handle      string         `json:"handle"`
	Description string         `json:"description"`
	UnitPrice   int64          `json:"price"`
	Images      []ProductImage `json:"images"`
}
