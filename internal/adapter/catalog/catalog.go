package catalog

import (
	"context"
	"fmt"

	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

// StaticCatalog serves a fixed product list seeded at startup. Reads only,
// so it needs no locking.
type StaticCatalog struct {
	products []entity.Product
}

func NewStaticCatalog(products []entity.Product) *StaticCatalog {
	if products == nil {
		products = DefaultProducts()
	}
	return &StaticCatalog{products: products}
}

// FindByIdentifier matches the product id or its human-readable handle.
func (c *StaticCatalog) FindByIdentifier(_ context.Context, identifier string) (*entity.Product, error) {
	for i := range c.products {
		if c.products[i].ID == identifier || c.products[i].Handle == identifier {
			p := c.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %q: %w", identifier, usecase.ErrNotFound)
}

// List returns a page of products and the total catalog size.
func (c *StaticCatalog) List(_ context.Context, limit, offset int) ([]entity.Product, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = len(c.products)
	}
	if offset > len(c.products) {
		return []entity.Product{}, len(c.products), nil
	}
	end := offset + limit
	if end > len(c.products) {
		end = len(c.products)
	}
	page := make([]entity.Product, end-offset)
	copy(page, c.products[offset:end])
	return page, len(c.products), nil
}

var _ usecase.Catalog = (*StaticCatalog)(nil)

// DefaultProducts is the demo storefront's seed catalog.
func DefaultProducts() []entity.Product {
	return []entity.Product{
		{
			ID: "prod_1", Title: "Classic Zurlegende Pullover", Handle: "classic-pullover",
			Description: "Comfortable retro-styled pullover with zur-legende branding",
			UnitPrice:   4999, Images: []entity.ProductImage{{URL: "/images/pullover1.jpg"}},
		},
		{
			ID: "prod_2", Title: "Neon Synthwave Sweatshirt", Handle: "neon-sweatshirt",
			Description: "Vibrant synthwave-inspired sweatshirt with glitch design",
			UnitPrice:   5499, Images: []entity.ProductImage{{URL: "/images/sweatshirt1.jpg"}},
		},
		{
			ID: "prod_3", Title: "Retro Tech Hoodie", Handle: "retro-hoodie",
			Description: "Vintage-inspired hoodie with 80s aesthetic",
			UnitPrice:   6999, Images: []entity.ProductImage{{URL: "/images/hoodie1.jpg"}},
		},
		{
			ID: "prod_4", Title: "Dark Mode Crewneck", Handle: "dark-crewneck",
			Description: "Minimalist dark crewneck perfect for the synthwave vibe",
			UnitPrice:   4499, Images: []entity.ProductImage{{URL: "/images/crewneck1.jpg"}},
		},
		{
			ID: "prod_5", Title: "Neon Pink Oversized Tee", Handle: "neon-tee",
			Description: "Bold neon pink oversized t-shirt",
			UnitPrice:   2999, Images: []entity.ProductImage{{URL: "/images/tee1.jpg"}},
		},
	}
}
