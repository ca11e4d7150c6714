package catalog

import (
	"time"

	"github.com/bdshop/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog product returned to clients.
type ProductDTO struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Image       *string       `json:"image,omitempty"`
	Description *string       `json:"description,omitempty"`
	Price       *float64      `json:"price"`
	Gender      *string       `json:"gender,omitempty"`
	Stock       int           `json:"stock"`
	InStock     bool          `json:"inStock"`
	Categories  []CategoryDTO `json:"categories"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type CategoryDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// SaleDTO exposes a coupon-backed promotion.
type SaleDTO struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Badge          *string    `json:"badge,omitempty"`
	DiscountAmount float64    `json:"discountAmount"`
	CouponCode     string     `json:"couponCode"`
	ValidFrom      *time.Time `json:"validFrom,omitempty"`
	ValidUntil     *time.Time `json:"validUntil,omitempty"`
	IsActive       bool       `json:"isActive"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Image:       p.ImageURL,
		Description: p.Description,
		Price:       p.PriceFloat(),
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
		Categories:  make([]CategoryDTO, 0, len(p.Categories)),
		CreatedAt:   p.CreatedAt,
	}
	if p.Gender != nil {
		g := p.Gender.String()
		dto.Gender = &g
	}
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, NewCategoryDTO(c))
	}
	return dto
}

func NewCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func NewSaleDTO(s models.Sale) SaleDTO {
	return SaleDTO{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Badge:          s.Badge,
		DiscountAmount: s.DiscountAmount.InexactFloat64(),
		CouponCode:     s.CouponCode,
		ValidFrom:      s.ValidFrom,
		ValidUntil:     s.ValidUntil,
		IsActive:       s.IsActive,
	}
}
