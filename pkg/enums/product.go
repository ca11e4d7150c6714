package enums

import (
	"fmt"
	"strings"
)

// ProductGender is the audience a catalog product is merchandised for.
type ProductGender string

const (
	ProductGenderMale   ProductGender = "male"
	ProductGenderFemale ProductGender = "female"
	ProductGenderKids   ProductGender = "kids"
	ProductGenderBoth   ProductGender = "both"
)

var validProductGenders = []ProductGender{
	ProductGenderMale,
	ProductGenderFemale,
	ProductGenderKids,
	ProductGenderBoth,
}

// String implements fmt.Stringer.
func (g ProductGender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known ProductGender.
func (g ProductGender) IsValid() bool {
	for _, candidate := range validProductGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseProductGender converts raw input into a ProductGender.
func ParseProductGender(value string) (ProductGender, error) {
	for _, candidate := range validProductGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product gender %q", value)
}

// ProductSort selects the ordering of catalog listings. The empty value keeps the
// default title ordering.
type ProductSort string

const (
	ProductSortRelevance ProductSort = ""
	ProductSortPriceLow  ProductSort = "price-low"
	ProductSortPriceHigh ProductSort = "price-high"
	ProductSortName      ProductSort = "name"
	ProductSortNewest    ProductSort = "newest"
)

var validProductSorts = []ProductSort{
	ProductSortRelevance,
	ProductSortPriceLow,
	ProductSortPriceHigh,
	ProductSortName,
	ProductSortNewest,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort.
func ParseProductSort(value string) (ProductSort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
