package repo

import (
	"strings"

	"github.com/rogerio-castellano/product-services/internal/models"
)

// ProductFilter narrows a product listing.
//
// Page and Limit hold the raw query values; they are coerced the same loose way the
// public API always has, so garbage in yields an empty or odd page rather than an error.
type ProductFilter struct {
	Name  string
	Page  string
	Limit string
}

const (
	DefaultPage  = "1"
	DefaultLimit = "10"
)

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	return true
}
