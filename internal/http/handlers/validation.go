package handlers

import "github.com/rogerio-castellano/product-services/internal/models"

const errNameAndPriceRequired = "Name and price are required"

// validateProduct only checks presence: an empty name counts as missing, a zero price does not.
func validateProduct(p ProductRequest) bool {
	return p.Name != nil && *p.Name != "" && p.Price != nil
}

// patchFromRequest keeps the name only when it is non-empty and the price whenever it was sent.
func patchFromRequest(p ProductRequest) models.ProductPatch {
	var patch models.ProductPatch
	if p.Name != nil && *p.Name != "" {
		patch.Name = p.Name
	}
	patch.Price = p.Price
	return patch
}
