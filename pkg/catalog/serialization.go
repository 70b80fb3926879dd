package catalog

import "fmt"

// Serialization helpers for converting between Go structs and Redis hashes.
// Every product field is a plain string, so the hash mirrors the JSON field names.

// ProductToHash converts a Product to a Redis hash.
func ProductToHash(p *Product) map[string]interface{} {
	return map[string]interface{}{
		"id":            p.ID,
		"name":          p.Name,
		"description":   p.Description,
		"logo":          p.Logo,
		"date_release":  p.DateRelease,
		"date_revision": p.DateRevision,
	}
}

// PatchToHash converts the non-nil fields of a patch to a Redis hash.
// Returns an empty map for an empty patch.
func PatchToHash(p *ProductPatch) map[string]interface{} {
	hash := make(map[string]interface{})
	if p == nil {
		return hash
	}
	if p.Name != nil {
		hash["name"] = *p.Name
	}
	if p.Description != nil {
		hash["description"] = *p.Description
	}
	if p.Logo != nil {
		hash["logo"] = *p.Logo
	}
	if p.DateRelease != nil {
		hash["date_release"] = *p.DateRelease
	}
	if p.DateRevision != nil {
		hash["date_revision"] = *p.DateRevision
	}
	return hash
}

// HashToProduct converts a Redis hash to a Product.
// The id field is required; every other field may be absent.
func HashToProduct(hash map[string]string) (*Product, error) {
	id := hash["id"]
	if id == "" {
		return nil, fmt.Errorf("product hash missing id field")
	}

	return &Product{
		ID:           id,
		Name:         hash["name"],
		Description:  hash["description"],
		Logo:         hash["logo"],
		DateRelease:  hash["date_release"],
		DateRevision: hash["date_revision"],
	}, nil
}
