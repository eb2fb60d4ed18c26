package catalog

// Product is one catalog entry. Prices are integer minor currency units
// (799 = ₹7.99 equivalent); money is never accumulated in floats.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       int64             `json:"price"`
	Currency    string            `json:"currency"`
	Category    string            `json:"category"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Sizes       []string          `json:"sizes,omitempty"` // empty = sizeless
}

// HasSize reports whether the product offers the given size variant.
// The empty variant is always valid.
func (p Product) HasSize(size string) bool {
	if size == "" {
		return true
	}
	for _, s := range p.Sizes {
		if equalFold(s, size) {
			return true
		}
	}
	return false
}

// CanonicalSize maps a case-insensitive size to the catalog's own spelling,
// so "m" and "M" name the same variant everywhere a line key is built.
func (p Product) CanonicalSize(size string) string {
	if size == "" {
		return ""
	}
	for _, s := range p.Sizes {
		if equalFold(s, size) {
			return s
		}
	}
	return ""
}
