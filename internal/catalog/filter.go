package catalog

import (
	"encoding/json"
	"strings"
)

// Criteria is a sparse set of optional predicates. Absent fields match
// everything; present fields compose with AND. Malformed values (a nil
// MaxPrice, blank strings) are ignored rather than rejected so an imprecise
// upstream extraction never hard-fails a browse.
type Criteria struct {
	Category  string `json:"category,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Query     string `json:"query,omitempty"`
	MaxPrice  *int64 `json:"max_price,omitempty"`
}

// UnmarshalJSON decodes criteria field by field: a criterion of the wrong
// type (a numeric category, a non-numeric max_price) is dropped, not an
// error. Only JSON that fails to parse as an object at all is rejected.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["category"]; ok {
		_ = json.Unmarshal(v, &c.Category)
	}
	if v, ok := raw["attribute"]; ok {
		_ = json.Unmarshal(v, &c.Attribute)
	}
	if v, ok := raw["query"]; ok {
		_ = json.Unmarshal(v, &c.Query)
	}
	if v, ok := raw["max_price"]; ok {
		var price int64
		if err := json.Unmarshal(v, &price); err == nil {
			c.MaxPrice = &price
		}
	}
	return nil
}

func (c Criteria) empty() bool {
	return strings.TrimSpace(c.Category) == "" &&
		strings.TrimSpace(c.Attribute) == "" &&
		strings.TrimSpace(c.Query) == "" &&
		c.MaxPrice == nil
}

// Filter narrows products by the given criteria. It is pure and
// order-preserving: results keep the relative order of the input.
func Filter(products []Product, c Criteria) []Product {
	if c.empty() {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Product, c Criteria) bool {
	if cat := strings.TrimSpace(c.Category); cat != "" && !strings.EqualFold(p.Category, cat) {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if attr := strings.TrimSpace(c.Attribute); attr != "" && !hasAttribute(p, attr) {
		return false
	}
	if q := strings.TrimSpace(c.Query); q != "" {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		if !strings.Contains(haystack, strings.ToLower(q)) {
			return false
		}
	}
	return true
}

func hasAttribute(p Product, want string) bool {
	for _, v := range p.Attributes {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
