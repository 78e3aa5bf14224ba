// Package business provides the business directory domain model and the
// store that owns it.
package business

import "strings"

// Category is the kind of business, which drives its icon and label.
type Category string

const (
	Restaurante Category = "restaurante"
	Cafe        Category = "cafe"
	Tienda      Category = "tienda"
	Artesania   Category = "artesania"
	Servicio    Category = "servicio"
	Salud       Category = "salud"
	Educacion   Category = "educacion"
	Otros       Category = "otros"
)

// CategoryAll is the filter value that matches every business.
const CategoryAll Category = "all"

// AllCategories lists the known categories in display order.
var AllCategories = []Category{Restaurante, Cafe, Tienda, Artesania, Servicio, Salud, Educacion, Otros}

// IsValid checks if a category is one of the known categories.
func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Label returns the display text for the category.
// Unknown categories are shown as-is.
func (c Category) Label() string {
	switch c {
	case Restaurante:
		return "🍽️ Restaurante"
	case Cafe:
		return "☕ Cafetería"
	case Tienda:
		return "🛍️ Tienda"
	case Artesania:
		return "🎨 Artesanía"
	case Servicio:
		return "🔧 Servicios"
	case Salud:
		return "💊 Salud"
	case Educacion:
		return "📚 Educación"
	case Otros:
		return "🔷 Otros"
	default:
		return string(c)
	}
}

// ParseCategory normalizes user input into a Category. It does not validate.
func ParseCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// Business is a registered local business. The JSON shape is the persisted
// layout under the "businesses" key.
type Business struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Type        Category `json:"type"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Hours       string   `json:"hours"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	CreatedAt   string   `json:"createdAt"` // RFC 3339, UTC
	Visits      int      `json:"visits"`
	Rating      float64  `json:"rating"`
	Owner       string   `json:"owner,omitempty"`
}

// Draft is the user-supplied part of a Business.
type Draft struct {
	Name        string   `json:"name"`
	Type        Category `json:"type"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Hours       string   `json:"hours"`
	Owner       string   `json:"owner,omitempty"`
}

// Stats are the directory counters shown on the home page.
type Stats struct {
	Businesses int `json:"businesses"`
	Visited    int `json:"visited"`
}
