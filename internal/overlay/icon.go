package overlay

import "github.com/evcraddock/emprende-tacna/internal/business"

// Icon is the marker presentation for a category.
type Icon struct {
	Color string `json:"color"`
	Glyph string `json:"glyph"`
}

// FallbackIcon is used for categories outside the known set.
var FallbackIcon = Icon{Color: "gray", Glyph: "store"}

// IconFor maps a category to its marker icon. It never fails: unknown
// categories get FallbackIcon.
func IconFor(c business.Category) Icon {
	switch c {
	case business.Restaurante:
		return Icon{Color: "red", Glyph: "utensils"}
	case business.Cafe:
		return Icon{Color: "orange", Glyph: "mug-hot"}
	case business.Tienda:
		return Icon{Color: "blue", Glyph: "shopping-bag"}
	case business.Artesania:
		return Icon{Color: "green", Glyph: "palette"}
	case business.Servicio:
		return Icon{Color: "purple", Glyph: "wrench"}
	case business.Salud:
		return Icon{Color: "pink", Glyph: "pills"}
	case business.Educacion:
		return Icon{Color: "darkblue", Glyph: "book"}
	case business.Otros:
		return Icon{Color: "gray", Glyph: "shapes"}
	default:
		return FallbackIcon
	}
}
