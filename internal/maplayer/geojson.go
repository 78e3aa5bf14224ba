package maplayer

// FeatureCollection is the GeoJSON document served to the browser.
type FeatureCollection struct {
	Type     string    `json:"type"`
	View     View      `json:"view"`
	Features []Feature `json:"features"`
}

// Feature is one marker as a GeoJSON point.
type Feature struct {
	Type       string          `json:"type"`
	Geometry   Geometry        `json:"geometry"`
	Properties FeatureProperty `json:"properties"`
}

// Geometry is a GeoJSON point; coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperty carries the marker presentation.
type FeatureProperty struct {
	Handle string `json:"handle"`
	Color  string `json:"color"`
	Glyph  string `json:"glyph"`
	Popup  string `json:"popup"`
}

// GeoJSON snapshots the layer.
func (l *Layer) GeoJSON() FeatureCollection {
	markers := l.Markers()
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		View:     l.View(),
		Features: make([]Feature, 0, len(markers)),
	}
	for _, m := range markers {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{m.Lng, m.Lat},
			},
			Properties: FeatureProperty{
				Handle: string(m.Handle),
				Color:  m.Icon.Color,
				Glyph:  m.Icon.Glyph,
				Popup:  m.Popup,
			},
		})
	}
	return fc
}
