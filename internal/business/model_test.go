package business

import "testing"

func TestCategoryValid(t *testing.T) {
	tests := []struct {
		c    Category
		want bool
	}{
		{Restaurante, true},
		{Cafe, true},
		{Tienda, true},
		{Artesania, true},
		{Servicio, true},
		{Salud, true},
		{Educacion, true},
		{Otros, true},
		{CategoryAll, false},
		{"bar", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.c.IsValid(); got != tt.want {
			t.Errorf("Category(%q).IsValid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := Cafe.Label(); got != "☕ Cafetería" {
		t.Errorf("Cafe.Label() = %q", got)
	}
	if got := Category("bar").Label(); got != "bar" {
		t.Errorf("unknown label = %q, want raw value", got)
	}
	for _, c := range AllCategories {
		if c.Label() == string(c) {
			t.Errorf("category %q has no label", c)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory("  Cafe "); got != Cafe {
		t.Errorf("ParseCategory = %q, want %q", got, Cafe)
	}
	if got := ParseCategory("ALL"); got != CategoryAll {
		t.Errorf("ParseCategory = %q, want %q", got, CategoryAll)
	}
}
