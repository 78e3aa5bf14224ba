package business

import (
	"strings"
	"unicode/utf8"
)

const (
	minNameLen        = 3
	minDescriptionLen = 10
)

// Normalize trims surrounding whitespace from every text field.
func (d Draft) Normalize() Draft {
	return Draft{
		Name:        strings.TrimSpace(d.Name),
		Type:        ParseCategory(string(d.Type)),
		Description: strings.TrimSpace(d.Description),
		Address:     strings.TrimSpace(d.Address),
		Phone:       strings.TrimSpace(d.Phone),
		Hours:       strings.TrimSpace(d.Hours),
		Owner:       strings.TrimSpace(d.Owner),
	}
}

// Validate checks the required fields in a fixed order and reports the
// first failure: name, type, description, address.
func (d Draft) Validate() error {
	if utf8.RuneCountInString(d.Name) < minNameLen {
		return &ValidationError{Field: FieldName, Message: "El nombre del negocio debe tener al menos 3 caracteres."}
	}
	if d.Type == "" {
		return &ValidationError{Field: FieldType, Message: "Por favor selecciona una categoría para tu negocio."}
	}
	if !d.Type.IsValid() {
		return &ValidationError{Field: FieldType, Message: "La categoría seleccionada no es válida."}
	}
	if utf8.RuneCountInString(d.Description) < minDescriptionLen {
		return &ValidationError{Field: FieldDescription, Message: "La descripción debe tener al menos 10 caracteres."}
	}
	if d.Address == "" {
		return &ValidationError{Field: FieldAddress, Message: "Por favor ingresa la dirección de tu negocio."}
	}
	return nil
}
