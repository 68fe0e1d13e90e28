package model

// Noticia categories offered by the authoring form. The column is free-form
// text; this set only constrains the UI select.
const (
	CategoriaEducacion     = "Educación"
	CategoriaCampana       = "Campaña"
	CategoriaPropuestas    = "Propuestas"
	CategoriaEventos       = "Eventos"
	CategoriaMedioAmbiente = "Medio Ambiente"
)

// NoticiaCategories returns the category set in display order.
func NoticiaCategories() []string {
	return []string{CategoriaEducacion, CategoriaCampana, CategoriaPropuestas, CategoriaEventos, CategoriaMedioAmbiente}
}

// IsValidNoticiaCategory reports whether c is one of the known categories.
func IsValidNoticiaCategory(c string) bool {
	for _, known := range NoticiaCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Content formats for the noticia body.
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)
