// Package model defines domain models and types used throughout the
// application including Evento, Noticia, SocialLink and Media structures.
package model

// Evento types offered by the authoring form.
const (
	EventoTypeMitin    = "Mitin"
	EventoTypeWebinar  = "Webinar"
	EventoTypeCaravana = "Caravana"
	EventoTypeDebate   = "Debate"
	EventoTypeOtro     = "Otro"
)

// EventoTypes returns the enumerated set of event types in display order.
func EventoTypes() []string {
	return []string{EventoTypeMitin, EventoTypeWebinar, EventoTypeCaravana, EventoTypeDebate, EventoTypeOtro}
}

// IsValidEventoType checks an event type against the enumerated set.
func IsValidEventoType(t string) bool {
	for _, v := range EventoTypes() {
		if v == t {
			return true
		}
	}
	return false
}
