package experiments

import "sync/atomic"

// Variant is one of the two landing-page arms.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantA, VariantB:
		return Variant(s), true
	default:
		return "", false
	}
}

// EventKind names one funnel counter. The enumeration is closed; malformed
// kinds are rejected when parsing the request, not deep in the tracker.
type EventKind string

const (
	EventView          EventKind = "views"
	EventCTAClick      EventKind = "ctaClicks"
	EventWhatsAppStart EventKind = "whatsappStarts"
	EventReservation   EventKind = "reservations"
)

func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case EventView, EventCTAClick, EventWhatsAppStart, EventReservation:
		return EventKind(s), true
	default:
		return "", false
	}
}

// Metrics is a read-only snapshot of one variant's funnel counters.
type Metrics struct {
	Views          int64 `json:"views"`
	CTAClicks      int64 `json:"ctaClicks"`
	WhatsAppStarts int64 `json:"whatsappStarts"`
	Reservations   int64 `json:"reservations"`
}

// counters are the live funnel counters for one variant. Increments are
// atomic so concurrent request handlers never lose updates.
type counters struct {
	views          atomic.Int64
	ctaClicks      atomic.Int64
	whatsappStarts atomic.Int64
	reservations   atomic.Int64
}

func (c *counters) add(kind EventKind) {
	switch kind {
	case EventView:
		c.views.Add(1)
	case EventCTAClick:
		c.ctaClicks.Add(1)
	case EventWhatsAppStart:
		c.whatsappStarts.Add(1)
	case EventReservation:
		c.reservations.Add(1)
	}
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		Views:          c.views.Load(),
		CTAClicks:      c.ctaClicks.Load(),
		WhatsAppStarts: c.whatsappStarts.Load(),
		Reservations:   c.reservations.Load(),
	}
}

func (c *counters) reset() {
	c.views.Store(0)
	c.ctaClicks.Store(0)
	c.whatsappStarts.Store(0)
	c.reservations.Store(0)
}

// seed preloads counters, used by administrative restore and tests.
func (c *counters) seed(m Metrics) {
	c.views.Store(m.Views)
	c.ctaClicks.Store(m.CTAClicks)
	c.whatsappStarts.Store(m.WhatsAppStarts)
	c.reservations.Store(m.Reservations)
}
