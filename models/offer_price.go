package models

// OfferPrice is the price endpoint's response for a single offer. The
// JSON-LD @context is dropped on decode; only the resolved fields are kept.
type OfferPrice struct {
	ID            string   `json:"@id"`
	Price         *float64 `json:"price,omitempty"`
	PriceCurrency string   `json:"priceCurrency,omitempty"`
	Availability  string   `json:"availability,omitempty"`
}

// AvailabilityStatus returns the normalized availability.
func (p *OfferPrice) AvailabilityStatus() Availability {
	return ParseAvailability(p.Availability)
}
