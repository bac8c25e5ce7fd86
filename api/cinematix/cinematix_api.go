package cinematix

import "context"

// API defines the interface for interacting with the cinematix showtimes and
// offer endpoints. Fetching is URL-addressed so that the response cache can
// share keys with the network layer.
type API interface {
	ShowtimesURL(req ShowtimesRequest) string
	OfferPriceURL(offerID string) string
	Fetch(ctx context.Context, rawurl string) ([]byte, error)
}

// ShowtimesRequest carries the resolved request parameters for the showtimes
// endpoint. Dates are literal yyyy-MM-dd, never quick-date tokens, to avoid
// timezone drift between client and server.
type ShowtimesRequest struct {
	ZipCode   string
	Limit     string
	Ticketing string
	StartDate string
	EndDate   string
	Theaters  []string
}
