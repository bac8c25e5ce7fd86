package cinematix

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"cinematix/models"
)

const SHOWTIMES_RESPONSE_PATH = "./resources/showtimes_response.json"

// ClientMock serves the bundled showtimes fixture and synthetic prices,
// for development without the real API.
type ClientMock struct {
	ShowtimesPath string
}

// NewClientMock creates a new fixture-backed mock client.
func NewClientMock() *ClientMock {
	return &ClientMock{ShowtimesPath: SHOWTIMES_RESPONSE_PATH}
}

func (c *ClientMock) ShowtimesURL(req ShowtimesRequest) string {
	params := url.Values{}
	params.Set("zipCode", req.ZipCode)
	params.Set("startDate", req.StartDate)
	params.Set("endDate", req.EndDate)
	for _, id := range req.Theaters {
		params.Add("theaters", id)
	}
	return "mock://showtimes?" + params.Encode()
}

func (c *ClientMock) OfferPriceURL(offerID string) string {
	return "mock://offer/" + models.LocalID(offerID) + "/price"
}

func (c *ClientMock) Fetch(ctx context.Context, rawurl string) ([]byte, error) {
	if strings.HasPrefix(rawurl, "mock://showtimes") {
		body, err := os.ReadFile(c.ShowtimesPath)
		if err != nil {
			return nil, fmt.Errorf("could not read showtimes fixture: %w", err)
		}
		return body, nil
	}

	// Every offer prices out the same in the mock.
	return []byte(`{"@context":{"@vocab":"https://schema.org/"},"@id":"xs:mock","price":12.50,"priceCurrency":"USD","availability":"InStock"}`), nil
}
