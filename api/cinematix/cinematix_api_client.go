package cinematix

import (
	"context"
	"net/url"

	"cinematix/api"
	"cinematix/models"
)

// Client talks to the cinematix API. It embeds the common HTTPClient.
type Client struct {
	*api.HTTPClient
	defaults models.Query
}

// NewClient creates a new cinematix API client. The defaults decide which
// zip-scoped parameters are worth putting on the wire.
func NewClient(httpClient *api.HTTPClient, defaults models.Query) *Client {
	return &Client{
		HTTPClient: httpClient,
		defaults:   defaults,
	}
}

// ShowtimesURL builds the showtimes request URL: either theater-id-scoped
// (one parameter per selected theater) or zip-scoped with limit/ticketing
// only when they differ from the defaults. Dates are always included.
func (c *Client) ShowtimesURL(req ShowtimesRequest) string {
	params := url.Values{}

	if len(req.Theaters) > 0 {
		for _, id := range req.Theaters {
			params.Add("theaters", id)
		}
	} else {
		params.Set("zipCode", req.ZipCode)
		if req.Limit != c.defaults.Limit {
			params.Set("limit", req.Limit)
		}
		if req.Ticketing != c.defaults.Ticketing {
			params.Set("ticketing", req.Ticketing)
		}
	}

	params.Set("startDate", req.StartDate)
	params.Set("endDate", req.EndDate)

	return c.BaseURL + "/showtimes?" + params.Encode()
}

// OfferPriceURL builds the price request URL for an offer id. Only the local
// part of a prefixed id ("xs:123" → "123") goes into the path.
func (c *Client) OfferPriceURL(offerID string) string {
	return c.BaseURL + "/offer/" + url.PathEscape(models.LocalID(offerID)) + "/price"
}

// Fetch performs the request and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, rawurl string) ([]byte, error) {
	return c.GetURL(ctx, rawurl)
}
