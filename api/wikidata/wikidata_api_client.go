package wikidata

import (
	"context"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"cinematix/api"
	"cinematix/models"
)

// Client talks to the Wikidata action API.
type Client struct {
	*api.HTTPClient
}

// NewClient creates a new Wikidata client. baseURL points at the api.php
// endpoint.
func NewClient(httpClient *api.HTTPClient) *Client {
	return &Client{HTTPClient: httpClient}
}

type searchResponse struct {
	Query *struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type entitiesResponse struct {
	Entities map[string]struct {
		Labels map[string]struct {
			Value string `json:"value"`
		} `json:"labels"`
	} `json:"entities"`
}

type claim struct {
	Type     string `json:"type"`
	Rank     string `json:"rank"`
	MainSnak struct {
		DataValue struct {
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

type claimsResponse struct {
	Claims map[string][]claim `json:"claims"`
}

// Search runs the full-text search scoped by property id, then fetches
// English labels and per-entity claims concurrently, joining both before
// reducing to id/label options. Entities without a usable claim are dropped.
func (c *Client) Search(ctx context.Context, property, query string) ([]models.SearchOption, error) {
	var search searchResponse
	if err := c.GetJSON(ctx, c.searchURL(property, query), &search); err != nil {
		return nil, err
	}
	if search.Query == nil || len(search.Query.Search) == 0 {
		return nil, nil
	}

	titles := make([]string, 0, len(search.Query.Search))
	for _, s := range search.Query.Search {
		titles = append(titles, s.Title)
	}

	var labels entitiesResponse
	claims := make([]claimsResponse, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.GetJSON(gctx, c.labelsURL(titles), &labels)
	})
	for i, title := range titles {
		i, title := i, title
		g.Go(func() error {
			return c.GetJSON(gctx, c.claimsURL(title, property), &claims[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result []models.SearchOption
	for i, title := range titles {
		value, ok := claimValue(claims[i].Claims[property])
		if !ok {
			continue
		}

		label := value
		if entity, ok := labels.Entities[title]; ok {
			if en, ok := entity.Labels["en"]; ok && en.Value != "" {
				label = en.Value
			}
		}

		result = append(result, models.SearchOption{Value: value, Label: label})
	}
	return result, nil
}

// claimValue picks the winning claim: deprecated claims are dropped and a
// preferred-rank claim beats the rest. The value is upper-cased.
func claimValue(claims []claim) (string, bool) {
	var chosen, preferred *claim
	for i := range claims {
		if claims[i].Type == "deprecated" {
			continue
		}
		chosen = &claims[i]
		if claims[i].Rank == "preferred" {
			preferred = &claims[i]
		}
	}
	if preferred != nil {
		chosen = preferred
	}
	if chosen == nil {
		return "", false
	}

	var value string
	if err := json.Unmarshal(chosen.MainSnak.DataValue.Value, &value); err != nil || value == "" {
		return "", false
	}
	return strings.ToUpper(value), true
}

func (c *Client) searchURL(property, query string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("formatversion", "2")
	params.Set("srinfo", "")
	params.Set("srprop", "")
	params.Set("srenablerewrites", "1")
	params.Set("origin", "*")
	params.Set("srsearch", property+" "+query)
	return c.BaseURL + "?" + params.Encode()
}

func (c *Client) labelsURL(titles []string) string {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("origin", "*")
	params.Set("ids", strings.Join(titles, "|"))
	params.Set("languages", "en")
	return c.BaseURL + "?" + params.Encode()
}

func (c *Client) claimsURL(title, property string) string {
	params := url.Values{}
	params.Set("action", "wbgetclaims")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("origin", "*")
	params.Set("entity", title)
	params.Set("property", property)
	params.Set("props", "")
	return c.BaseURL + "?" + params.Encode()
}
