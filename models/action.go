package models

// Status is the search lifecycle status.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusFetching Status = "fetching"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
)

// PriceActionStatus tracks one offer's asynchronous price lookup.
type PriceActionStatus string

const (
	// PriceActive marks a lookup in flight.
	PriceActive PriceActionStatus = "ActiveActionStatus"
	// PriceCompleted marks a resolved lookup.
	PriceCompleted PriceActionStatus = "CompletedActionStatus"
	// PriceFailed marks a lookup that errored; it may be retried if the offer
	// becomes a candidate again.
	PriceFailed PriceActionStatus = "FailedActionStatus"
	// PricePotential marks a lookup cancelled because its showtime stopped
	// qualifying before the request settled. Inactive but not terminal.
	PricePotential PriceActionStatus = "PotentialActionStatus"
)

// PriceAction is the tracked state of a per-offer price lookup.
type PriceAction struct {
	Status       PriceActionStatus `json:"actionStatus"`
	OfferID      string            `json:"offerId"`
	Price        *float64          `json:"price,omitempty"`
	Currency     string            `json:"priceCurrency,omitempty"`
	Availability Availability      `json:"availability,omitempty"`
}

// Action is a store event. The set of variants is closed: the reducer treats
// an unknown variant as a programming error and panics.
type Action interface {
	isAction()
}

// ChangeAction edits one filter field.
type ChangeAction struct {
	Name   string
	Value  string
	Values []string
}

// ResultAction carries one framed query result. A no-op result (the gate
// short-circuit) has every collection empty.
type ResultAction struct {
	Showtimes []Showtime
	Theaters  []Entity
	Movies    []Entity
	Genres    []Entity
	Ratings   []Entity
	Formats   []Entity
	Amenities []Entity
	Props     []Entity
}

// StatusAction moves the search lifecycle.
type StatusAction struct {
	Status Status
}

// ErrorAction reports a failed showtimes request. URL identifies the request
// for display.
type ErrorAction struct {
	URL string
	Err error
}

// TodayAction advances the app's notion of "today" (yyyy-MM-dd).
type TodayAction struct {
	Value string
}

// PricesAction applies a batch of price-action updates.
type PricesAction struct {
	Actions []PriceAction
}

// UpdateRequestedAction records that the pending application update was
// handed to the updater, suppressing further update-induced refetches.
type UpdateRequestedAction struct{}

// SearchOption is one autocomplete candidate from entity search.
type SearchOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SearchFetchAction marks an entity search as in flight for a field.
type SearchFetchAction struct {
	Field string
}

// SearchResultAction delivers entity search results for a field.
type SearchResultAction struct {
	Field  string
	Result []SearchOption
}

func (ChangeAction) isAction()          {}
func (ResultAction) isAction()          {}
func (StatusAction) isAction()          {}
func (ErrorAction) isAction()           {}
func (TodayAction) isAction()           {}
func (PricesAction) isAction()          {}
func (UpdateRequestedAction) isAction() {}
func (SearchFetchAction) isAction()     {}
func (SearchResultAction) isAction()    {}
