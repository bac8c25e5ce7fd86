package server

import (
	"github.com/gorilla/mux"

	"cinematix/server/handlers"
)

type Router struct {
	showtimeHandler   *handlers.ShowtimeHandler
	searchHandler     *handlers.SearchHandler
	preferenceHandler *handlers.PreferenceHandler
	router            *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	showtimeHandler *handlers.ShowtimeHandler,
	searchHandler *handlers.SearchHandler,
	preferenceHandler *handlers.PreferenceHandler,
	router *mux.Router) *Router {
	return &Router{
		showtimeHandler:   showtimeHandler,
		searchHandler:     searchHandler,
		preferenceHandler: preferenceHandler,
		router:            router,
	}
}

func (r *Router) RegisterRoutes() {
	// expects the flat filter params: ?zipCode=&startDate=&theaters=&...
	r.router.HandleFunc("/v1/showtimes", r.showtimeHandler.GetShowtimes).Methods("GET")
	r.router.HandleFunc("/v1/showtimes/chart", r.showtimeHandler.GetShowtimesChart).Methods("GET")

	// expects ?field={theaters|movies}&q={partial name}
	r.router.HandleFunc("/v1/search", r.searchHandler.GetOptions).Methods("GET")

	r.router.HandleFunc("/v1/preferences/install-prompt", r.preferenceHandler.GetInstallPrompt).Methods("GET")
	r.router.HandleFunc("/v1/preferences/install-prompt/decline", r.preferenceHandler.DeclineInstallPrompt).Methods("POST")

	r.router.HandleFunc("/ping", r.showtimeHandler.Ping).Methods("GET")
}
