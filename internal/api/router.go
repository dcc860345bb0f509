package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roteiro-viagens/itinerary-service/internal/api/handlers"
)

// SetupRouter configures the application routes
func SetupRouter(
	itineraryHandler *handlers.ItineraryHandler,
	contextHandler *handlers.ContextHandler,
) *mux.Router {
	r := mux.NewRouter()

	// API versioning
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Itinerary routes
	api.HandleFunc("/groups/{groupID}/itinerary", itineraryHandler.GetItinerary).Methods("GET")
	api.HandleFunc("/groups/{groupID}/itinerary/events", itineraryHandler.SaveEvents).Methods("POST")
	api.HandleFunc("/groups/{groupID}/itinerary/events/{eventID}", itineraryHandler.DeleteEvent).Methods("DELETE")
	api.HandleFunc("/groups/{groupID}/itinerary/events/{eventID}/favorite", itineraryHandler.ToggleFavorite).Methods("POST")
	api.HandleFunc("/groups/{groupID}/itinerary/conflicts", itineraryHandler.CheckConflicts).Methods("POST")

	// Mission context routes (read-only)
	api.HandleFunc("/groups/{groupID}", contextHandler.GetGroup).Methods("GET")
	api.HandleFunc("/missions/{missionID}/groups", contextHandler.ListMissionGroups).Methods("GET")
	api.HandleFunc("/travelers", contextHandler.ListTravelers).Methods("GET")

	// Add request logging middleware
	r.Use(loggingMiddleware)

	// Add recovery middleware to handle panics
	r.Use(recoveryMiddleware)

	return r
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.RemoteAddr, r.Method, r.URL)
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns a 500 error
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Recovered from panic: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
