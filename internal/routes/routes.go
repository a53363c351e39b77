package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/trailbook/trailbook-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Journal routes
	r.Post("/api/journals", handlers.CreateJournalEntry)
	r.Get("/api/journals", handlers.GetJournalEntries)

	// Place search and details
	r.Get("/api/places/search", handlers.SearchPlaces)
	r.Get("/api/places/details", handlers.GetPlaceDetails)

	// Route / distance calculation for the entry form
	r.Post("/api/route", handlers.CalculateRoute)
}
