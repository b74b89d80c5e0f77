package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dive/internal/geo"
	"dive/internal/schedule"
	"dive/internal/store"
)

type saveItineraryPayload struct {
	Title string               `json:"title" validate:"required,max=200"`
	Theme string               `json:"theme" validate:"max=200"`
	Days  []daySchedulePayload `json:"days" validate:"required,min=1,dive"`
}

type daySchedulePayload struct {
	Day    int            `json:"day" validate:"required,min=1"`
	Places []placePayload `json:"places" validate:"dive"`
}

type placePayload struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	Lat         float64 `json:"lat" validate:"min=-90,max=90"`
	Lng         float64 `json:"lng" validate:"min=-180,max=180"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
}

func (app *application) saveItineraryHandler(w http.ResponseWriter, r *http.Request) {
	var payload saveItineraryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	it := schedule.Itinerary{Title: payload.Title, Theme: payload.Theme}
	for _, day := range payload.Days {
		for _, p := range day.Places {
			next, err := it.AddPlace(day.Day, schedule.Place{
				ID:          p.ID,
				Name:        p.Name,
				Coordinate:  geo.Coordinate{Lat: p.Lat, Lng: p.Lng},
				Category:    p.Category,
				Description: p.Description,
			})
			if err != nil {
				if errors.Is(err, schedule.ErrDuplicatePlaceID) {
					app.badRequestResponse(w, r, err)
					return
				}
				app.internalServerError(w, r, err)
				return
			}
			it = next
		}
	}

	userID := getUserIDFromContext(r)
	id, err := app.planner.Save(r.Context(), userID, it)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (app *application) getItineraryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid itinerary ID"))
		return
	}

	it, err := app.planner.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, it)
}

func (app *application) getUserItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		app.badRequestResponse(w, r, errors.New("invalid user ID"))
		return
	}

	itineraries, err := app.planner.ListForUser(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, itineraries)
}

func (app *application) deleteItineraryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid itinerary ID"))
		return
	}

	userID := getUserIDFromContext(r)
	if err := app.store.Itineraries.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "itinerary deleted"})
}
