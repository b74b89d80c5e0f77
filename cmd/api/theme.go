package main

import (
	"net/http"
)

type analyzeThemePayload struct {
	Theme    string `json:"theme" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=200"`
}

func (app *application) analyzeThemeHandler(w http.ResponseWriter, r *http.Request) {
	var payload analyzeThemePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	places, err := app.generator.AnalyzeTheme(r.Context(), payload.Theme, payload.Location)
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, places)
}

type generateSchedulePayload struct {
	Theme    string `json:"theme" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=200"`
	Duration string `json:"duration" validate:"required,max=50"`
}

// generateScheduleHandler builds a normalized itinerary from the
// generation collaborator. A parse failure propagates as an upstream
// error; clients are expected to fall back to a default schedule.
func (app *application) generateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var payload generateSchedulePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	itinerary, err := app.planner.Generate(r.Context(), payload.Theme, payload.Location, payload.Duration)
	if err != nil {
		// ai.ErrMalformedResponse and transport failures alike: the
		// client owns the fallback experience.
		app.badGatewayResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, itinerary)
}
