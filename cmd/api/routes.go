package main

import (
	"errors"
	"fmt"
	"net/http"

	"dive/internal/geo"
)

type calculateRoutePayload struct {
	Start *geo.Coordinate `json:"start" validate:"required"`
	End   *geo.Coordinate `json:"end" validate:"required"`
}

// calculateRouteResponse is the observable wire contract: distance with
// a km suffix and two decimals, duration in whole minutes with the 분
// suffix, and the estimate source tag.
type calculateRouteResponse struct {
	Distance string `json:"distance"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

func (app *application) calculateRouteHandler(w http.ResponseWriter, r *http.Request) {
	var payload calculateRoutePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	estimate, err := app.resolver.Resolve(r.Context(), *payload.Start, *payload.End)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := calculateRouteResponse{
		Distance: fmt.Sprintf("%.2fkm", estimate.DistanceKm),
		Duration: fmt.Sprintf("%d분", int(estimate.DurationMinutes)),
		Type:     string(estimate.Source),
	}

	app.jsonResponse(w, http.StatusOK, response)
}
