package main

import (
	"net/http"

	"dive/internal/search"
)

type verifyPlacePayload struct {
	PlaceName string `json:"place_name" validate:"required,max=200"`
}

// verifyPlaceHandler fact-checks a place name: web search context first,
// then the model's judgment. The verification collaborator degrades to
// a neutral verdict internally, so this handler only fails on bad input.
func (app *application) verifyPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload verifyPlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	results := app.search.SearchPlace(r.Context(), payload.PlaceName)
	verdict, err := app.generator.VerifyPlace(r.Context(), payload.PlaceName, search.ContextFor(results))
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, verdict)
}
