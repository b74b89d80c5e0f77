package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dive/internal/store"
)

type createPostPayload struct {
	ItineraryID  *uuid.UUID `json:"itinerary_id,omitempty"`
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	ThumbnailURL string     `json:"thumbnail_url" validate:"omitempty,url"`
	Region       string     `json:"region" validate:"max=100"`
	Tags         []string   `json:"tags" validate:"max=10,dive,max=50"`
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var payload createPostPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	post := &store.Post{
		AuthorID:     getUserIDFromContext(r),
		ItineraryID:  payload.ItineraryID,
		Title:        payload.Title,
		Description:  payload.Description,
		ThumbnailURL: payload.ThumbnailURL,
		Region:       payload.Region,
		Tags:         payload.Tags,
	}

	if err := app.store.Posts.Create(r.Context(), post); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, post)
}

// getPostHandler returns one active post and records the view. The view
// increment is best-effort and never blocks the response.
func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid post ID"))
		return
	}

	app.engagement.RecordView(r.Context(), id)

	post, err := app.store.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if !post.IsActive {
		app.notFoundResponse(w, r, errors.New("post is inactive"))
		return
	}

	app.jsonResponse(w, http.StatusOK, post)
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.PostFilter{
		Search: r.URL.Query().Get("search"),
		Region: r.URL.Query().Get("region"),
		Limit:  20,
		Offset: 0,
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	posts, err := app.store.Posts.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, posts)
}

func (app *application) getUserPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		app.badRequestResponse(w, r, errors.New("invalid user ID"))
		return
	}

	posts, err := app.store.Posts.GetByAuthor(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, posts)
}

type updatePostPayload struct {
	Title        *string   `json:"title" validate:"omitempty,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	ThumbnailURL *string   `json:"thumbnail_url" validate:"omitempty,url"`
	Region       *string   `json:"region" validate:"omitempty,max=100"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	IsActive     *bool     `json:"is_active"`
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid post ID"))
		return
	}

	var payload updatePostPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	post, err := app.store.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if post.AuthorID != getUserIDFromContext(r) {
		writeJSONError(w, http.StatusForbidden, "not the post owner")
		return
	}

	fields := map[string]interface{}{}
	if payload.Title != nil {
		fields["title"] = *payload.Title
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.ThumbnailURL != nil {
		fields["thumbnail_url"] = *payload.ThumbnailURL
	}
	if payload.Region != nil {
		fields["region"] = *payload.Region
	}
	if payload.Tags != nil {
		fields["tags"] = *payload.Tags
	}
	if payload.IsActive != nil {
		fields["is_active"] = *payload.IsActive
	}

	if err := app.store.Posts.Update(r.Context(), id, fields); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	updated, err := app.store.Posts.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid post ID"))
		return
	}

	if err := app.store.Posts.SoftDelete(r.Context(), id, getUserIDFromContext(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func (app *application) toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid post ID"))
		return
	}

	liked, err := app.engagement.ToggleLike(r.Context(), id, getUserIDFromContext(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"liked": liked})
}
