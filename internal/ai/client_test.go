package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient("test-key", baseURL, "", 2*time.Second)
}

func TestGenerateScheduleStripsFences(t *testing.T) {
	content := "```json\n[{\"day\":1,\"places\":[{\"name\":\"A\",\"description\":\"d\",\"time\":\"10:00 AM\"}]}]\n```"
	srv := completionServer(t, content)
	defer srv.Close()

	days, err := newTestClient(srv.URL).GenerateSchedule(context.Background(), "theme", "region", "1 day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 || days[0].Day != 1 || len(days[0].Places) != 1 {
		t.Fatalf("parsed %+v", days)
	}
	if days[0].Places[0].Name != "A" {
		t.Fatalf("place name = %q", days[0].Places[0].Name)
	}
}

func TestGenerateScheduleMalformed(t *testing.T) {
	srv := completionServer(t, "Sure! Here is your schedule: day one...")
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateSchedule(context.Background(), "theme", "region", "1 day")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestAnalyzeTheme(t *testing.T) {
	content := `[{"name":"Blue Note","description":"jazz club","address":"Umeda","tags":["jazz","night"]}]`
	srv := completionServer(t, content)
	defer srv.Close()

	places, err := newTestClient(srv.URL).AnalyzeTheme(context.Background(), "jazz", "Osaka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Blue Note" || len(places[0].Tags) != 2 {
		t.Fatalf("parsed %+v", places)
	}
}

func TestVerifyPlaceParsesVerdict(t *testing.T) {
	content := "```json\n{\"exists\":true,\"verification_score\":92,\"reason\":\"well documented\"}\n```"
	srv := completionServer(t, content)
	defer srv.Close()

	v, err := newTestClient(srv.URL).VerifyPlace(context.Background(), "Blue Note", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Exists || v.VerificationScore != 92 {
		t.Fatalf("verdict %+v", v)
	}
}

func TestVerifyPlaceDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v, err := newTestClient(srv.URL).VerifyPlace(context.Background(), "Blue Note", "")
	if err != nil {
		t.Fatalf("verification must not fail: %v", err)
	}
	if !v.Exists || v.VerificationScore != 50 {
		t.Fatalf("expected neutral verdict, got %+v", v)
	}
}

func TestVerifyPlaceDegradesOnGarbage(t *testing.T) {
	srv := completionServer(t, "I could not determine that.")
	defer srv.Close()

	v, err := newTestClient(srv.URL).VerifyPlace(context.Background(), "Blue Note", "")
	if err != nil {
		t.Fatalf("verification must not fail: %v", err)
	}
	if v.VerificationScore != 50 {
		t.Fatalf("expected neutral verdict, got %+v", v)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateSchedule(context.Background(), "theme", "region", "1 day")
	if err == nil {
		t.Fatal("expected an error for an empty choice list")
	}
}
