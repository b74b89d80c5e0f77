package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dive/internal/geo"
)

const defaultOSRMBaseURL = "http://router.project-osrm.org"

var errNoRoute = errors.New("no route found")

// OSRMClient calls an OSRM-compatible routing server. Only the driving
// profile is used.
type OSRMClient struct {
	baseURL string
	client  *http.Client
}

func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	return &OSRMClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route returns the driving distance in meters and duration in seconds
// between start and end. Any transport, decoding or empty-route problem
// is returned as an error; callers are expected to fall back.
func (c *OSRMClient) Route(ctx context.Context, start, end geo.Coordinate) (distanceM, durationS float64, err error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL, start.Lng, start.Lat, end.Lng, end.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("osrm request failed: %s", resp.Status)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("failed to decode osrm response: %w", err)
	}

	if len(body.Routes) == 0 {
		return 0, 0, errNoRoute
	}

	return body.Routes[0].Distance, body.Routes[0].Duration, nil
}
