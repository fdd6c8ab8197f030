package windy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the Windy personal-weather-station ingestion endpoint.
const DefaultBaseURL = "https://stations.windy.com"

const stationType = "Signal K vessel"

var (
	errNoHTTPClient = errors.New("http client not configured")
	// ErrRemote is wrapped around any non-200 response.
	ErrRemote = errors.New("windy update rejected")
)

// Station describes the reporting station in an update request.
type Station struct {
	Station     int     `json:"station"`
	Name        string  `json:"name"`
	ShareOption string  `json:"shareOption"`
	Type        string  `json:"type"`
	Provider    string  `json:"provider,omitempty"`
	URL         string  `json:"url,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Elevation   int     `json:"elevation"`
}

// Observation is a single aggregated reading for a station. Optional
// readings are pointers so absent values serialize as null.
type Observation struct {
	Station  int      `json:"station"`
	Temp     float64  `json:"temp"`
	Wind     float64  `json:"wind"`
	Gust     *float64 `json:"gust"`
	WindDir  int      `json:"winddir"`
	Pressure *float64 `json:"pressure"`
	RH       *float64 `json:"rh"`
}

// UpdateRequest is the JSON body POSTed to the ingestion endpoint.
type UpdateRequest struct {
	Stations     []Station     `json:"stations"`
	Observations []Observation `json:"observations"`
}

// StationMeta is the fixed station descriptor configured at startup.
type StationMeta struct {
	ID       int
	Name     string
	Provider string
	URL      string
}

// NewStation fills in the fixed descriptor fields for the given position.
// Windy requires an elevation; vessels report sea level, submitted as 1.
func (m StationMeta) NewStation(lat, lon float64) Station {
	return Station{
		Station:     m.ID,
		Name:        m.Name,
		ShareOption: "Open",
		Type:        stationType,
		Provider:    m.Provider,
		URL:         m.URL,
		Lat:         lat,
		Lon:         lon,
		Elevation:   1,
	}
}

// Client submits station observations to Windy. Outbound calls go through
// a circuit breaker so a dead remote fails fast; failed cycles are not
// retried here, the next submit interval picks the data up again.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the given API key.
func NewClient(client *http.Client, baseURL, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "windy",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		circuit: cb,
	}
}

// Submit POSTs one update request. Success is HTTP 200 with no transport
// error; any other outcome returns an error with the response body included.
func (c *Client) Submit(ctx context.Context, update UpdateRequest) error {
	if c.client == nil {
		return errNoHTTPClient
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	u := fmt.Sprintf("%s/pws/update/%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, respBody)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("circuit breaker open: %w", err)
		}
		return err
	}
	return nil
}
