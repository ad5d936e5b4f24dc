package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fetcher retrieves the current observation for a single city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (Record, error)
}

// OpenWeatherFetcher implements the Fetcher interface against the
// OpenWeatherMap current weather API.
type OpenWeatherFetcher struct {
	client  *http.Client
	apiKey  string
	baseURL string
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherFetcher(client *http.Client, apiKey string) *OpenWeatherFetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherFetcher{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		circuit: cb,
	}
}

// Fetch performs one GET for the city in metric units and maps the response
// into a Record. Any network error, non-2xx status, or missing response
// section is reported as an error; the caller decides how to recover.
func (f *OpenWeatherFetcher) Fetch(ctx context.Context, city string) (Record, error) {
	if f.apiKey == "" {
		return Record{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", f.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", f.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Record{}, err
	}

	resp, err := f.do(req)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()

	// Pointer fields distinguish a missing section from a zero-valued one.
	var payload struct {
		Main *struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind *struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Record{}, fmt.Errorf("decode response for %s: %w", city, err)
	}

	if payload.Main == nil || payload.Wind == nil || len(payload.Weather) == 0 {
		return Record{}, fmt.Errorf("unexpected response shape for %s", city)
	}

	return Record{
		City:         city,
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		PressureHpa:  payload.Main.Pressure,
		Description:  cases.Title(language.English).String(payload.Weather[0].Description),
		WindSpeedMS:  payload.Wind.Speed,
		// Capture time is stamped locally at mapping, not taken from the API.
		CapturedAt: time.Now(),
	}, nil
}

// do executes the request through the circuit breaker. Exactly one HTTP
// attempt is made per call; the breaker only turns a persistently failing
// upstream into fast local failure.
func (f *OpenWeatherFetcher) do(req *http.Request) (*http.Response, error) {
	result, err := f.circuit.Execute(func() (interface{}, error) {
		resp, execErr := f.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
