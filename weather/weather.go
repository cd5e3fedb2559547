// Package weather proxies the OpenWeatherMap one-call API and reshapes its
// response into the views the clients render.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/fasthash/fnv1a"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultEndpoint = "https://api.openweathermap.org/data/2.5/onecall"
	cacheTTL        = 10 * time.Minute
)

// OneCall is the subset of the provider response the views need.
type OneCall struct {
	TimezoneOffset int64 `json:"timezone_offset"`
	Current        struct {
		Temp      float64     `json:"temp"`
		FeelsLike float64     `json:"feels_like"`
		Humidity  float64     `json:"humidity"`
		Weather   []Condition `json:"weather"`
	} `json:"current"`
	Hourly []struct {
		Temp    float64     `json:"temp"`
		Pop     float64     `json:"pop"`
		Weather []Condition `json:"weather"`
	} `json:"hourly"`
	Daily []struct {
		Temp struct {
			Day float64 `json:"day"`
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []Condition `json:"weather"`
	} `json:"daily"`
}

// Condition is one provider weather descriptor.
type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Client fetches forecasts, caching responses briefly so repeated lookups for
// the same coordinates do not hit the provider.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	cache    *redis.Client
}

// New builds a Client. cache may be nil to disable caching.
func New(apiKey string, cache *redis.Client) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
	}
}

// NewWithEndpoint builds a Client against a non-default endpoint.
func NewWithEndpoint(apiKey string, endpoint string, cache *redis.Client) *Client {
	c := New(apiKey, cache)
	c.endpoint = endpoint
	return c
}

// CacheKey derives the cache key for a coordinate pair. Coordinates are
// rounded so nearby lookups share an entry.
func CacheKey(lat float64, lng float64) string {
	coords := fmt.Sprintf("%.2f,%.2f", lat, lng)
	return fmt.Sprintf("weather:%x", fnv1a.HashString64(coords))
}

// Forecast returns the one-call data for a coordinate pair.
func (cl *Client) Forecast(ctx context.Context, lat float64, lng float64) (*OneCall, error) {
	key := CacheKey(lat, lng)

	if cl.cache != nil {
		if cached, err := cl.cache.Get(ctx, key).Bytes(); err == nil {
			data := new(OneCall)
			if err = json.Unmarshal(cached, data); err == nil {
				return data, nil
			}
		}
	}

	url := fmt.Sprintf("%s?lat=%f&lon=%f&exclude=alerts,minutely&units=imperial&appid=%s",
		cl.endpoint, lat, lng, cl.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := cl.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider responded %d", res.StatusCode)
	}

	data := new(OneCall)
	if err = json.Unmarshal(body, data); err != nil {
		return nil, err
	}

	if cl.cache != nil {
		cl.cache.Set(ctx, key, body, cacheTTL)
	}

	return data, nil
}
