package skyscrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

type Config struct {
	BaseURL string
	APIKey  string
	Host    string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		host:       cfg.Host,
		log:        log,
	}
}

// envelope is the common {status, message, data} wrapper of every endpoint.
type envelope[T any] struct {
	Status    bool   `json:"status"`
	Message   any    `json:"message"`
	Timestamp int64  `json:"timestamp"`
	SessionID string `json:"sessionId,omitempty"`
	Data      T      `json:"data"`
}

type flightsData struct {
	Context struct {
		Status       string `json:"status"`
		SessionID    string `json:"sessionId"`
		TotalResults int    `json:"totalResults"`
	} `json:"context"`
	Itineraries         []models.Itinerary `json:"itineraries"`
	FilterStats         models.FilterStats `json:"filterStats"`
	Token               string             `json:"token"`
	DestinationImageURL string             `json:"destinationImageUrl"`
}

func (c *Client) GetConfig(ctx context.Context) ([]models.LocaleConfig, error) {
	var resp envelope[[]models.LocaleConfig]
	if err := c.get(ctx, EndpointConfig, "/v1/getConfig", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SearchAirports(ctx context.Context, query, locale string) ([]models.Airport, error) {
	if locale == "" {
		locale = DefaultAirportLocale
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("locale", locale)

	var resp envelope[[]models.Airport]
	if err := c.get(ctx, EndpointAirports, "/v1/flights/searchAirport", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	var resp envelope[flightsData]
	if err := c.get(ctx, EndpointFlights, "/v2/flights/searchFlights", FlightParams(req), &resp); err != nil {
		return nil, err
	}

	sessionID := resp.Data.Context.SessionID
	if sessionID == "" {
		sessionID = resp.SessionID
	}
	return &models.FlightSearchResult{
		SessionID:           sessionID,
		Status:              resp.Data.Context.Status,
		TotalResults:        resp.Data.Context.TotalResults,
		Itineraries:         resp.Data.Itineraries,
		FilterStats:         resp.Data.FilterStats,
		Token:               resp.Data.Token,
		DestinationImageURL: resp.Data.DestinationImageURL,
	}, nil
}

// FlightParams encodes a search request with the upstream defaults applied.
func FlightParams(req models.FlightSearchRequest) url.Values {
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = models.SortBest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("originSkyId", req.OriginSkyID)
	params.Set("destinationSkyId", req.DestinationSkyID)
	params.Set("originEntityId", req.OriginEntityID)
	params.Set("destinationEntityId", req.DestinationEntityID)
	params.Set("date", req.Date)
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	params.Set("cabinClass", string(req.CabinClass))
	params.Set("adults", strconv.Itoa(req.Adults))
	params.Set("children", strconv.Itoa(req.Children))
	params.Set("infants", strconv.Itoa(req.Infants))
	params.Set("sortBy", string(sortBy))
	params.Set("limit", strconv.Itoa(limit))
	if req.Currency != "" {
		params.Set("currency", req.Currency)
	}
	if req.Market != "" {
		params.Set("market", req.Market)
	}
	if req.CountryCode != "" {
		params.Set("countryCode", req.CountryCode)
	}
	return params
}

type statusEnvelope interface {
	ok() bool
	message() string
}

func (e *envelope[T]) ok() bool {
	return e.Status
}

func (e *envelope[T]) message() string {
	switch m := e.Message.(type) {
	case nil:
		return ""
	case string:
		return m
	default:
		data, _ := json.Marshal(m)
		return string(data)
	}
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out statusEnvelope) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return NewUpstreamError(endpoint, 0, "create request", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError(endpoint, err)
		return NewUpstreamError(endpoint, 0, "request failed", err)
	}
	defer resp.Body.Close()

	c.log.Debug("upstream response",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := NewUpstreamError(endpoint, resp.StatusCode, upstreamMessage(resp.StatusCode, body), nil)
		c.log.UpstreamError(endpoint, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError(endpoint, err)
		return NewUpstreamError(endpoint, resp.StatusCode, "decode response", err)
	}

	if !out.ok() {
		msg := out.message()
		if msg == "" {
			msg = "request was not successful"
		}
		err := NewUpstreamError(endpoint, resp.StatusCode, msg, nil)
		c.log.UpstreamError(endpoint, err)
		return err
	}

	return nil
}

func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "invalid or missing API key"
	case http.StatusTooManyRequests:
		return "quota exceeded"
	default:
		return fmt.Sprintf("unexpected status %s", http.StatusText(status))
	}
}
