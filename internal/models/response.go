package models

import "time"

type ErrorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	Code        int    `json:"code"`
	Dismissible bool   `json:"dismissible,omitempty"`
	Action      string `json:"action,omitempty"`
}

// Notice is a banner the client shows until it is dismissed or the condition clears.
type Notice struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

type StateResponse struct {
	State  SearchState `json:"state"`
	Query  string      `json:"query"`
	Notice *Notice     `json:"notice,omitempty"`
}

type SearchMetadata struct {
	TotalResults    int   `json:"total_results"`
	ReturnedResults int   `json:"returned_results"`
	SearchTimeMs    int64 `json:"search_time_ms"`
	CacheHit        bool  `json:"cache_hit"`
}

type FlightSearchResponse struct {
	SearchCriteria      FlightSearchRequest `json:"search_criteria"`
	State               SearchState         `json:"state"`
	Query               string              `json:"query"`
	Metadata            SearchMetadata      `json:"metadata"`
	Itineraries         []ItineraryView     `json:"itineraries"`
	FilterStats         FilterStats         `json:"filter_stats"`
	DestinationImageURL string              `json:"destination_image_url,omitempty"`
	Notice              *Notice             `json:"notice,omitempty"`
}

type AirportsResponse struct {
	Query     string     `json:"query"`
	Locations []Location `json:"locations"`
	CacheHit  bool       `json:"cache_hit"`
	Notice    *Notice    `json:"notice,omitempty"`
}

type ConfigResponse struct {
	Locales []LocaleConfig `json:"locales"`
	Notice  *Notice        `json:"notice,omitempty"`
}

type LocaleResponse struct {
	Locale   LocaleSettings `json:"locale"`
	Country  string         `json:"country,omitempty"`
	Matched  bool           `json:"matched"`
	Fallback bool           `json:"fallback"`
}

type UpstreamStatus struct {
	Online    bool      `json:"online"`
	Since     time.Time `json:"since"`
	LastError string    `json:"last_error,omitempty"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Upstream UpstreamStatus `json:"upstream"`
}
