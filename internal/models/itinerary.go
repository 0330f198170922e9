package models

type FlightPlace struct {
	ID            string `json:"id"`
	EntityID      string `json:"entityId"`
	Name          string `json:"name"`
	DisplayCode   string `json:"displayCode"`
	City          string `json:"city"`
	Country       string `json:"country"`
	IsHighlighted bool   `json:"isHighlighted"`
	FlightPlaceID string `json:"flightPlaceId,omitempty"`
	Type          string `json:"type,omitempty"`
}

type CarrierInfo struct {
	ID      int    `json:"id"`
	LogoURL string `json:"logoUrl"`
	Name    string `json:"name"`
}

type Carriers struct {
	Marketing     []CarrierInfo `json:"marketing"`
	Operating     []CarrierInfo `json:"operating,omitempty"`
	OperationType string        `json:"operationType"`
}

type Segment struct {
	ID                string      `json:"id"`
	Origin            FlightPlace `json:"origin"`
	Destination       FlightPlace `json:"destination"`
	Departure         string      `json:"departure"`
	Arrival           string      `json:"arrival"`
	DurationInMinutes int         `json:"durationInMinutes"`
	FlightNumber      string      `json:"flightNumber"`
	MarketingCarrier  CarrierInfo `json:"marketingCarrier"`
	OperatingCarrier  CarrierInfo `json:"operatingCarrier"`
}

type Leg struct {
	ID                string      `json:"id"`
	Origin            FlightPlace `json:"origin"`
	Destination       FlightPlace `json:"destination"`
	DurationInMinutes int         `json:"durationInMinutes"`
	StopCount         int         `json:"stopCount"`
	IsSmallestStops   bool        `json:"isSmallestStops"`
	Departure         string      `json:"departure"`
	Arrival           string      `json:"arrival"`
	TimeDeltaInDays   int         `json:"timeDeltaInDays"`
	Carriers          Carriers    `json:"carriers"`
	Segments          []Segment   `json:"segments"`
}

type Price struct {
	Raw             float64 `json:"raw"`
	Formatted       string  `json:"formatted"`
	PricingOptionID string  `json:"pricingOptionId"`
}

type FarePolicy struct {
	IsChangeAllowed       bool `json:"isChangeAllowed"`
	IsPartiallyChangeable bool `json:"isPartiallyChangeable"`
	IsCancellationAllowed bool `json:"isCancellationAllowed"`
	IsPartiallyRefundable bool `json:"isPartiallyRefundable"`
}

type Eco struct {
	EcoContenderDelta float64 `json:"ecoContenderDelta"`
}

// Itinerary is an upstream search hit. It is never modified after decoding.
type Itinerary struct {
	ID                      string     `json:"id"`
	Price                   Price      `json:"price"`
	Legs                    []Leg      `json:"legs"`
	IsSelfTransfer          bool       `json:"isSelfTransfer"`
	IsProtectedSelfTransfer bool       `json:"isProtectedSelfTransfer"`
	FarePolicy              FarePolicy `json:"farePolicy"`
	Eco                     *Eco       `json:"eco,omitempty"`
	Tags                    []string   `json:"tags,omitempty"`
	IsMashUp                bool       `json:"isMashUp"`
	HasFlexibleOptions      bool       `json:"hasFlexibleOptions"`
	Score                   float64    `json:"score"`
}

// TotalDuration sums the leg durations.
func (it Itinerary) TotalDuration() int {
	total := 0
	for _, l := range it.Legs {
		total += l.DurationInMinutes
	}
	return total
}

func (it Itinerary) MaxStops() int {
	stops := 0
	for _, l := range it.Legs {
		if l.StopCount > stops {
			stops = l.StopCount
		}
	}
	return stops
}

type DurationStats struct {
	Min          int `json:"min"`
	Max          int `json:"max"`
	MultiCityMin int `json:"multiCityMin"`
	MultiCityMax int `json:"multiCityMax"`
}

type StopPrice struct {
	IsPresent      bool    `json:"isPresent"`
	FormattedPrice string  `json:"formattedPrice,omitempty"`
	RawPrice       float64 `json:"rawPrice,omitempty"`
}

type StopPrices struct {
	Direct    StopPrice `json:"direct"`
	One       StopPrice `json:"one"`
	TwoOrMore StopPrice `json:"twoOrMore"`
}

type FilterStats struct {
	Duration   DurationStats `json:"duration"`
	StopPrices StopPrices    `json:"stopPrices"`
}

// FlightSearchResult is the useful part of a searchFlights response.
type FlightSearchResult struct {
	SessionID           string      `json:"sessionId"`
	Status              string      `json:"status"`
	TotalResults        int         `json:"totalResults"`
	Itineraries         []Itinerary `json:"itineraries"`
	FilterStats         FilterStats `json:"filterStats"`
	Token               string      `json:"token,omitempty"`
	DestinationImageURL string      `json:"destinationImageUrl,omitempty"`
}
