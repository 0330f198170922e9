package models

// FlightSearchRequest mirrors the query parameters of the upstream searchFlights call.
type FlightSearchRequest struct {
	OriginSkyID         string    `json:"originSkyId" validate:"required"`
	DestinationSkyID    string    `json:"destinationSkyId" validate:"required,nefield=OriginSkyID"`
	OriginEntityID      string    `json:"originEntityId" validate:"required"`
	DestinationEntityID string    `json:"destinationEntityId" validate:"required"`
	Date                string    `json:"date" validate:"required,datetime=2006-01-02"`
	ReturnDate          string    `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CabinClass          ClassType `json:"cabinClass" validate:"required,oneof=economy premium_economy business first"`
	Adults              int       `json:"adults" validate:"min=1"`
	Children            int       `json:"children" validate:"min=0"`
	Infants             int       `json:"infants" validate:"min=0"`
	SortBy              SortBy    `json:"sortBy,omitempty"`
	Limit               int       `json:"limit,omitempty" validate:"min=0,max=100"`
	Currency            string    `json:"currency,omitempty"`
	Market              string    `json:"market,omitempty"`
	CountryCode         string    `json:"countryCode,omitempty"`
}

// ResultFilters narrows an already fetched result set. Nil fields are ignored.
type ResultFilters struct {
	MaxStops    *int     `json:"maxStops,omitempty"`
	Carriers    []string `json:"carriers,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	MaxDuration *int     `json:"maxDuration,omitempty"`
}

func (f *ResultFilters) Empty() bool {
	return f == nil || (f.MaxStops == nil && len(f.Carriers) == 0 && f.MaxPrice == nil && f.MaxDuration == nil)
}
