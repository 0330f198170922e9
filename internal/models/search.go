package models

type TripType string

const (
	TripRoundTrip TripType = "round_trip"
	TripOneWay    TripType = "one_way"
)

func (t TripType) Valid() bool {
	return t == TripRoundTrip || t == TripOneWay
}

type ClassType string

const (
	ClassEconomy        ClassType = "economy"
	ClassPremiumEconomy ClassType = "premium_economy"
	ClassBusiness       ClassType = "business"
	ClassFirst          ClassType = "first"
)

func (c ClassType) Valid() bool {
	switch c {
	case ClassEconomy, ClassPremiumEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

type SortBy string

const (
	SortBest                SortBy = "best"
	SortPriceHigh           SortBy = "price_high"
	SortFastest             SortBy = "fastest"
	SortOutboundTakeOffTime SortBy = "outbound_take_off_time"
	SortOutboundLandingTime SortBy = "outbound_landing_time"
	SortReturnTakeOffTime   SortBy = "return_take_off_time"
	SortReturnLandingTime   SortBy = "return_landing_time"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortBest, SortPriceHigh, SortFastest,
		SortOutboundTakeOffTime, SortOutboundLandingTime,
		SortReturnTakeOffTime, SortReturnLandingTime:
		return true
	}
	return false
}

type Passengers struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	InfantsInSeat int `json:"infantsInSeat"`
	InfantsOnLap  int `json:"infantsOnLap"`
}

func DefaultPassengers() Passengers {
	return Passengers{Adults: 1}
}

func (p Passengers) Total() int {
	return p.Adults + p.Children + p.InfantsInSeat + p.InfantsOnLap
}

func (p Passengers) Infants() int {
	return p.InfantsInSeat + p.InfantsOnLap
}

// Normalize enforces at least one adult and no negative counts.
func (p Passengers) Normalize() Passengers {
	if p.Adults < 1 {
		p.Adults = 1
	}
	p.Children = max(p.Children, 0)
	p.InfantsInSeat = max(p.InfantsInSeat, 0)
	p.InfantsOnLap = max(p.InfantsOnLap, 0)
	return p
}

// LocaleSettings is the market context sent with every flight search.
type LocaleSettings struct {
	CountryCode string `json:"countryCode"`
	Market      string `json:"market"`
	Currency    string `json:"currency"`
}

func DefaultLocale() LocaleSettings {
	return LocaleSettings{
		CountryCode: "US",
		Market:      "en-US",
		Currency:    "USD",
	}
}

// SearchParams is the snapshot of the form recorded when a search is issued.
type SearchParams struct {
	TripType      TripType   `json:"tripType"`
	ClassType     ClassType  `json:"classType"`
	Passengers    Passengers `json:"passengers"`
	Origin        *Location  `json:"origin"`
	Destination   *Location  `json:"destination"`
	DepartureDate string     `json:"departureDate,omitempty"`
	ReturnDate    string     `json:"returnDate,omitempty"`
}

// SearchState is everything the search form and results page share.
// Empty date strings mean "not chosen".
type SearchState struct {
	TripType         TripType       `json:"tripType"`
	ClassType        ClassType      `json:"classType"`
	Passengers       Passengers     `json:"passengers"`
	Origin           *Location      `json:"origin"`
	Destination      *Location      `json:"destination"`
	DepartureDate    string         `json:"departureDate,omitempty"`
	ReturnDate       string         `json:"returnDate,omitempty"`
	SortBy           SortBy         `json:"sortBy"`
	IsSearching      bool           `json:"isSearching"`
	Locale           LocaleSettings `json:"locale"`
	LastSearchParams *SearchParams  `json:"lastSearchParams,omitempty"`
}

func DefaultSearchState() SearchState {
	return SearchState{
		TripType:   TripRoundTrip,
		ClassType:  ClassEconomy,
		Passengers: DefaultPassengers(),
		SortBy:     SortBest,
		Locale:     DefaultLocale(),
	}
}

// Clone returns a deep copy so callers never share Location pointers with the store.
func (s SearchState) Clone() SearchState {
	out := s
	out.Origin = s.Origin.Clone()
	out.Destination = s.Destination.Clone()
	if s.LastSearchParams != nil {
		p := *s.LastSearchParams
		p.Origin = s.LastSearchParams.Origin.Clone()
		p.Destination = s.LastSearchParams.Destination.Clone()
		out.LastSearchParams = &p
	}
	return out
}

// Ready reports whether the state carries enough to query flights.
func (s SearchState) Ready() bool {
	return s.Origin != nil && s.Destination != nil && s.DepartureDate != ""
}

func (s SearchState) Params() SearchParams {
	return SearchParams{
		TripType:      s.TripType,
		ClassType:     s.ClassType,
		Passengers:    s.Passengers,
		Origin:        s.Origin.Clone(),
		Destination:   s.Destination.Clone(),
		DepartureDate: s.DepartureDate,
		ReturnDate:    s.ReturnDate,
	}
}
