package models

// Stop is an intermediate place a leg touches down at.
type Stop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Country string `json:"country"`
	Tooltip string `json:"tooltip"`
}

type SegmentView struct {
	Segment
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	DepartureFull   string `json:"departureFull"`
	Duration        string `json:"duration"`
	LayoverMinutes  int    `json:"layoverMinutes"`
	LayoverDuration string `json:"layoverDuration,omitempty"`
}

type LegView struct {
	LegID            string        `json:"legId"`
	Origin           FlightPlace   `json:"origin"`
	Destination      FlightPlace   `json:"destination"`
	DepartureTime    string        `json:"departureTime"`
	ArrivalTime      string        `json:"arrivalTime"`
	TimeDeltaInDays  int           `json:"timeDeltaInDays"`
	DurationMinutes  int           `json:"durationMinutes"`
	Duration         string        `json:"duration"`
	StopsLabel       string        `json:"stopsLabel"`
	Stops            []Stop        `json:"stops"`
	TotalStopMinutes int           `json:"totalStopMinutes"`
	Carriers         []string      `json:"carriers"`
	Segments         []SegmentView `json:"segments"`
}

type ItineraryView struct {
	ID             string     `json:"id"`
	Price          Price      `json:"price"`
	PriceFormatted string     `json:"priceFormatted"`
	Score          float64    `json:"score"`
	Tags           []string   `json:"tags,omitempty"`
	IsSelfTransfer bool       `json:"isSelfTransfer"`
	FarePolicy     FarePolicy `json:"farePolicy"`
	Legs           []LegView  `json:"legs"`
}
