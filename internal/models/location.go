package models

// Location identifies an airport or city chosen on the search form.
type Location struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	SkyID    string `json:"skyId,omitempty"`
	EntityID string `json:"entityId,omitempty"`
}

func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// FlightSkyID falls back to the display code when the upstream id is unknown.
func (l *Location) FlightSkyID() string {
	if l.SkyID != "" {
		return l.SkyID
	}
	return l.Code
}

func (l *Location) FlightEntityID() string {
	if l.EntityID != "" {
		return l.EntityID
	}
	return l.Code
}

type AirportPresentation struct {
	Title           string `json:"title"`
	SuggestionTitle string `json:"suggestionTitle"`
	Subtitle        string `json:"subtitle"`
}

type RelevantFlightParams struct {
	SkyID           string `json:"skyId"`
	EntityID        string `json:"entityId"`
	FlightPlaceType string `json:"flightPlaceType"`
	LocalizedName   string `json:"localizedName"`
}

type RelevantHotelParams struct {
	EntityID      string `json:"entityId"`
	EntityType    string `json:"entityType"`
	LocalizedName string `json:"localizedName"`
}

type AirportNavigation struct {
	EntityID             string               `json:"entityId"`
	EntityType           string               `json:"entityType"`
	LocalizedName        string               `json:"localizedName"`
	RelevantFlightParams RelevantFlightParams `json:"relevantFlightParams"`
	RelevantHotelParams  RelevantHotelParams  `json:"relevantHotelParams"`
}

// Airport is one airport search hit as returned upstream.
type Airport struct {
	SkyID        string              `json:"skyId"`
	EntityID     string              `json:"entityId"`
	Presentation AirportPresentation `json:"presentation"`
	Navigation   AirportNavigation   `json:"navigation"`
}

func (a Airport) ToLocation() Location {
	return Location{
		Code:     a.SkyID,
		Name:     a.Presentation.Title,
		City:     a.Presentation.Title,
		Country:  a.Presentation.Subtitle,
		SkyID:    a.SkyID,
		EntityID: a.EntityID,
	}
}
