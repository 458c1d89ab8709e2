package models

// Station describes a charging point from the static catalog.
type Station struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Distance       string   `json:"distance"`
	Slots          int      `json:"slots"`
	TotalSlots     int      `json:"total_slots"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	Coordinates    string   `json:"coordinates"`
	OperatingHours string   `json:"operating_hours"`
	Features       []string `json:"features"`
}
