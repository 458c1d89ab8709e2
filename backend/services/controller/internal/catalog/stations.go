package catalog

import "solarsynergy/backend/services/controller/internal/models"

// Catalog serves the static station list. The controller treats station data
// as read-only reference material.
type Catalog struct {
	stations []models.Station
}

// New returns the catalog seeded with the campus stations.
func New() *Catalog {
	return &Catalog{stations: defaultStations()}
}

// List returns all stations.
func (c *Catalog) List() []models.Station {
	out := make([]models.Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// ByID looks a station up.
func (c *Catalog) ByID(id int) (models.Station, bool) {
	for _, s := range c.stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

func defaultStations() []models.Station {
	return []models.Station{
		{
			ID:             1,
			Name:           "Village 3C",
			Address:        "9XP8+RH, 31750, Perak",
			Distance:       "433 m away",
			Slots:          2,
			TotalSlots:     2,
			Type:           "Type 2 (22.0kW)",
			Status:         "Active",
			Coordinates:    "4.3835,100.9638",
			OperatingHours: "24/7",
			Features:       []string{"Sheltered", "Solar Powered", "Nearby Cafe"},
		},
		{
			ID:             2,
			Name:           "Village 4",
			Address:        "Universiti Teknologi PETRONAS, Village 4",
			Distance:       "1.2 km away",
			Slots:          0,
			TotalSlots:     2,
			Type:           "Type 2 (11.0kW)",
			Status:         "Occupied",
			Coordinates:    "4.3880,100.9750",
			OperatingHours: "7:00 AM - 11:00 PM",
			Features:       []string{"Security Guard", "Vending Machine"},
		},
	}
}
