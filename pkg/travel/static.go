package travel

import (
	"context"

	"github.com/bila9630/giraffen-voice/pkg/core"
)

// StaticStore serves the built-in Linz dataset. It backs the demo when no
// database is configured and every tool test.
type StaticStore struct {
	attractions []POI
	gem         *POI
}

// NewStaticStore returns a store preloaded with the Linz demo data.
func NewStaticStore() *StaticStore {
	gem := POI{
		ID:          100,
		Name:        "Höhenrausch Rooftop Walk",
		Lat:         48.3055,
		Lon:         14.2861,
		Rating:      4.7,
		ImageURL:    "/hoehenrausch.png",
		Description: "A rooftop art trail above the city center, hidden in plain sight over the Passage shopping arcade.",
	}
	return &StaticStore{
		attractions: []POI{
			{ID: 1, Name: "Ars Electronica Center", Lat: 48.3097, Lon: 14.2843},
			{ID: 2, Name: "Pöstlingberg Basilica", Lat: 48.3214, Lon: 14.2583},
			{ID: 3, Name: "Lentos Art Museum", Lat: 48.3089, Lon: 14.2883},
			{ID: 4, Name: "Hauptplatz Linz", Lat: 48.3064, Lon: 14.2861},
			{ID: 5, Name: "Mariendom", Lat: 48.3029, Lon: 14.2854},
		},
		gem: &gem,
	}
}

// TopAttractions returns up to limit attractions ordered by id.
func (s *StaticStore) TopAttractions(_ context.Context, limit int) ([]POI, error) {
	if limit <= 0 || limit > len(s.attractions) {
		limit = len(s.attractions)
	}
	out := make([]POI, limit)
	copy(out, s.attractions[:limit])
	return out, nil
}

// HiddenGem returns the featured hidden gem spot.
func (s *StaticStore) HiddenGem(_ context.Context) (POI, error) {
	if s.gem == nil {
		return POI{}, core.NewToolExecutionError("no hidden gem configured")
	}
	return *s.gem, nil
}
