// Package travel holds the points-of-interest data consumed by the
// assistant's tool sequences: top attractions, the hidden gem, and the
// hardcoded therapy center.
package travel

import "context"

// POI is one point of interest shown on the map.
type POI struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Rating      float64 `json:"rating,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Store provides the lookups the tool sequences need.
type Store interface {
	// TopAttractions returns up to limit POIs ordered by id.
	TopAttractions(ctx context.Context, limit int) ([]POI, error)
	// HiddenGem returns the featured hidden gem spot.
	HiddenGem(ctx context.Context) (POI, error)
}

// TherapyCenter is the fixed couples-therapy marker; it is not stored,
// it ships with the demo.
func TherapyCenter() POI {
	return POI{
		ID:          999,
		Name:        "Couple Therapy Can Lichtenberg",
		Lat:         48.30604083233107,
		Lon:         14.28505931339385,
		Rating:      4.8,
		ImageURL:    "/therapie.png",
		Description: "Professional couples therapy and relationship counseling in a warm, supportive environment.",
	}
}
