// Package tools executes the assistant's function calls against the map
// and the intent/progress UI. Each tool runs a scripted sequence of map
// actions and progress updates, then reports a short result message the
// model reads back to the user.
package tools

import (
	"context"

	"github.com/bila9630/giraffen-voice/pkg/travel"
)

// Name identifies one of the callable tools.
type Name string

const (
	NameZoomToLocation Name = "zoom_to_location"
	NameTopAttractions Name = "top_5_linz_attractions"
	NameHiddenGem      Name = "hidden_gem_linz"
	NameHikingRoute    Name = "hiking_route_linz"
	NameTherapy        Name = "therapy_linz"
)

// ParseName maps a wire tool name onto a known Name.
func ParseName(s string) (Name, bool) {
	switch n := Name(s); n {
	case NameZoomToLocation, NameTopAttractions, NameHiddenGem, NameHikingRoute, NameTherapy:
		return n, true
	default:
		return "", false
	}
}

// Invocation is one function call as received from the model.
type Invocation struct {
	CallID    string
	Name      string
	Arguments string
}

// Result is what gets posted back as the function call output.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Intent is a detected user intent shown in the UI while a tool runs.
type Intent struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
}

// Progress marks which tool is running and which step it is on.
// The zero value with Step -1 means no tool is active.
type Progress struct {
	ActiveTool Name
	Step       int
}

// NoProgress is the reset state between tool runs.
var NoProgress = Progress{ActiveTool: "", Step: -1}

// MapView is the camera and marker surface the tools drive.
type MapView interface {
	ZoomToLocation(ctx context.Context, location string) error
	DisplayMarkers(ctx context.Context, pois []travel.POI) error
	DisplayHiddenGem(ctx context.Context, poi travel.POI) error
	CloseHiddenGem(ctx context.Context) error
	ShowHikingRouteOverlay(ctx context.Context) error
	DisplayHikingRoute(ctx context.Context) error
	DisplayTherapy(ctx context.Context, poi travel.POI) error
	CheckVisitorCapacity(ctx context.Context)
}

// UISink receives intent and progress updates while a tool runs.
type UISink interface {
	SetIntents(intents []Intent)
	AddIntent(intent Intent)
	ClearIntents()
	SetProgress(p Progress)
}
