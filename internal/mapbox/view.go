package mapbox

import (
	"context"
	"log/slog"

	"github.com/bila9630/giraffen-voice/pkg/travel"
)

// Command action names understood by the map frontend.
const (
	ActionFlyTo             = "fly_to"
	ActionShowMarkers       = "show_markers"
	ActionShowHiddenGem     = "show_hidden_gem"
	ActionCloseHiddenGem    = "close_hidden_gem"
	ActionShowHikingOverlay = "show_hiking_overlay"
	ActionShowHikingRoute   = "show_hiking_route"
	ActionShowTherapy       = "show_therapy"
	ActionCheckCapacity     = "check_visitor_capacity"
)

// Command is one instruction pushed to the map frontend.
type Command struct {
	Action string       `json:"action"`
	Center *Point       `json:"center,omitempty"`
	Zoom   float64      `json:"zoom,omitempty"`
	POIs   []travel.POI `json:"pois,omitempty"`
}

// CommandSink consumes map commands. The demo binary logs them; a real
// frontend would forward them over its own channel.
type CommandSink interface {
	Apply(cmd Command)
}

// flyToZoom frames a city-sized area.
const flyToZoom = 10

// View drives the map for the tool sequences. Named places go through
// the geocoder; everything else is a fixed command.
type View struct {
	geo    *Client
	sink   CommandSink
	logger *slog.Logger
}

// NewView binds a geocoder and a command sink.
func NewView(geo *Client, sink CommandSink, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{geo: geo, sink: sink, logger: logger}
}

func (v *View) ZoomToLocation(ctx context.Context, location string) error {
	pt, err := v.geo.Geocode(ctx, location)
	if err != nil {
		return err
	}
	v.logger.Info("flying to", "location", location, "lon", pt.Lon, "lat", pt.Lat)
	v.sink.Apply(Command{Action: ActionFlyTo, Center: &pt, Zoom: flyToZoom})
	return nil
}

func (v *View) DisplayMarkers(_ context.Context, pois []travel.POI) error {
	v.sink.Apply(Command{Action: ActionShowMarkers, POIs: pois})
	return nil
}

func (v *View) DisplayHiddenGem(_ context.Context, poi travel.POI) error {
	v.sink.Apply(Command{Action: ActionShowHiddenGem, POIs: []travel.POI{poi}})
	return nil
}

func (v *View) CloseHiddenGem(context.Context) error {
	v.sink.Apply(Command{Action: ActionCloseHiddenGem})
	return nil
}

func (v *View) ShowHikingRouteOverlay(context.Context) error {
	v.sink.Apply(Command{Action: ActionShowHikingOverlay})
	return nil
}

func (v *View) DisplayHikingRoute(context.Context) error {
	v.sink.Apply(Command{Action: ActionShowHikingRoute})
	return nil
}

func (v *View) DisplayTherapy(_ context.Context, poi travel.POI) error {
	v.sink.Apply(Command{Action: ActionShowTherapy, POIs: []travel.POI{poi}})
	return nil
}

func (v *View) CheckVisitorCapacity(context.Context) {
	v.sink.Apply(Command{Action: ActionCheckCapacity})
}
