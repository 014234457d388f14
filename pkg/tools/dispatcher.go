package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bila9630/giraffen-voice/pkg/core"
	"github.com/bila9630/giraffen-voice/pkg/travel"
)

const (
	stepDelay            = 500 * time.Millisecond
	hikeCloseDelay       = 1 * time.Second
	hikeOverlayDelay     = 2 * time.Second
	hikeFinalDelay       = 1 * time.Second
	visitorCapacityDelay = 3 * time.Second
)

// Dispatcher runs tool invocations one at a time. It is driven by the
// session's event loop, so there is never more than one tool in flight.
type Dispatcher struct {
	store  travel.Store
	mapv   MapView
	ui     UISink
	logger *slog.Logger

	// sleep is swappable so tests run the sequences without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher wires a dispatcher against the given store and surfaces.
func NewDispatcher(store travel.Store, mapv MapView, ui UISink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:  store,
		mapv:   mapv,
		ui:     ui,
		logger: logger,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Execute runs the invocation and returns the function call output.
// It never returns an error: failures become a Result with Success false
// so the model can tell the user what went wrong.
func (d *Dispatcher) Execute(ctx context.Context, inv Invocation) Result {
	name, ok := ParseName(inv.Name)
	if !ok {
		d.logger.Warn("unknown tool requested", "name", inv.Name, "call_id", inv.CallID)
		return Result{Success: false, Message: "Unknown function"}
	}

	d.logger.Info("executing tool", "name", name, "call_id", inv.CallID)
	msg, err := d.run(ctx, name, inv.Arguments)
	if err != nil {
		d.logger.Error("tool failed", "name", name, "error", err)
		return Result{Success: false, Message: "Error: " + err.Error()}
	}
	return Result{Success: true, Message: msg}
}

func (d *Dispatcher) run(ctx context.Context, name Name, args string) (msg string, err error) {
	// Whatever happens, the progress bar must not be left mid-sequence.
	defer d.ui.SetProgress(NoProgress)

	switch name {
	case NameZoomToLocation:
		return d.zoomToLocation(ctx, args)
	case NameTopAttractions:
		return d.topAttractions(ctx)
	case NameHiddenGem:
		return d.hiddenGem(ctx)
	case NameHikingRoute:
		return d.hikingRoute(ctx)
	case NameTherapy:
		return d.therapy(ctx)
	default:
		return "", core.NewToolExecutionError(fmt.Sprintf("no handler for %s", name))
	}
}

func (d *Dispatcher) zoomToLocation(ctx context.Context, args string) (string, error) {
	var params struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return "", core.NewToolExecutionError("invalid arguments: " + err.Error())
	}
	if params.Location == "" {
		return "", core.NewToolExecutionError("location is required")
	}
	if err := d.mapv.ZoomToLocation(ctx, params.Location); err != nil {
		return "", err
	}
	return "Zoomed to " + params.Location, nil
}

func (d *Dispatcher) topAttractions(ctx context.Context) (string, error) {
	d.ui.SetIntents([]Intent{
		{Text: "Exploration", Category: "activity", Confidence: 92},
		{Text: "Tourism", Category: "activity", Confidence: 88},
	})
	defer d.ui.ClearIntents()

	for step := 0; step < 3; step++ {
		d.ui.SetProgress(Progress{ActiveTool: NameTopAttractions, Step: step})
		if err := d.sleep(ctx, stepDelay); err != nil {
			return "", err
		}
	}

	pois, err := d.store.TopAttractions(ctx, 5)
	if err != nil {
		return "", err
	}
	if err := d.mapv.DisplayMarkers(ctx, pois); err != nil {
		return "", err
	}
	return "Displayed top 5 attractions in Linz", nil
}

func (d *Dispatcher) hiddenGem(ctx context.Context) (string, error) {
	d.ui.SetIntents([]Intent{
		{Text: "Discovery", Category: "discovery", Confidence: 95},
		{Text: "Local Secrets", Category: "discovery", Confidence: 90},
	})
	defer d.ui.ClearIntents()

	for step := 0; step < 3; step++ {
		d.ui.SetProgress(Progress{ActiveTool: NameHiddenGem, Step: step})
		if err := d.sleep(ctx, stepDelay); err != nil {
			return "", err
		}
	}

	gem, err := d.store.HiddenGem(ctx)
	if err != nil {
		return "", err
	}
	if err := d.mapv.DisplayHiddenGem(ctx, gem); err != nil {
		return "", err
	}

	// The capacity check fires later, and only while the session lives.
	go func() {
		if err := d.sleep(ctx, visitorCapacityDelay); err != nil {
			return
		}
		d.mapv.CheckVisitorCapacity(ctx)
	}()

	return "Displayed hidden gem in Linz", nil
}

func (d *Dispatcher) hikingRoute(ctx context.Context) (string, error) {
	d.ui.SetIntents([]Intent{
		{Text: "Hiking", Category: "activity", Confidence: 94},
		{Text: "Adventurous", Category: "activity", Confidence: 89},
	})
	defer d.ui.ClearIntents()

	d.ui.SetProgress(Progress{ActiveTool: NameHikingRoute, Step: 0})
	if err := d.mapv.CloseHiddenGem(ctx); err != nil {
		return "", err
	}
	if err := d.sleep(ctx, hikeCloseDelay); err != nil {
		return "", err
	}

	d.ui.SetProgress(Progress{ActiveTool: NameHikingRoute, Step: 1})
	if err := d.mapv.ShowHikingRouteOverlay(ctx); err != nil {
		return "", err
	}
	d.ui.AddIntent(Intent{Text: "Weather-Conscious", Category: "safety", Confidence: 91})
	if err := d.sleep(ctx, hikeOverlayDelay); err != nil {
		return "", err
	}

	d.ui.SetProgress(Progress{ActiveTool: NameHikingRoute, Step: 2})
	if err := d.sleep(ctx, hikeFinalDelay); err != nil {
		return "", err
	}

	d.ui.SetProgress(NoProgress)
	if err := d.mapv.DisplayHikingRoute(ctx); err != nil {
		return "", err
	}
	return "Displayed hiking route near Linz", nil
}

func (d *Dispatcher) therapy(ctx context.Context) (string, error) {
	d.ui.SetIntents([]Intent{
		{Text: "Relationship Support", Category: "planning", Confidence: 93},
		{Text: "Wellness", Category: "activity", Confidence: 88},
	})
	defer d.ui.ClearIntents()

	d.ui.SetProgress(Progress{ActiveTool: NameTherapy, Step: 0})
	if err := d.mapv.CloseHiddenGem(ctx); err != nil {
		return "", err
	}
	if err := d.sleep(ctx, stepDelay); err != nil {
		return "", err
	}

	for step := 1; step < 3; step++ {
		d.ui.SetProgress(Progress{ActiveTool: NameTherapy, Step: step})
		if err := d.sleep(ctx, stepDelay); err != nil {
			return "", err
		}
	}

	d.ui.SetProgress(NoProgress)
	if err := d.mapv.DisplayTherapy(ctx, travel.TherapyCenter()); err != nil {
		return "", err
	}
	return "Displayed couples therapy center in Linz", nil
}
