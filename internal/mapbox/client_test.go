package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bila9630/giraffen-voice/pkg/travel"
)

func TestGeocode(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"features":[{"center":[13.045,47.8095]}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok123", srv.URL)
	pt, err := c.Geocode(context.Background(), "Salzburg")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if pt.Lon != 13.045 || pt.Lat != 47.8095 {
		t.Fatalf("point = %+v", pt)
	}
	if gotPath != "/geocoding/v5/mapbox.places/Salzburg.json" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "access_token=tok123") {
		t.Fatalf("query missing token: %q", gotQuery)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok", srv.URL)
	if _, err := c.Geocode(context.Background(), "Atlantis"); err == nil {
		t.Fatalf("Geocode() expected error for empty feature list")
	}
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad", srv.URL)
	_, err := c.Geocode(context.Background(), "Linz")
	if err == nil {
		t.Fatalf("Geocode() expected error for status 401")
	}
	if strings.Contains(err.Error(), "bad") {
		t.Fatalf("error leaks the token: %v", err)
	}
}

type recordingSink struct {
	cmds []Command
}

func (s *recordingSink) Apply(cmd Command) { s.cmds = append(s.cmds, cmd) }

func TestView_ZoomToLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features":[{"center":[14.2861,48.3064]}]}`))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	v := NewView(NewClientWithBaseURL("tok", srv.URL), sink, nil)

	if err := v.ZoomToLocation(context.Background(), "Linz"); err != nil {
		t.Fatalf("ZoomToLocation() error = %v", err)
	}
	if len(sink.cmds) != 1 || sink.cmds[0].Action != ActionFlyTo {
		t.Fatalf("cmds = %+v", sink.cmds)
	}
	if sink.cmds[0].Center == nil || sink.cmds[0].Center.Lat != 48.3064 {
		t.Fatalf("fly_to center = %+v", sink.cmds[0].Center)
	}
}

func TestView_FixedCommands(t *testing.T) {
	sink := &recordingSink{}
	v := NewView(NewClient("tok"), sink, nil)
	ctx := context.Background()

	pois := []travel.POI{{ID: 1, Name: "Ars Electronica Center"}}
	if err := v.DisplayMarkers(ctx, pois); err != nil {
		t.Fatalf("DisplayMarkers() error = %v", err)
	}
	if err := v.CloseHiddenGem(ctx); err != nil {
		t.Fatalf("CloseHiddenGem() error = %v", err)
	}
	v.CheckVisitorCapacity(ctx)

	want := []string{ActionShowMarkers, ActionCloseHiddenGem, ActionCheckCapacity}
	if len(sink.cmds) != len(want) {
		t.Fatalf("cmds = %+v", sink.cmds)
	}
	for i, action := range want {
		if sink.cmds[i].Action != action {
			t.Fatalf("cmd %d = %q, want %q", i, sink.cmds[i].Action, action)
		}
	}
	if len(sink.cmds[0].POIs) != 1 {
		t.Fatalf("markers command lost pois")
	}
}
