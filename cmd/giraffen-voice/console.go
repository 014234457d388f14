package main

import (
	"log/slog"

	"github.com/bila9630/giraffen-voice/internal/mapbox"
	"github.com/bila9630/giraffen-voice/pkg/session"
	"github.com/bila9630/giraffen-voice/pkg/tools"
)

// consoleUI renders every presentation sink onto the log: connection and
// voice status, transcript, intents, tool progress, and map commands.
type consoleUI struct {
	logger *slog.Logger
}

func (u *consoleUI) SetConnectionStatus(s session.ConnectionStatus) {
	u.logger.Info("connection", "status", s)
}

func (u *consoleUI) SetVoiceStatus(v session.VoiceStatus) {
	u.logger.Info("voice", "status", v)
}

func (u *consoleUI) SetTranscript(text string) {
	if text == "" {
		return
	}
	u.logger.Info("you said", "transcript", text)
}

func (u *consoleUI) ReportError(err error) {
	u.logger.Error("session error", "error", err)
}

func (u *consoleUI) SetIntents(intents []tools.Intent) {
	for _, in := range intents {
		u.logger.Info("intent", "text", in.Text, "category", in.Category, "confidence", in.Confidence)
	}
}

func (u *consoleUI) AddIntent(intent tools.Intent) {
	u.logger.Info("intent", "text", intent.Text, "category", intent.Category, "confidence", intent.Confidence)
}

func (u *consoleUI) ClearIntents() {
	u.logger.Debug("intents cleared")
}

func (u *consoleUI) SetProgress(p tools.Progress) {
	if p.ActiveTool == "" {
		u.logger.Debug("tool progress reset")
		return
	}
	u.logger.Info("tool progress", "tool", p.ActiveTool, "step", p.Step)
}

func (u *consoleUI) Apply(cmd mapbox.Command) {
	attrs := []any{"action", cmd.Action}
	if cmd.Center != nil {
		attrs = append(attrs, "lon", cmd.Center.Lon, "lat", cmd.Center.Lat, "zoom", cmd.Zoom)
	}
	if len(cmd.POIs) > 0 {
		names := make([]string, 0, len(cmd.POIs))
		for _, p := range cmd.POIs {
			names = append(names, p.Name)
		}
		attrs = append(attrs, "pois", names)
	}
	u.logger.Info("map", attrs...)
}
