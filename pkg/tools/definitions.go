package tools

import "github.com/bila9630/giraffen-voice/pkg/realtime"

// Definitions returns the tool schemas advertised in the session config.
func Definitions() []realtime.ToolDefinition {
	return []realtime.ToolDefinition{
		{
			Type:        "function",
			Name:        string(NameZoomToLocation),
			Description: "Zoom the map to a specific location or destination. Use this when the user mentions a place they want to visit or learn about.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": `The name of the location to zoom to (e.g., "Paris", "Tokyo", "Grand Canyon")`,
					},
				},
				"required": []string{"location"},
			},
		},
		{
			Type:        "function",
			Name:        string(NameTopAttractions),
			Description: "Fetch and display the top 5 attractions in Linz on the map as markers. Use this when the user asks about attractions, cool spots, places to visit, things to do, or any general tourism questions about Linz.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Type:        "function",
			Name:        string(NameHiddenGem),
			Description: `Fetch and display a hidden gem spot in Linz on the map. ONLY use this function when the user explicitly asks for a "hidden gem", "secret spot", "hidden spot", or similar terms.`,
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Type:        "function",
			Name:        string(NameHikingRoute),
			Description: "Display a scenic circular hiking route near Linz on the map. Use this when the user asks about hiking, walking routes, trails, or outdoor activities near Linz.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Type:        "function",
			Name:        string(NameTherapy),
			Description: "Display a couples therapy center in Linz on the map. Use this when the user asks about therapy, couples therapy, counseling, relationship help, or mental health services in Linz.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
