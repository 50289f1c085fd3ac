package models

type Hub struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Photo       string     `json:"photo"`
	Exercises   []Exercise `json:"exercises"`
}

type BreathingPattern struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Inhale      float64 `json:"inhale"`
	Hold1       float64 `json:"hold1"`
	Exhale      float64 `json:"exhale"`
	Hold2       float64 `json:"hold2"`
	Cycles      int     `json:"cycles"`
}

type Level struct {
	Level    int    `json:"level"`
	Name     string `json:"name"`
	Blossoms int    `json:"blossoms"`
}

//
// For TOML parsing only
//

type CatalogTOML struct {
	Hubs      []HubTOML       `toml:"hub"`
	Breathing []BreathingTOML `toml:"breathing"`
}

type HubTOML struct {
	ID          string         `toml:"id"`
	Name        string         `toml:"name"`
	Icon        string         `toml:"icon"`
	Description string         `toml:"description"`
	Photo       string         `toml:"photo"`
	Exercises   []ExerciseTOML `toml:"exercise"`
}

type ExerciseTOML struct {
	Name     string   `toml:"name"`
	Credit   string   `toml:"credit"`
	Steps    []string `toml:"steps"`
	Duration float64  `toml:"step_seconds,omitempty"`
}

type BreathingTOML struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Inhale      float64 `toml:"inhale"`
	Hold1       float64 `toml:"hold1"`
	Exhale      float64 `toml:"exhale"`
	Hold2       float64 `toml:"hold2"`
	Cycles      int     `toml:"cycles"`
}
