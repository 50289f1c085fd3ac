package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

//go:embed hubs.toml
var defaultCatalog []byte

// HubSize is the fixed number of exercises in every hub.
const HubSize = 5

var (
	ErrHubNotFound      = errors.New("hub not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrPatternNotFound  = errors.New("breathing pattern not found")
)

type Catalog struct {
	hubs      []models.Hub
	byID      map[string]int
	breathing []models.BreathingPattern
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Parse(defaultCatalog)
		if err != nil {
			panic("embedded catalog is invalid: " + err.Error())
		}
		defaultCat = cat
	})
	return defaultCat
}

// LoadFile reads a user supplied catalog in the same format as the embedded one.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var raw models.CatalogTOML
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid catalog TOML: %w", err)
	}

	cat := &Catalog{byID: make(map[string]int)}
	for _, h := range raw.Hubs {
		id := strings.TrimSpace(h.ID)
		if id == "" {
			return nil, fmt.Errorf("hub %q has no id", h.Name)
		}
		if _, dup := cat.byID[id]; dup {
			return nil, fmt.Errorf("duplicate hub %q", id)
		}
		if len(h.Exercises) != HubSize {
			return nil, fmt.Errorf("hub %q has %d exercises, want %d", id, len(h.Exercises), HubSize)
		}

		hub := models.Hub{
			ID:          id,
			Name:        h.Name,
			Icon:        h.Icon,
			Description: h.Description,
			Photo:       h.Photo,
		}
		for i, ex := range h.Exercises {
			exercise := models.Exercise{Index: i, Name: ex.Name, Credit: ex.Credit}
			for j, text := range ex.Steps {
				exercise.Steps = append(exercise.Steps, models.Step{
					ID:                  fmt.Sprintf("%s-%d-%d", id, i, j),
					Text:                text,
					BaseDurationSeconds: ex.Duration,
				})
			}
			hub.Exercises = append(hub.Exercises, exercise)
		}

		cat.byID[id] = len(cat.hubs)
		cat.hubs = append(cat.hubs, hub)
	}

	for _, b := range raw.Breathing {
		cat.breathing = append(cat.breathing, models.BreathingPattern{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Inhale:      b.Inhale,
			Hold1:       b.Hold1,
			Exhale:      b.Exhale,
			Hold2:       b.Hold2,
			Cycles:      b.Cycles,
		})
	}

	return cat, nil
}

func (c *Catalog) Hubs() []models.Hub {
	return c.hubs
}

func (c *Catalog) Hub(id string) (models.Hub, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Hub{}, fmt.Errorf("%w: %s", ErrHubNotFound, id)
	}
	return c.hubs[i], nil
}

func (c *Catalog) Exercise(hubID string, index int) (models.Exercise, error) {
	hub, err := c.Hub(hubID)
	if err != nil {
		return models.Exercise{}, err
	}
	if index < 0 || index >= len(hub.Exercises) {
		return models.Exercise{}, fmt.Errorf("%w: %s #%d", ErrExerciseNotFound, hubID, index)
	}
	return hub.Exercises[index], nil
}

func (c *Catalog) BreathingPatterns() []models.BreathingPattern {
	return c.breathing
}

func (c *Catalog) BreathingPattern(id string) (models.BreathingPattern, error) {
	for _, p := range c.breathing {
		if p.ID == id {
			return p, nil
		}
	}
	return models.BreathingPattern{}, fmt.Errorf("%w: %s", ErrPatternNotFound, id)
}

// PatternSteps unrolls a breathing pattern into playable steps. Phases with a zero
// duration are left out.
func PatternSteps(p models.BreathingPattern) []models.Step {
	phases := []struct {
		key     string
		text    string
		seconds float64
	}{
		{"in", "Breathe in", p.Inhale},
		{"hold1", "Hold", p.Hold1},
		{"out", "Breathe out", p.Exhale},
		{"hold2", "Hold", p.Hold2},
	}

	var steps []models.Step
	for cycle := 1; cycle <= p.Cycles; cycle++ {
		for _, ph := range phases {
			if ph.seconds <= 0 {
				continue
			}
			steps = append(steps, models.Step{
				ID:                  fmt.Sprintf("%s-%d-%s", p.ID, cycle, ph.key),
				Text:                fmt.Sprintf("%s (%d/%d)", ph.text, cycle, p.Cycles),
				BaseDurationSeconds: ph.seconds,
			})
		}
	}
	return steps
}
