package catalog

import "github.com/DGeorgeA/go-friday-tmjuza/internal/models"

// Thresholds must stay strictly increasing.
var levels = []models.Level{
	{Level: 1, Name: "Seed", Blossoms: 0},
	{Level: 2, Name: "Sprout", Blossoms: 50},
	{Level: 3, Name: "Leaf", Blossoms: 125},
	{Level: 4, Name: "Stem", Blossoms: 250},
	{Level: 5, Name: "Early Bloom", Blossoms: 400},
	{Level: 6, Name: "Blossom", Blossoms: 600},
	{Level: 7, Name: "Gentle Wind", Blossoms: 850},
	{Level: 8, Name: "Sakura Shade", Blossoms: 1100},
	{Level: 9, Name: "Quiet Garden", Blossoms: 1400},
	{Level: 10, Name: "Zen Grove", Blossoms: 1750},
	{Level: 11, Name: "Calm Mountain", Blossoms: 2200},
	{Level: 12, Name: "Friday Master", Blossoms: 2700},
}

func Levels() []models.Level {
	out := make([]models.Level, len(levels))
	copy(out, levels)
	return out
}

// LevelFor returns the highest level whose threshold is <= blossoms.
func LevelFor(blossoms int) int {
	current, _ := LevelInfo(blossoms)
	return current.Level
}

// LevelInfo returns the current level and the next one, if any.
func LevelInfo(blossoms int) (models.Level, *models.Level) {
	for i := len(levels) - 1; i >= 0; i-- {
		if blossoms >= levels[i].Blossoms {
			if i < len(levels)-1 {
				next := levels[i+1]
				return levels[i], &next
			}
			return levels[i], nil
		}
	}
	next := levels[1]
	return levels[0], &next
}
