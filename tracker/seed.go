// ABOUTME: Built-in seed dataset used when no saved collection exists
// ABOUTME: Decoded fresh on every call so callers can mutate the result
package tracker

import (
	_ "embed"
	"encoding/json"

	"github.com/harperreed/prospector/models"
)

//go:embed seed_prospects.json
var seedJSON []byte

// SeedProspects returns a fresh copy of the seed dataset.
func SeedProspects() []models.Prospect {
	var prospects []models.Prospect
	if err := json.Unmarshal(seedJSON, &prospects); err != nil {
		panic("tracker: embedded seed dataset is invalid: " + err.Error())
	}
	return prospects
}
