package records

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid record")

// HarvestRecord is a verified harvest. Weights are already converted to kg.
type HarvestRecord struct {
	HarvestDate     time.Time `json:"harvestDate"`
	Commodity       string    `json:"commodity"`
	TotalWeightKg   float64   `json:"totalWeightKg"`
	WeightPerUnitKg float64   `json:"weightPerUnitKg"`
	Municipality    string    `json:"municipality"`
	Barangay        string    `json:"barangay,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
}

// EstimatedUnits returns how many units the harvest weight represents,
// or 0 when the per-unit weight is unknown.
func (h HarvestRecord) EstimatedUnits() float64 {
	if h.WeightPerUnitKg <= 0 {
		return 0
	}
	return h.TotalWeightKg / h.WeightPerUnitKg
}

func (h HarvestRecord) Validate() error {
	switch {
	case h.HarvestDate.IsZero():
		return fmt.Errorf("%w: missing harvest date", ErrInvalidRecord)
	case strings.TrimSpace(h.Commodity) == "":
		return fmt.Errorf("%w: missing commodity", ErrInvalidRecord)
	case strings.TrimSpace(h.Municipality) == "":
		return fmt.Errorf("%w: missing municipality", ErrInvalidRecord)
	case h.TotalWeightKg < 0 || h.WeightPerUnitKg < 0:
		return fmt.Errorf("%w: negative weight", ErrInvalidRecord)
	}
	return nil
}

// PlantRecord is a verified planting. Expected harvests are unit counts, not weights.
type PlantRecord struct {
	PlantDate          time.Time `json:"plantDate"`
	Commodity          string    `json:"commodity"`
	MinExpectedHarvest float64   `json:"minExpectedHarvest"`
	MaxExpectedHarvest float64   `json:"maxExpectedHarvest"`
	LandAreaSqM        float64   `json:"landArea"`
	EstimatedWeightKg  float64   `json:"estimatedWeightKg,omitempty"`
	Municipality       string    `json:"municipality"`
	Barangay           string    `json:"barangay,omitempty"`
	Remarks            string    `json:"remarks,omitempty"`
}

func (p PlantRecord) AverageHarvestUnits() float64 {
	return (p.MinExpectedHarvest + p.MaxExpectedHarvest) / 2
}

func (p PlantRecord) Validate() error {
	switch {
	case p.PlantDate.IsZero():
		return fmt.Errorf("%w: missing plant date", ErrInvalidRecord)
	case strings.TrimSpace(p.Commodity) == "":
		return fmt.Errorf("%w: missing commodity", ErrInvalidRecord)
	case strings.TrimSpace(p.Municipality) == "":
		return fmt.Errorf("%w: missing municipality", ErrInvalidRecord)
	case p.MinExpectedHarvest < 0 || p.MaxExpectedHarvest < 0 || p.LandAreaSqM < 0:
		return fmt.Errorf("%w: negative quantity", ErrInvalidRecord)
	case p.MinExpectedHarvest > p.MaxExpectedHarvest:
		return fmt.Errorf("%w: min expected harvest %.2f exceeds max %.2f",
			ErrInvalidRecord, p.MinExpectedHarvest, p.MaxExpectedHarvest)
	}
	return nil
}
