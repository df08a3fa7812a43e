package summary

import (
	"cmp"
	"database/sql"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/fruitcast/dashboard/db"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Series names, one per chart of the dashboard
const (
	HarvestByMonth       = "harvestByMonth"
	HarvestByCommodity   = "harvestByCommodity"
	HarvestByLocation    = "harvestByLocation"
	AvgWeightByCommodity = "avgWeightByCommodity"
	PlantingByCommodity  = "plantingByCommodity"
	LandAreaByCommodity  = "landAreaByCommodity"
	PlantingByLocation   = "plantingByLocation"
)

// Bundle is the full set of named series behind the dashboard for one year.
// Year 0 means every year on record.
type Bundle struct {
	Year              int       `json:"year,omitempty"`
	GeneratedAt       time.Time `json:"generatedAt"`
	TotalHarvestKg    float64   `json:"totalHarvestKg"`
	TotalPlantedUnits float64   `json:"totalPlantedUnits"`
	NumHarvests       int64     `json:"numHarvests"`
	NumPlantings      int64     `json:"numPlantings"`

	HarvestByMonth       Series `json:"harvestByMonth"`
	HarvestByCommodity   Series `json:"harvestByCommodity"`
	HarvestByLocation    Series `json:"harvestByLocation"`
	AvgWeightByCommodity Series `json:"avgWeightByCommodity"`
	PlantingByCommodity  Series `json:"plantingByCommodity"`
	LandAreaByCommodity  Series `json:"landAreaByCommodity"`
	PlantingByLocation   Series `json:"plantingByLocation"`
}

// Series returns the named series of the bundle.
func (b Bundle) Series(name string) (Series, bool) {
	switch name {
	case HarvestByMonth:
		return b.HarvestByMonth, true
	case HarvestByCommodity:
		return b.HarvestByCommodity, true
	case HarvestByLocation:
		return b.HarvestByLocation, true
	case AvgWeightByCommodity:
		return b.AvgWeightByCommodity, true
	case PlantingByCommodity:
		return b.PlantingByCommodity, true
	case LandAreaByCommodity:
		return b.LandAreaByCommodity, true
	case PlantingByLocation:
		return b.PlantingByLocation, true
	}
	return Series{}, false
}

func (b Bundle) Empty() bool {
	return b.NumHarvests == 0 && b.NumPlantings == 0
}

// SummarizeYear aggregates the stored records of one year (0 for all years) into a Bundle.
func SummarizeYear(dbConn *sql.DB, year int) (Bundle, error) {
	harvests, err := db.SelectHarvests(dbConn, year)
	if err != nil {
		log.Printf("Error selecting harvests: %s", err)
		return Bundle{}, err
	}
	plantings, err := db.SelectPlantings(dbConn, year)
	if err != nil {
		log.Printf("Error selecting plantings: %s", err)
		return Bundle{}, err
	}

	b := Bundle{Year: year, GeneratedAt: time.Now().UTC()}

	var byMonth [12]float64
	byCommodity := tally{}
	byLocation := tally{}
	weightPerUnit := tally{}
	for _, h := range harvests {
		b.NumHarvests++
		b.TotalHarvestKg += h.TotalWeightKg
		byMonth[h.HarvestDate.Month()-1] += h.TotalWeightKg
		byCommodity.add(normalizeName(h.Commodity), h.TotalWeightKg)
		byLocation.add(normalizeName(h.Municipality), h.TotalWeightKg)
		if h.WeightPerUnitKg > 0 {
			weightPerUnit.add(normalizeName(h.Commodity), h.WeightPerUnitKg)
		}
	}

	unitsByCommodity := tally{}
	landArea := tally{}
	plantsByLocation := tally{}
	for _, p := range plantings {
		b.NumPlantings++
		units := p.AverageHarvestUnits()
		b.TotalPlantedUnits += units
		unitsByCommodity.add(normalizeName(p.Commodity), units)
		if p.LandAreaSqM > 0 {
			landArea.add(normalizeName(p.Commodity), p.LandAreaSqM)
		}
		plantsByLocation.add(normalizeName(p.Municipality), 1)
	}

	b.HarvestByMonth = monthSeries(HarvestByMonth, byMonth)
	b.HarvestByCommodity = byCommodity.totals(HarvestByCommodity)
	b.HarvestByLocation = byLocation.totals(HarvestByLocation)
	b.AvgWeightByCommodity = weightPerUnit.averages(AvgWeightByCommodity)
	b.PlantingByCommodity = unitsByCommodity.totals(PlantingByCommodity)
	b.LandAreaByCommodity = landArea.averages(LandAreaByCommodity)
	b.PlantingByLocation = plantsByLocation.totals(PlantingByLocation)
	b.TotalHarvestKg = round2(b.TotalHarvestKg)
	b.TotalPlantedUnits = round2(b.TotalPlantedUnits)
	return b, nil
}

// SummarizeAndSave aggregates one year and stores the snapshot.
func SummarizeAndSave(dbConn *sql.DB, year int) error {
	b, err := SummarizeYear(dbConn, year)
	if err != nil {
		return err
	}
	if b.Empty() {
		log.Printf("No data to summarize for %s", yearLabel(year))
		return nil
	}
	err = SaveBundle(b)
	if err != nil {
		log.Printf("Error saving summary: %s", err)
	}
	return err
}

// Refresh rebuilds the snapshot of a year and the all-years snapshot after its records changed.
func Refresh(dbConn *sql.DB, year int) error {
	for _, y := range []int{year, 0} {
		if err := SummarizeAndSave(dbConn, y); err != nil {
			return fmt.Errorf("refreshing %s: %w", yearLabel(y), err)
		}
	}
	return nil
}

func monthSeries(name string, byMonth [12]float64) Series {
	s := Series{Name: name, Labels: make([]string, 12), Values: make([]float64, 12)}
	for i := range byMonth {
		s.Labels[i] = time.Month(i + 1).String()
		s.Values[i] = round2(byMonth[i])
	}
	return s
}

type accumulator struct {
	sum   float64
	count int
}

type tally map[string]*accumulator

func (t tally) add(key string, v float64) {
	a, ok := t[key]
	if !ok {
		a = &accumulator{}
		t[key] = a
	}
	a.sum += v
	a.count++
}

func (t tally) totals(name string) Series {
	return t.series(name, func(a *accumulator) float64 { return a.sum })
}

func (t tally) averages(name string) Series {
	return t.series(name, func(a *accumulator) float64 { return a.sum / float64(a.count) })
}

// series orders entries by value descending, ties by label.
func (t tally) series(name string, value func(*accumulator) float64) Series {
	type kv struct {
		Key   string
		Value float64
	}
	pairs := make([]kv, 0, len(t))
	for k, a := range t {
		pairs = append(pairs, kv{k, round2(value(a))})
	}
	slices.SortFunc(pairs, func(a, b kv) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	s := Series{Name: name, Labels: make([]string, len(pairs)), Values: make([]float64, len(pairs))}
	for i, p := range pairs {
		s.Labels[i] = p.Key
		s.Values[i] = p.Value
	}
	return s
}

// normalizeName folds spacing and casing so "  mango", "MANGO" and "Mango" share a label.
// A Caser is stateful, so each call gets its own.
func normalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
