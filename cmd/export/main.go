package main

import (
	"cmp"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/records"
)

var (
	harvestColumns = []string{"harvest_date", "commodity", "municipality", "barangay",
		"total_weight_kg", "weight_per_unit_kg", "remarks"}
	plantingColumns = []string{"plant_date", "commodity", "municipality", "barangay",
		"min_expected_harvest", "max_expected_harvest", "land_area", "estimated_weight_kg", "remarks"}
)

func main() {
	dbPath := flag.String("db", "", "Path to the database (default: $DATA_FOLDER/"+consts.DatabaseFile+")")
	yearStr := flag.String("year", "", "Year to export (default: every year)")
	outDir := flag.String("out", ".", "Folder for the exported CSV files")
	flag.Parse()

	dbFile := *dbPath
	if dbFile == "" {
		dbFile = filepath.Join(cmp.Or(os.Getenv("DATA_FOLDER"), "."), consts.DatabaseFile)
	}

	year, err := charts.ParseYear(*yearStr)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := run(dbFile, year, *outDir); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run writes the harvests and plantings of a year (0 for all) as CSV files that
// cmd/import reads back.
func run(dbPath string, year int, outDir string) error {
	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer func() { _ = dbConn.Close() }()

	harvests, err := db.SelectHarvests(dbConn, year)
	if err != nil {
		return err
	}
	plantings, err := db.SelectPlantings(dbConn, year)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, consts.DirPermissions); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, consts.HarvestExportFile), func(w io.Writer) error {
		return writeHarvests(w, harvests)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, consts.PlantingExportFile), func(w io.Writer) error {
		return writePlantings(w, plantings)
	}); err != nil {
		return err
	}
	log.Printf("Exported %d harvests and %d plantings to %s", len(harvests), len(plantings), outDir)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.FilePermissions)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeHarvests(w io.Writer, harvests []records.HarvestRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(harvestColumns); err != nil {
		return err
	}
	for _, h := range harvests {
		if err := cw.Write([]string{
			h.HarvestDate.Format(consts.DateFormat),
			h.Commodity,
			h.Municipality,
			h.Barangay,
			formatFloat(h.TotalWeightKg),
			formatFloat(h.WeightPerUnitKg),
			h.Remarks,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePlantings(w io.Writer, plantings []records.PlantRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(plantingColumns); err != nil {
		return err
	}
	for _, p := range plantings {
		if err := cw.Write([]string{
			p.PlantDate.Format(consts.DateFormat),
			p.Commodity,
			p.Municipality,
			p.Barangay,
			formatFloat(p.MinExpectedHarvest),
			formatFloat(p.MaxExpectedHarvest),
			formatFloat(p.LandAreaSqM),
			formatFloat(p.EstimatedWeightKg),
			p.Remarks,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
