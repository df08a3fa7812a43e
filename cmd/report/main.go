package main

import (
	"cmp"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/summary"
)

const topN = 10

func main() {
	dbPath := flag.String("db", "", "Path to the database (default: $DATA_FOLDER/"+consts.DatabaseFile+")")
	yearStr := flag.String("year", "", "Year to report (default: latest year in DB, \"all\" for every year)")
	flag.Parse()

	dbFile := *dbPath
	if dbFile == "" {
		dataFolder := cmp.Or(os.Getenv("DATA_FOLDER"), ".")
		dbFile = filepath.Join(dataFolder, consts.DatabaseFile)
	}

	if err := run(os.Stdout, dbFile, *yearStr); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(w io.Writer, dbPath, yearStr string) error {
	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer func() { _ = dbConn.Close() }()

	var year int
	if yearStr != "" {
		if year, err = charts.ParseYear(yearStr); err != nil {
			return err
		}
	} else {
		years, err := db.Years(dbConn)
		if err != nil {
			return fmt.Errorf("getting latest year: %w", err)
		}
		if len(years) == 0 {
			return fmt.Errorf("no data in database")
		}
		year = years[len(years)-1]
	}

	b, err := summary.SummarizeYear(dbConn, year)
	if err != nil {
		return fmt.Errorf("summarizing data: %w", err)
	}
	if b.Empty() {
		return fmt.Errorf("no data found for %s", yearLabel(year))
	}

	printReport(w, year, b)
	return nil
}

func yearLabel(year int) string {
	if year == 0 {
		return "all years"
	}
	return fmt.Sprint(year)
}

func printReport(w io.Writer, year int, b summary.Bundle) {
	fmt.Fprintf(w, "Year: %s\n", yearLabel(year))
	fmt.Fprintf(w, "Harvest records: %s\n", charts.FormatNumber(float64(b.NumHarvests)))
	fmt.Fprintf(w, "Total harvest: %s kg\n", charts.FormatWeight(b.TotalHarvestKg))
	fmt.Fprintf(w, "Planting records: %s\n", charts.FormatNumber(float64(b.NumPlantings)))
	fmt.Fprintf(w, "Expected units planted: %s\n\n", charts.FormatNumber(b.TotalPlantedUnits))

	fmt.Fprintln(w, "Harvest by commodity (kg):")
	printTopN(w, b.HarvestByCommodity, topN, charts.FormatWeight)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Harvest by municipality (kg):")
	printTopN(w, b.HarvestByLocation, topN, charts.FormatWeight)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Expected harvest units by commodity:")
	printTopN(w, b.PlantingByCommodity, topN, charts.FormatNumber)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Plantings by municipality:")
	printTopN(w, b.PlantingByLocation, topN, charts.FormatNumber)
}

// printTopN prints the first n entries of an already sorted series.
func printTopN(w io.Writer, s summary.Series, n int, format func(float64) string) {
	if s.Len() == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	limit := min(n, s.Len())
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "%12s | %s\n", format(s.Values[i]), s.Labels[i])
	}
}
