package main

import (
	"fmt"
	"log"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/config"
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Print("Charts JSON generated successfully")
}

// run rebuilds every yearly snapshot plus the all-years one, then exports the charts
// to the same folder the server writes to.
func run(cfg config.Config) error {
	dbConn, err := db.OpenDB(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer func() { _ = dbConn.Close() }()

	years, err := db.Years(dbConn)
	if err != nil {
		return err
	}
	for _, year := range append(years, 0) {
		log.Print("Summarizing data for ", year)
		if err := summary.SummarizeAndSave(dbConn, year); err != nil {
			return fmt.Errorf("summarizing %d: %w", year, err)
		}
	}

	chartDataDir := cfg.ChartDataDir()
	log.Printf("Generating %s in %s", consts.ChartsJSONFile, chartDataDir)
	return charts.ExportChartsJSON(summary.NewLoader(dbConn), 0, cfg.Style(), chartDataDir)
}
