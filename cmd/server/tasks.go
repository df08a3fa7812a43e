package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/summary"
)

func cleanup(_ context.Context) func() {
	return func() {
		log.Print("Purging old snapshots")
		if err := summary.PurgeSnapshots(time.Now().UTC().Year(), consts.SnapshotRetentionYears); err != nil {
			log.Printf("Error purging snapshots: %v", err)
		}
	}
}

// summarize refreshes the snapshots of the recent years and of all years combined.
func summarize(_ context.Context, dbConn *sql.DB) func() {
	return func() {
		log.Print("Summarizing data")
		current := time.Now().UTC().Year()
		for y := 0; y < consts.SummarizeLookbackYears; y++ {
			year := current - y
			log.Print("Summarizing data for ", year)
			if err := summary.SummarizeAndSave(dbConn, year); err != nil {
				log.Printf("Error summarizing %d: %v", year, err)
			}
		}
		if err := summary.SummarizeAndSave(dbConn, 0); err != nil {
			log.Printf("Error summarizing all years: %v", err)
		}
	}
}

func generateCharts(_ context.Context, dbConn *sql.DB, style charts.Style, outputDir string) func() {
	return func() {
		log.Print("Exporting charts JSON")
		src := summary.NewLoader(dbConn)
		if err := charts.ExportChartsJSON(src, 0, style, outputDir); err != nil {
			log.Printf("Error exporting charts JSON: %v", err)
		}
	}
}
