package charts

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fruitcast/dashboard/consts"
)

// ChartsJSON builds the options of every chart for a year, wrapped with metadata.
// Returns nil when there is no data for the year.
func ChartsJSON(src Source, year int, style Style) ([]byte, error) {
	b, err := src.Bundle(year)
	if err != nil {
		return nil, err
	}
	if b.Empty() {
		return nil, nil
	}
	b.Year = year

	renderer := NewRenderer(DefaultLayout(), style)
	if err := renderer.RenderAll(b); err != nil {
		return nil, err
	}
	defer renderer.Release()

	// Combine all charts into a single JSON array to preserve order
	chartsData := make([]map[string]interface{}, 0, len(renderer.Views()))
	for _, v := range renderer.Views() {
		v.Chart.Validate()
		chartsData = append(chartsData, map[string]interface{}{
			"id":      v.MountPoint,
			"tab":     v.Tab,
			"kind":    v.Kind,
			"options": v.Chart.JSON(),
		})
	}

	output := map[string]interface{}{
		"year":              year,
		"totalHarvestKg":    b.TotalHarvestKg,
		"totalPlantedUnits": b.TotalPlantedUnits,
		"lastUpdated":       time.Now().UTC().Format(time.RFC3339),
		"charts":            chartsData,
	}
	return json.MarshalIndent(output, "", "  ")
}

// ExportChartsJSON writes the charts JSON file of a year into outputDir.
func ExportChartsJSON(src Source, year int, style Style, outputDir string) error {
	jsonData, err := ChartsJSON(src, year, style)
	if err != nil {
		return err
	}
	if jsonData == nil {
		log.Print("No data to export")
		return nil
	}

	if err := os.MkdirAll(outputDir, consts.DirPermissions); err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, consts.ChartsJSONFile)
	if err := os.WriteFile(outputPath, jsonData, consts.FilePermissions); err != nil {
		return err
	}

	log.Printf("Exported charts to %s", outputPath)
	return nil
}
