package main

import (
	"cmp"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/records"
	"github.com/fruitcast/dashboard/summary"
	"github.com/xuri/excelize/v2"
)

func main() {
	dbPath := flag.String("db", "", "Path to the database (default: $DATA_FOLDER/"+consts.DatabaseFile+")")
	file := flag.String("file", "", "Workbook to import")
	harvestSheet := flag.String("sheet-harvest", "Harvests", "Sheet holding harvest records (empty to skip)")
	plantingSheet := flag.String("sheet-planting", "Plantings", "Sheet holding planting records (empty to skip)")
	harvestCSV := flag.String("harvest-csv", "", "CSV file of verified harvest records")
	plantingCSV := flag.String("planting-csv", "", "CSV file of verified plant records")
	flag.Parse()

	src := importSource{
		Workbook:      *file,
		HarvestSheet:  *harvestSheet,
		PlantingSheet: *plantingSheet,
		HarvestCSV:    *harvestCSV,
		PlantingCSV:   *plantingCSV,
	}
	if src.Workbook == "" && src.HarvestCSV == "" && src.PlantingCSV == "" {
		flag.Usage()
		os.Exit(1)
	}

	dbFile := *dbPath
	if dbFile == "" {
		dbFile = filepath.Join(cmp.Or(os.Getenv("DATA_FOLDER"), "."), consts.DatabaseFile)
	}

	if err := run(dbFile, src); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// importSource names the tables to import. Sheets are read only when Workbook is set.
type importSource struct {
	Workbook      string
	HarvestSheet  string
	PlantingSheet string
	HarvestCSV    string
	PlantingCSV   string
}

type table struct {
	name string
	rows [][]string
}

type importStats struct {
	imported int
	skipped  int
	years    map[int]struct{}
}

// load reads every table before the database is touched, so a bad file imports nothing.
func (src importSource) load() (harvests, plantings []table, err error) {
	if src.Workbook != "" {
		f, err := excelize.OpenFile(src.Workbook)
		if err != nil {
			return nil, nil, fmt.Errorf("opening workbook %s: %w", src.Workbook, err)
		}
		defer func() { _ = f.Close() }()

		if src.HarvestSheet != "" {
			t, err := loadSheet(f, src.HarvestSheet)
			if err != nil {
				return nil, nil, err
			}
			harvests = append(harvests, t)
		}
		if src.PlantingSheet != "" {
			t, err := loadSheet(f, src.PlantingSheet)
			if err != nil {
				return nil, nil, err
			}
			plantings = append(plantings, t)
		}
	}
	if src.HarvestCSV != "" {
		t, err := loadCSV(src.HarvestCSV)
		if err != nil {
			return nil, nil, err
		}
		harvests = append(harvests, t)
	}
	if src.PlantingCSV != "" {
		t, err := loadCSV(src.PlantingCSV)
		if err != nil {
			return nil, nil, err
		}
		plantings = append(plantings, t)
	}
	return harvests, plantings, nil
}

func loadSheet(f *excelize.File, sheet string) (table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return table{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return table{name: sheet, rows: rows}, nil
}

func loadCSV(path string) (table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return table{name: filepath.Base(path), rows: rows}, nil
}

func run(dbPath string, src importSource) error {
	harvests, plantings, err := src.load()
	if err != nil {
		return err
	}

	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer func() { _ = dbConn.Close() }()

	stats := importStats{years: map[int]struct{}{}}
	for _, t := range harvests {
		log.Printf("Importing harvests from %s", t.name)
		importRows(t, func(row sheetRow) (int, error) {
			h, err := parseHarvest(row)
			if err != nil {
				return 0, err
			}
			return h.HarvestDate.Year(), db.SaveHarvest(dbConn, h)
		}, &stats)
	}
	for _, t := range plantings {
		log.Printf("Importing plantings from %s", t.name)
		importRows(t, func(row sheetRow) (int, error) {
			p, err := parsePlanting(row)
			if err != nil {
				return 0, err
			}
			return p.PlantDate.Year(), db.SavePlanting(dbConn, p)
		}, &stats)
	}

	log.Printf("Imported %d records, skipped %d", stats.imported, stats.skipped)
	return refreshSnapshots(dbConn, stats.years)
}

// refreshSnapshots rebuilds the snapshots touched by the import, plus the all-years one.
func refreshSnapshots(dbConn *sql.DB, years map[int]struct{}) error {
	if len(years) == 0 {
		return nil
	}
	years[0] = struct{}{}
	for year := range years {
		if err := summary.SummarizeAndSave(dbConn, year); err != nil {
			return fmt.Errorf("summarizing %d: %w", year, err)
		}
	}
	return nil
}

func importRows(t table, save func(sheetRow) (int, error), stats *importStats) {
	if len(t.rows) == 0 {
		log.Printf("%s is empty", t.name)
		return
	}

	header := columnIndex(t.rows[0])
	for i, cells := range t.rows[1:] {
		if blank(cells) {
			continue
		}
		year, err := save(sheetRow{header: header, cells: cells})
		if err != nil {
			// Header is row 1, so data starts at row 2
			log.Printf("Skipping %s row %d: %v", t.name, i+2, err)
			stats.skipped++
			continue
		}
		stats.imported++
		stats.years[year] = struct{}{}
	}
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnIndex maps normalized header names to column positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[normalizeHeader(name)] = i
	}
	return idx
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "", "(", "", ")", "").Replace(name)
}

type sheetRow struct {
	header map[string]int
	cells  []string
}

// get returns the first non-empty cell among the given column names.
func (r sheetRow) get(names ...string) string {
	for _, name := range names {
		i, ok := r.header[normalizeHeader(name)]
		if !ok || i >= len(r.cells) {
			continue
		}
		if v := strings.TrimSpace(r.cells[i]); v != "" {
			return v
		}
	}
	return ""
}

func (r sheetRow) number(names ...string) (float64, error) {
	v := r.get(names...)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number: %q", records.ErrInvalidRecord, names[0], v)
	}
	return f, nil
}

var dateLayouts = []string{consts.DateFormat, "01/02/2006", "1/2/2006", "01-02-06", "1/2/06", consts.DateTimeFormat}

func (r sheetRow) date(names ...string) (time.Time, error) {
	v := r.get(names...)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	// Unformatted cells hold the Excel serial date
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s is not a date: %q", records.ErrInvalidRecord, names[0], v)
}

func (r sheetRow) weight(names ...string) (float64, error) {
	v, err := r.number(names...)
	if err != nil {
		return 0, err
	}
	return records.ToKg(v, r.get("unit", "weight unit"))
}

func parseHarvest(r sheetRow) (records.HarvestRecord, error) {
	var h records.HarvestRecord
	var err error
	if h.HarvestDate, err = r.date("harvest date", "date"); err != nil {
		return h, err
	}
	if h.TotalWeightKg, err = r.weight("total weight", "total weight kg", "weight"); err != nil {
		return h, err
	}
	if h.WeightPerUnitKg, err = r.weight("weight per unit", "weight per unit kg"); err != nil {
		return h, err
	}
	h.Commodity = r.get("commodity", "commodity type", "commodity id")
	h.Municipality = r.get("municipality", "harvest municipality")
	h.Barangay = r.get("barangay")
	h.Remarks = r.get("remarks")
	return h, h.Validate()
}

func parsePlanting(r sheetRow) (records.PlantRecord, error) {
	var p records.PlantRecord
	var err error
	if p.PlantDate, err = r.date("plant date", "date"); err != nil {
		return p, err
	}
	if p.MinExpectedHarvest, err = r.number("min expected harvest", "min expected"); err != nil {
		return p, err
	}
	if p.MaxExpectedHarvest, err = r.number("max expected harvest", "max expected"); err != nil {
		return p, err
	}
	if p.LandAreaSqM, err = r.number("land area", "land area sqm"); err != nil {
		return p, err
	}
	if p.EstimatedWeightKg, err = r.weight("estimated weight", "estimated weight kg"); err != nil {
		return p, err
	}
	p.Commodity = r.get("commodity", "commodity type", "commodity id")
	p.Municipality = r.get("municipality", "plant municipality")
	p.Barangay = r.get("barangay")
	p.Remarks = r.get("remarks")
	return p, p.Validate()
}
