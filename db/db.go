package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/records"
	_ "github.com/mattn/go-sqlite3"
)

func OpenDB(fileName string) (*sql.DB, error) {
	params := url.Values{
		"_journal_mode": []string{"WAL"},
		"_synchronous":  []string{"NORMAL"},
		"cache_size":    []string{"1000000000"},
		"cache":         []string{"shared"},
		"_busy_timeout": []string{"5000"},
		"_txlock":       []string{"immediate"},
	}
	dataSourceName := fmt.Sprintf("file:%s?%s", fileName, params.Encode())
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Create schema if not exists
	createTableQuery := `
CREATE TABLE IF NOT EXISTS harvests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	harvest_date DATE NOT NULL,
	commodity VARCHAR NOT NULL,
	total_weight_kg REAL NOT NULL,
	weight_per_unit_kg REAL NOT NULL DEFAULT 0,
	municipality VARCHAR NOT NULL,
	barangay VARCHAR NOT NULL DEFAULT '',
	remarks TEXT NOT NULL DEFAULT '',
	created_at DATETIME default CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS harvests_date ON harvests(harvest_date);
CREATE TABLE IF NOT EXISTS plantings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	plant_date DATE NOT NULL,
	commodity VARCHAR NOT NULL,
	min_expected_harvest REAL NOT NULL,
	max_expected_harvest REAL NOT NULL,
	land_area REAL NOT NULL DEFAULT 0,
	estimated_weight_kg REAL NOT NULL DEFAULT 0,
	municipality VARCHAR NOT NULL,
	barangay VARCHAR NOT NULL DEFAULT '',
	remarks TEXT NOT NULL DEFAULT '',
	created_at DATETIME default CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS plantings_date ON plantings(plant_date);
`
	_, err = db.Exec(createTableQuery)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}

func SaveHarvest(db *sql.DB, h records.HarvestRecord) error {
	if err := h.Validate(); err != nil {
		return err
	}
	query := `
INSERT INTO harvests (harvest_date, commodity, total_weight_kg, weight_per_unit_kg, municipality, barangay, remarks)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query, h.HarvestDate.Format(consts.DateFormat), h.Commodity, h.TotalWeightKg,
		h.WeightPerUnitKg, h.Municipality, h.Barangay, h.Remarks)
	return err
}

func SavePlanting(db *sql.DB, p records.PlantRecord) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `
INSERT INTO plantings (plant_date, commodity, min_expected_harvest, max_expected_harvest, land_area,
	estimated_weight_kg, municipality, barangay, remarks)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query, p.PlantDate.Format(consts.DateFormat), p.Commodity, p.MinExpectedHarvest,
		p.MaxExpectedHarvest, p.LandAreaSqM, p.EstimatedWeightKg, p.Municipality, p.Barangay, p.Remarks)
	return err
}

// yearClause restricts a date column to one calendar year. Year 0 matches every row.
func yearClause(column string, year int) (string, []any) {
	if year == 0 {
		return "", nil
	}
	return fmt.Sprintf(" WHERE strftime('%%Y', %s) = ?", column), []any{fmt.Sprintf("%04d", year)}
}

// SelectHarvests reads every harvest of a year (0 for all years), ordered by date.
// Rows are closed before returning.
func SelectHarvests(db *sql.DB, year int) ([]records.HarvestRecord, error) {
	where, args := yearClause("harvest_date", year)
	query := `
SELECT harvest_date, commodity, total_weight_kg, weight_per_unit_kg, municipality, barangay, remarks
FROM harvests` + where + `
ORDER BY harvest_date, id;`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying harvests: %w", err)
	}
	defer rows.Close()

	var harvests []records.HarvestRecord
	for rows.Next() {
		var h records.HarvestRecord
		var date string
		err := rows.Scan(&date, &h.Commodity, &h.TotalWeightKg, &h.WeightPerUnitKg,
			&h.Municipality, &h.Barangay, &h.Remarks)
		if err != nil {
			return nil, fmt.Errorf("scanning harvest: %w", err)
		}
		if h.HarvestDate, err = parseDate(date); err != nil {
			log.Printf("Skipping harvest with invalid date %q: %s", date, err)
			continue
		}
		harvests = append(harvests, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading harvests: %w", err)
	}
	return harvests, nil
}

func SelectPlantings(db *sql.DB, year int) ([]records.PlantRecord, error) {
	where, args := yearClause("plant_date", year)
	query := `
SELECT plant_date, commodity, min_expected_harvest, max_expected_harvest, land_area,
	estimated_weight_kg, municipality, barangay, remarks
FROM plantings` + where + `
ORDER BY plant_date, id;`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plantings: %w", err)
	}
	defer rows.Close()

	var plantings []records.PlantRecord
	for rows.Next() {
		var p records.PlantRecord
		var date string
		err := rows.Scan(&date, &p.Commodity, &p.MinExpectedHarvest, &p.MaxExpectedHarvest,
			&p.LandAreaSqM, &p.EstimatedWeightKg, &p.Municipality, &p.Barangay, &p.Remarks)
		if err != nil {
			return nil, fmt.Errorf("scanning planting: %w", err)
		}
		if p.PlantDate, err = parseDate(date); err != nil {
			log.Printf("Skipping planting with invalid date %q: %s", date, err)
			continue
		}
		plantings = append(plantings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plantings: %w", err)
	}
	return plantings, nil
}

// Years returns every calendar year with at least one harvest or planting, ascending.
func Years(db *sql.DB) ([]int, error) {
	query := `
SELECT DISTINCT y FROM (
	SELECT strftime('%Y', harvest_date) AS y FROM harvests
	UNION
	SELECT strftime('%Y', plant_date) AS y FROM plantings
) WHERE y IS NOT NULL ORDER BY y;`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}
		year, err := strconv.Atoi(y)
		if err != nil {
			log.Printf("Skipping invalid year %q", y)
			continue
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

func parseDate(s string) (time.Time, error) {
	if len(s) > len(consts.DateFormat) {
		s = s[:len(consts.DateFormat)]
	}
	return time.Parse(consts.DateFormat, s)
}
