package summary

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fruitcast/dashboard/consts"
)

func yearLabel(year int) string {
	if year == 0 {
		return consts.AllYearsDir
	}
	return strconv.Itoa(year)
}

func summariesPath() string {
	return filepath.Join(os.Getenv("DATA_FOLDER"), consts.SummariesDir)
}

func BundleFilePath(year int) string {
	return filepath.Join(summariesPath(), yearLabel(year), consts.BundleFile)
}

func SaveBundle(b Bundle) error {
	filePath := BundleFilePath(b.Year)

	// Create directory structure if needed
	if err := os.MkdirAll(filepath.Dir(filePath), consts.DirPermissions); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, consts.FilePermissions)
}

// LoadBundle reads the stored snapshot of a year. A missing snapshot returns an error
// matching os.ErrNotExist.
func LoadBundle(year int) (Bundle, error) {
	data, err := os.ReadFile(BundleFilePath(year))
	if err != nil {
		return Bundle{}, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("decoding snapshot for %s: %w", yearLabel(year), err)
	}
	return b, nil
}

// SnapshotYears lists the calendar years with a stored snapshot, ascending.
// The all-years snapshot is not included.
func SnapshotYears() ([]int, error) {
	entries, err := os.ReadDir(summariesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		year, err := strconv.Atoi(e.Name())
		if err != nil || year <= 0 {
			continue
		}
		if _, err := os.Stat(filepath.Join(summariesPath(), e.Name(), consts.BundleFile)); err != nil {
			continue
		}
		years = append(years, year)
	}
	slices.Sort(years)
	return years, nil
}

// PurgeSnapshots removes snapshots of years older than keepYears before currentYear.
func PurgeSnapshots(currentYear, keepYears int) error {
	years, err := SnapshotYears()
	if err != nil {
		return err
	}
	var deleted int
	for _, year := range years {
		if year > currentYear-keepYears {
			continue
		}
		if err := os.RemoveAll(filepath.Dir(BundleFilePath(year))); err != nil {
			return fmt.Errorf("removing snapshot for %d: %w", year, err)
		}
		deleted++
	}
	log.Printf("Deleted %d old snapshots\n", deleted)
	return nil
}
