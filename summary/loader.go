package summary

import (
	"database/sql"
	"errors"
	"os"

	"github.com/fruitcast/dashboard/db"
)

// Loader serves bundles from stored snapshots, aggregating live when a year
// has not been summarized yet.
type Loader struct {
	DB *sql.DB
}

func NewLoader(dbConn *sql.DB) *Loader {
	return &Loader{DB: dbConn}
}

func (l *Loader) Bundle(year int) (Bundle, error) {
	b, err := LoadBundle(year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Bundle{}, err
	}
	return SummarizeYear(l.DB, year)
}

func (l *Loader) Years() ([]int, error) {
	return db.Years(l.DB)
}
