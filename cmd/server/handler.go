package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/records"
	"github.com/fruitcast/dashboard/summary"
)

// Dates arrive as plain calendar dates, so the payloads shadow the record's time fields.
type harvestPayload struct {
	records.HarvestRecord
	HarvestDate string `json:"harvestDate"`
}

type plantingPayload struct {
	records.PlantRecord
	PlantDate string `json:"plantDate"`
}

func parsePayloadDate(field, value string) (time.Time, error) {
	t, err := time.Parse(consts.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be formatted as %s", records.ErrInvalidRecord, field, consts.DateFormat)
	}
	return t, nil
}

func harvestHandler(dbConn *sql.DB) http.HandlerFunc {
	return collect(func(w http.ResponseWriter, r *http.Request) error {
		var data harvestPayload
		if err := decodeJSONBody(w, r, &data); err != nil {
			return err
		}
		rec := data.HarvestRecord
		var err error
		if rec.HarvestDate, err = parsePayloadDate("harvestDate", data.HarvestDate); err != nil {
			return err
		}
		if err := db.SaveHarvest(dbConn, rec); err != nil {
			return err
		}
		refresh(dbConn, rec.HarvestDate.Year())
		return nil
	})
}

func plantingHandler(dbConn *sql.DB) http.HandlerFunc {
	return collect(func(w http.ResponseWriter, r *http.Request) error {
		var data plantingPayload
		if err := decodeJSONBody(w, r, &data); err != nil {
			return err
		}
		rec := data.PlantRecord
		var err error
		if rec.PlantDate, err = parsePayloadDate("plantDate", data.PlantDate); err != nil {
			return err
		}
		if err := db.SavePlanting(dbConn, rec); err != nil {
			return err
		}
		refresh(dbConn, rec.PlantDate.Year())
		return nil
	})
}

// refresh keeps the stored snapshots in step with a newly saved record. The record is
// already stored, so a failure here is only logged.
func refresh(dbConn *sql.DB, year int) {
	if err := summary.Refresh(dbConn, year); err != nil {
		log.Printf("Error refreshing summaries: %v", err)
	}
}

// collect maps ingest errors to responses.
func collect(save func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := save(w, r)
		var mr *malformedRequest
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.As(err, &mr):
			http.Error(w, mr.msg, mr.status)
		case errors.Is(err, records.ErrInvalidRecord):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Printf("Error handling request: %s", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
