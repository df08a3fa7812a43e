package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/records"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestExport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

var _ = Describe("Export", func() {
	var dir, dbPath string

	readCSV := func(name string) [][]string {
		f, err := os.Open(filepath.Join(dir, "out", name))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		return rows
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		dbPath = filepath.Join(dir, "export.db")
		conn, err := db.OpenDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		Expect(db.SaveHarvest(conn, records.HarvestRecord{
			HarvestDate: time.Date(2024, 8, 14, 0, 0, 0, 0, time.UTC), Commodity: "Mango",
			TotalWeightKg: 1250.5, WeightPerUnitKg: 0.35, Municipality: "Orani", Remarks: "first, best pick",
		})).To(Succeed())
		Expect(db.SaveHarvest(conn, records.HarvestRecord{
			HarvestDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Commodity: "Banana",
			TotalWeightKg: 80, Municipality: "Abucay",
		})).To(Succeed())
		Expect(db.SavePlanting(conn, records.PlantRecord{
			PlantDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Commodity: "Papaya",
			MinExpectedHarvest: 40, MaxExpectedHarvest: 60, LandAreaSqM: 200, Municipality: "Orani",
		})).To(Succeed())
	})

	It("writes the verified record columns", func() {
		Expect(run(dbPath, 0, filepath.Join(dir, "out"))).To(Succeed())

		harvests := readCSV("verified_harvest_records.csv")
		Expect(harvests).To(HaveLen(3))
		Expect(harvests[0]).To(Equal(harvestColumns))
		Expect(harvests[1]).To(Equal([]string{"2024-08-14", "Mango", "Orani", "", "1250.5", "0.35", "first, best pick"}))

		plantings := readCSV("verified_plant_records.csv")
		Expect(plantings).To(HaveLen(2))
		Expect(plantings[1]).To(Equal([]string{"2025-03-01", "Papaya", "Orani", "", "40", "60", "200", "0", ""}))
	})

	It("filters by year", func() {
		Expect(run(dbPath, 2025, filepath.Join(dir, "out"))).To(Succeed())

		harvests := readCSV("verified_harvest_records.csv")
		Expect(harvests).To(HaveLen(2))
		Expect(harvests[1][1]).To(Equal("Banana"))
	})
})
