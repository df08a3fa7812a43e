package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fruitcast/dashboard/records"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DB Suite")
}

var _ = Describe("DB", func() {
	var dbConn *sql.DB
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "db-test")
		Expect(err).NotTo(HaveOccurred())
		dbConn, err = OpenDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = dbConn.Close()
		_ = os.RemoveAll(tempDir)
	})

	harvest := func(date time.Time, commodity string, kg float64) records.HarvestRecord {
		return records.HarvestRecord{
			HarvestDate:     date,
			Commodity:       commodity,
			TotalWeightKg:   kg,
			WeightPerUnitKg: 0.5,
			Municipality:    "Orani",
		}
	}

	Describe("SaveHarvest", func() {
		It("rejects invalid records", func() {
			err := SaveHarvest(dbConn, records.HarvestRecord{Commodity: "Mango"})
			Expect(err).To(MatchError(records.ErrInvalidRecord))
		})
	})

	Describe("SelectHarvests", func() {
		BeforeEach(func() {
			Expect(SaveHarvest(dbConn, harvest(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "Mango", 10))).To(Succeed())
			Expect(SaveHarvest(dbConn, harvest(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "Banana", 20))).To(Succeed())
			Expect(SaveHarvest(dbConn, harvest(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "Mango", 30))).To(Succeed())
		})

		It("returns only the requested year, ordered by date", func() {
			got, err := SelectHarvests(dbConn, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].Commodity).To(Equal("Mango"))
			Expect(got[0].HarvestDate).To(Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(got[0].TotalWeightKg).To(Equal(30.0))
			Expect(got[1].Commodity).To(Equal("Banana"))
		})

		It("returns every row for year 0", func() {
			got, err := SelectHarvests(dbConn, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
		})

		It("releases the connection before returning", func() {
			_, err := SelectHarvests(dbConn, 2025)
			Expect(err).NotTo(HaveOccurred())

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = SelectPlantings(dbConn, 2025)
				_, _ = Years(dbConn)
			}()
			Eventually(done, "5s").Should(BeClosed())
			Expect(dbConn.Stats().InUse).To(Equal(0))
		})

		It("reports scan failures instead of returning partial data", func() {
			_, err := dbConn.Exec(`INSERT INTO harvests (harvest_date, commodity, total_weight_kg, weight_per_unit_kg, municipality, barangay, remarks)
VALUES ('2025-03-01', 'Mango', 'heavy', 0, 'Orani', '', '')`)
			Expect(err).NotTo(HaveOccurred())

			got, err := SelectHarvests(dbConn, 2025)
			Expect(err).To(MatchError(ContainSubstring("scanning harvest")))
			Expect(got).To(BeNil())
		})
	})

	Describe("SelectPlantings", func() {
		It("round-trips planting records", func() {
			p := records.PlantRecord{
				PlantDate:          time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				Commodity:          "Papaya",
				MinExpectedHarvest: 10,
				MaxExpectedHarvest: 20,
				LandAreaSqM:        250,
				Municipality:       "Abucay",
			}
			Expect(SavePlanting(dbConn, p)).To(Succeed())

			got, err := SelectPlantings(dbConn, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Commodity).To(Equal("Papaya"))
			Expect(got[0].LandAreaSqM).To(Equal(250.0))
			Expect(got[0].AverageHarvestUnits()).To(Equal(15.0))
		})
	})

	Describe("Years", func() {
		It("returns nothing for an empty database", func() {
			years, err := Years(dbConn)
			Expect(err).NotTo(HaveOccurred())
			Expect(years).To(BeEmpty())
		})

		It("merges harvest and planting years", func() {
			Expect(SaveHarvest(dbConn, harvest(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), "Mango", 10))).To(Succeed())
			Expect(SavePlanting(dbConn, records.PlantRecord{
				PlantDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Commodity: "Mango", Municipality: "Orani",
			})).To(Succeed())

			years, err := Years(dbConn)
			Expect(err).NotTo(HaveOccurred())
			Expect(years).To(Equal([]int{2023, 2025}))
		})
	})
})
