package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/records"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Report", func() {
	var dbPath string

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "report.db")
		conn, err := db.OpenDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		date := func(s string) time.Time {
			t, err := time.Parse(time.DateOnly, s)
			Expect(err).NotTo(HaveOccurred())
			return t
		}
		Expect(db.SaveHarvest(conn, records.HarvestRecord{
			HarvestDate: date("2024-05-01"), Commodity: "Mango", TotalWeightKg: 1500, Municipality: "Orani",
		})).To(Succeed())
		Expect(db.SaveHarvest(conn, records.HarvestRecord{
			HarvestDate: date("2025-02-01"), Commodity: "Banana", TotalWeightKg: 12345.5, Municipality: "Abucay",
		})).To(Succeed())
		Expect(db.SavePlanting(conn, records.PlantRecord{
			PlantDate: date("2025-03-01"), Commodity: "Papaya", MinExpectedHarvest: 1000, MaxExpectedHarvest: 3000, Municipality: "Orani",
		})).To(Succeed())
	})

	It("reports the latest year by default", func() {
		var out bytes.Buffer
		Expect(run(&out, dbPath, "")).To(Succeed())

		report := out.String()
		Expect(report).To(ContainSubstring("Year: 2025"))
		Expect(report).To(ContainSubstring("Total harvest: 12,345.50 kg"))
		Expect(report).To(ContainSubstring("Expected units planted: 2,000"))
		Expect(report).To(MatchRegexp(`12,345\.50 \| Banana`))
		Expect(report).NotTo(ContainSubstring("Mango"))
	})

	It("reports every year", func() {
		var out bytes.Buffer
		Expect(run(&out, dbPath, "all")).To(Succeed())

		report := out.String()
		Expect(report).To(ContainSubstring("Year: all years"))
		Expect(report).To(ContainSubstring("Total harvest: 13,845.50 kg"))
		Expect(report).To(ContainSubstring("Mango"))
	})

	It("fails for a year without data", func() {
		var out bytes.Buffer
		Expect(run(&out, dbPath, "2010")).To(MatchError(ContainSubstring("no data found for 2010")))
	})

	It("fails for an invalid year", func() {
		var out bytes.Buffer
		Expect(run(&out, dbPath, "soon")).NotTo(Succeed())
	})
})
