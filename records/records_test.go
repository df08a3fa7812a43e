package records

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRecords(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Records Suite")
}

var _ = Describe("Records", func() {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	Describe("HarvestRecord", func() {
		It("estimates units from the per-unit weight", func() {
			h := HarvestRecord{TotalWeightKg: 120, WeightPerUnitKg: 0.4}
			Expect(h.EstimatedUnits()).To(BeNumerically("~", 300, 1e-9))
		})

		It("returns zero units when the per-unit weight is unknown", func() {
			h := HarvestRecord{TotalWeightKg: 120}
			Expect(h.EstimatedUnits()).To(BeZero())
		})

		It("accepts a complete record", func() {
			h := HarvestRecord{HarvestDate: day, Commodity: "Mango", Municipality: "Orani", TotalWeightKg: 10}
			Expect(h.Validate()).To(Succeed())
		})

		DescribeTable("rejects incomplete records",
			func(h HarvestRecord) {
				Expect(h.Validate()).To(MatchError(ErrInvalidRecord))
			},
			Entry("no date", HarvestRecord{Commodity: "Mango", Municipality: "Orani"}),
			Entry("no commodity", HarvestRecord{HarvestDate: day, Municipality: "Orani"}),
			Entry("no municipality", HarvestRecord{HarvestDate: day, Commodity: "Mango"}),
			Entry("negative weight", HarvestRecord{HarvestDate: day, Commodity: "Mango", Municipality: "Orani", TotalWeightKg: -1}),
		)
	})

	Describe("PlantRecord", func() {
		It("averages the expected harvest range", func() {
			p := PlantRecord{MinExpectedHarvest: 100, MaxExpectedHarvest: 151}
			Expect(p.AverageHarvestUnits()).To(Equal(125.5))
		})

		It("rejects a minimum above the maximum", func() {
			p := PlantRecord{PlantDate: day, Commodity: "Banana", Municipality: "Abucay", MinExpectedHarvest: 10, MaxExpectedHarvest: 5}
			Expect(p.Validate()).To(MatchError(ErrInvalidRecord))
		})

		It("accepts a complete record", func() {
			p := PlantRecord{PlantDate: day, Commodity: "Banana", Municipality: "Abucay", MinExpectedHarvest: 5, MaxExpectedHarvest: 10, LandAreaSqM: 200}
			Expect(p.Validate()).To(Succeed())
		})
	})

	Describe("ToKg", func() {
		DescribeTable("converts weights to kilograms",
			func(value float64, unit string, expected float64) {
				Expect(ToKg(value, unit)).To(BeNumerically("~", expected, 1e-9))
			},
			Entry("kilograms", 2.5, "kg", 2.5),
			Entry("default unit", 2.5, "", 2.5),
			Entry("grams", 500.0, "g", 0.5),
			Entry("tonnes", 1.2, "ton", 1200.0),
			Entry("pounds", 10.0, " LBS ", 4.5359237),
		)

		It("rejects unknown units", func() {
			_, err := ToKg(1, "sack")
			Expect(err).To(MatchError(ErrInvalidRecord))
		})
	})
})
