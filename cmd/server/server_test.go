package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fruitcast/dashboard/config"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/summary"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

var _ = Describe("Server", func() {
	var (
		dbConn *sql.DB
		router http.Handler
		cfg    config.Config
		dir    string
	)

	do := func(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		for k, v := range header {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		old, had := os.LookupEnv("DATA_FOLDER")
		Expect(os.Setenv("DATA_FOLDER", dir)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv("DATA_FOLDER", old)
			} else {
				_ = os.Unsetenv("DATA_FOLDER")
			}
		})

		var err error
		dbConn, err = db.OpenDB(filepath.Join(dir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(dbConn.Close)

		cfg = config.Config{DataFolder: dir}
		cfg.Dashboard.DefaultTab = "harvest"
		cfg.APIKey = "secret"
		router = newRouter(dbConn, cfg)
	})

	It("redirects the root to the dashboard", func() {
		w := do(http.MethodGet, "/", "", nil)
		Expect(w.Code).To(Equal(http.StatusFound))
		Expect(w.Header().Get("Location")).To(Equal("/dashboard"))
	})

	Describe("collect", func() {
		It("stores a harvest and shows it on the dashboard", func() {
			w := do(http.MethodPost, "/collect/harvest", `{
				"harvestDate": "2025-03-01",
				"commodity": "mango",
				"totalWeightKg": 150,
				"weightPerUnitKg": 0.3,
				"municipality": "Orani"
			}`, map[string]string{"Content-Type": "application/json"})
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodGet, "/dashboard?year=2025", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Mango"))
			Expect(w.Body.String()).To(ContainSubstring("Orani"))
		})

		It("stores a planting", func() {
			w := do(http.MethodPost, "/collect/planting", `{
				"plantDate": "2025-04-10",
				"commodity": "Papaya",
				"minExpectedHarvest": 40,
				"maxExpectedHarvest": 60,
				"landArea": 200,
				"municipality": "Abucay"
			}`, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodGet, "/dashboard?tab=planting&year=2025", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Papaya"))
		})

		It("refreshes the snapshot of the record's year", func() {
			Expect(summary.SaveBundle(summary.Bundle{
				Year:               2022,
				NumHarvests:        1,
				TotalHarvestKg:     5,
				HarvestByCommodity: summary.Series{Name: summary.HarvestByCommodity, Labels: []string{"Durian"}, Values: []float64{5}},
			})).To(Succeed())

			w := do(http.MethodPost, "/collect/harvest", `{
				"harvestDate": "2022-08-14",
				"commodity": "Mango",
				"totalWeightKg": 40,
				"municipality": "Orani"
			}`, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			b, err := summary.LoadBundle(2022)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.HarvestByCommodity.Labels).To(Equal([]string{"Mango"}))
			all, err := summary.LoadBundle(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all.NumHarvests).To(BeEquivalentTo(1))

			w = do(http.MethodGet, "/dashboard?year=2022", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Mango"))
			Expect(w.Body.String()).NotTo(ContainSubstring("Durian"))
		})

		It("rejects unknown fields", func() {
			w := do(http.MethodPost, "/collect/harvest", `{"harvestDate": "2025-03-01", "color": "red"}`, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("unknown field"))
		})

		It("rejects malformed JSON", func() {
			w := do(http.MethodPost, "/collect/harvest", `{"harvestDate": `, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects more than one object", func() {
			w := do(http.MethodPost, "/collect/harvest", `{} {}`, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects other content types", func() {
			w := do(http.MethodPost, "/collect/harvest", `{}`, map[string]string{"Content-Type": "text/plain"})
			Expect(w.Code).To(Equal(http.StatusUnsupportedMediaType))
		})

		It("rejects invalid records", func() {
			w := do(http.MethodPost, "/collect/harvest", `{"harvestDate": "03/01/2025", "commodity": "Mango", "municipality": "Orani"}`, nil)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

			w = do(http.MethodPost, "/collect/planting", `{
				"plantDate": "2025-04-10",
				"commodity": "Papaya",
				"minExpectedHarvest": 80,
				"maxExpectedHarvest": 60,
				"municipality": "Abucay"
			}`, nil)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("api/charts", func() {
		BeforeEach(func() {
			w := do(http.MethodPost, "/collect/harvest", `{
				"harvestDate": "2024-06-01",
				"commodity": "Banana",
				"totalWeightKg": 200,
				"municipality": "Orani"
			}`, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("requires the API key", func() {
			w := do(http.MethodGet, "/api/charts", "", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			w = do(http.MethodGet, "/api/charts", "", map[string]string{"Authorization": "Bearer wrong"})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the charts of a year", func() {
			w := do(http.MethodGet, "/api/charts?year=2024", "", map[string]string{"Authorization": "Bearer secret"})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

			var output map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &output)).To(Succeed())
			Expect(output["year"]).To(BeNumerically("==", 2024))
			Expect(output["charts"]).To(HaveLen(7))
		})

		It("accepts the key as a query parameter", func() {
			w := do(http.MethodGet, "/api/charts?api_key=secret", "", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("returns 404 for a year without data", func() {
			w := do(http.MethodGet, "/api/charts?year=1999&api_key=secret", "", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	It("exports charts into the data folder", func() {
		w := do(http.MethodPost, "/collect/planting", `{
			"plantDate": "2025-04-10",
			"commodity": "Papaya",
			"minExpectedHarvest": 40,
			"maxExpectedHarvest": 60,
			"municipality": "Abucay"
		}`, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		generateCharts(context.Background(), dbConn, cfg.Style(), cfg.ChartDataDir())()
		Expect(filepath.Join(dir, "web", "chartdata", "charts.json")).To(BeAnExistingFile())
	})

	It("redirects the year filter back to the dashboard", func() {
		w := do(http.MethodGet, "/filter?year=2024&from=%2Fdashboard%3Ftab%3Dplanting", "", nil)
		Expect(w.Code).To(Equal(http.StatusSeeOther))
		Expect(w.Header().Get("Location")).To(Equal("/dashboard?tab=planting&year=2024"))
	})
})
