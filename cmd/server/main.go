package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/config"
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/db"
	"github.com/fruitcast/dashboard/summary"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/robfig/cron/v3"
)

func startTasks(ctx context.Context, dbConn *sql.DB, style charts.Style, chartDataDir string) error {
	c := cron.New(cron.WithLocation(time.UTC))
	// Run summarize every 2 hours
	_, err := c.AddFunc(consts.CronSummarize, summarize(ctx, dbConn))
	if err != nil {
		return err
	}
	// Export charts JSON once a day at 00:05 UTC
	_, err = c.AddFunc(consts.CronGenerateChart, generateCharts(ctx, dbConn, style, chartDataDir))
	if err != nil {
		return err
	}
	_, err = c.AddFunc(consts.CronCleanup, cleanup(ctx))
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func newRouter(dbConn *sql.DB, cfg config.Config) http.Handler {
	src := summary.NewLoader(dbConn)
	opts := cfg.DashboardOptions()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	// Dev-only routes (exported chart files)
	registerDevRoutes(r, cfg.ChartDataDir())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, opts.BasePath, http.StatusFound)
	})
	r.Get(opts.BasePath, charts.PageHandler(src, opts))
	r.Get(opts.BasePath+"/print", charts.PrintHandler(src, opts))
	r.Get("/filter", charts.FilterHandler(opts))

	// API endpoint for the charts JSON (protected by API_KEY if set)
	r.With(apiKeyMiddleware(cfg.APIKey)).Get("/api/charts", chartsJSONHandler(src, opts.Style))

	// Rate-limited collect endpoints
	limiter := httprate.NewRateLimiter(consts.RateLimitRequests, consts.RateLimitWindow, httprate.WithKeyByIP())
	r.Route("/collect", func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Post("/harvest", harvestHandler(dbConn))
		r.Post("/planting", plantingHandler(dbConn))
	})
	return r
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dbPath := cfg.DatabasePath()
	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Connected to database at %s", dbPath)

	if err := startTasks(ctx, dbConn, cfg.Style(), cfg.ChartDataDir()); err != nil {
		log.Fatal(err)
	}

	go func() {
		summarize(ctx, dbConn)()
		generateCharts(ctx, dbConn, cfg.Style(), cfg.ChartDataDir())()
	}()

	log.Print("Starting FruitCast dashboard on :" + cfg.Server.Port)
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		ReadHeaderTimeout: consts.ReadHeaderTimeout,
		Handler:           newRouter(dbConn, cfg),
	}
	err = server.ListenAndServe()
	if err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
