package charts

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/summary"
	"github.com/go-echarts/go-echarts/v2/components"
)

// Source provides the bundles the dashboard is built from.
type Source interface {
	Bundle(year int) (summary.Bundle, error)
	Years() ([]int, error)
}

// Options configures the dashboard handlers.
type Options struct {
	BasePath   string
	DefaultTab string
	Style      Style
}

func (o Options) withDefaults() Options {
	if o.BasePath == "" {
		o.BasePath = "/dashboard"
	}
	if o.DefaultTab == "" {
		o.DefaultTab = consts.DefaultTab
	}
	def := DefaultStyle()
	if o.Style.Width == "" {
		o.Style.Width = def.Width
	}
	if o.Style.Height == "" {
		o.Style.Height = def.Height
	}
	if o.Style.BackgroundColor == "" {
		o.Style.BackgroundColor = def.BackgroundColor
	}
	if o.Style.TextColor == "" {
		o.Style.TextColor = def.TextColor
	}
	return o
}

// renderBundle reads the year filter and builds a fresh renderer for it.
func renderBundle(w http.ResponseWriter, r *http.Request, src Source, o Options) (*Renderer, summary.Bundle, bool) {
	year, err := ParseYear(r.URL.Query().Get(consts.YearParam))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, summary.Bundle{}, false
	}

	b, err := src.Bundle(year)
	if err != nil {
		log.Printf("Error loading bundle: %v", err)
		http.Error(w, "Failed to load data", http.StatusInternalServerError)
		return nil, summary.Bundle{}, false
	}
	b.Year = year

	renderer := NewRenderer(DefaultLayout(), o.Style)
	if err := renderer.RenderAll(b); err != nil {
		log.Printf("Error rendering charts: %v", err)
		http.Error(w, "Failed to render charts", http.StatusInternalServerError)
		return nil, summary.Bundle{}, false
	}
	return renderer, b, true
}

// PageHandler serves the tabbed dashboard. The tab query parameter picks the visible
// section and the year parameter filters every chart.
func PageHandler(src Source, o Options) http.HandlerFunc {
	o = o.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		tabs := NewTabSet(DefaultLayout().Tabs()...)
		if err := tabs.Show(o.DefaultTab); err != nil {
			log.Printf("Ignoring default tab: %v", err)
		}
		if tab := r.URL.Query().Get(consts.TabParam); tab != "" {
			if err := tabs.Show(tab); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		}

		renderer, b, ok := renderBundle(w, r, src, o)
		if !ok {
			return
		}
		defer renderer.Release()

		years, err := src.Years()
		if err != nil {
			log.Printf("Error loading years: %v", err)
		}

		var buf bytes.Buffer
		if err := renderPage(&buf, o.BasePath, renderer, tabs, b, years, o.Style); err != nil {
			log.Printf("Error rendering page: %v", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

// PrintHandler renders every chart of the year on a single page.
func PrintHandler(src Source, o Options) http.HandlerFunc {
	o = o.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		renderer, _, ok := renderBundle(w, r, src, o)
		if !ok {
			return
		}
		defer renderer.Release()

		page := components.NewPage()
		page.PageTitle = consts.PageTitle
		for _, v := range renderer.Views() {
			page.AddCharts(v.Chart)
		}

		w.Header().Set("Content-Type", "text/html")
		_ = page.Render(w)
	}
}

// FilterHandler redirects to the page given by the from parameter with the year
// filter applied.
func FilterHandler(o Options) http.HandlerFunc {
	o = o.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := ParseYear(r.URL.Query().Get(consts.YearParam))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target, err := ApplyYearFilter(localURL(r.URL.Query().Get(consts.FromParam), o.BasePath), year)
		if err != nil {
			if errors.Is(err, ErrInvalidYear) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("Error applying year filter: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
