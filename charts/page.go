package charts

import (
	"encoding/json"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/summary"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.AssetURL}}"></script>
<style>
body { font-family: sans-serif; margin: 24px; }
nav a { margin-right: 16px; }
nav a.active { font-weight: bold; }
.totals span { margin-right: 24px; }
.chart { margin: 16px 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav>
{{range .Tabs}}<a href="{{.URL}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
{{end}}</nav>
<form method="get" action="{{.FilterAction}}">
<input type="hidden" name="from" value="{{.From}}">
<label for="year">Year</label>
<select id="year" name="year" onchange="this.form.submit()">
<option value="all"{{if eq .Year 0}} selected{{end}}>All years</option>
{{range .Years}}<option value="{{.}}"{{if eq . $.Year}} selected{{end}}>{{.}}</option>
{{end}}</select>
<noscript><button type="submit">Apply</button></noscript>
</form>
<p class="totals"><span>Total harvest: {{.TotalHarvest}} kg</span><span>Harvest records: {{.NumHarvests}}</span><span>Expected units planted: {{.TotalPlanted}}</span><span>Planting records: {{.NumPlantings}}</span></p>
{{range .Sections}}<section id="{{.Name}}"{{if not .Visible}} hidden{{end}}>
{{range .Views}}<div class="chart" id="{{.ID}}" style="width:{{.Width}};height:{{.Height}};"></div>
{{end}}</section>
{{end}}<script>
{{range .Sections}}{{if .Visible}}{{range .Views}}echarts.init(document.getElementById("{{.ID}}"), null, {renderer: "canvas"}).setOption({{.Options}});
{{end}}{{end}}{{end}}</script>
</body>
</html>
`))

type pageData struct {
	Title        string
	AssetURL     string
	Tabs         []tabLink
	FilterAction string
	From         string
	Year         int
	Years        []int
	TotalHarvest string
	TotalPlanted string
	NumHarvests  string
	NumPlantings string
	Sections     []pageSection
}

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

type pageSection struct {
	Name    string
	Visible bool
	Views   []pageView
}

type pageView struct {
	ID      string
	Width   string
	Height  string
	Options template.JS
}

var tabLabels = map[string]string{
	consts.TabHarvest:  "Harvest",
	consts.TabPlanting: "Planting",
}

// chartOptions validates a chart and encodes its ECharts options.
func chartOptions(c Chart) ([]byte, error) {
	c.Validate()
	return json.Marshal(c.JSON())
}

func renderPage(w io.Writer, basePath string, r *Renderer, tabs *TabSet, b summary.Bundle, years []int, style Style) error {
	data := pageData{
		Title:        consts.PageTitle,
		AssetURL:     consts.EChartsAssetURL,
		FilterAction: "/filter",
		Year:         b.Year,
		Years:        years,
		TotalHarvest: FormatWeight(b.TotalHarvestKg),
		TotalPlanted: FormatNumber(b.TotalPlantedUnits),
		NumHarvests:  FormatNumber(float64(b.NumHarvests)),
		NumPlantings: FormatNumber(float64(b.NumPlantings)),
	}
	data.From = pageURL(basePath, tabs.Active(), b.Year)

	for _, name := range tabs.Names() {
		label := tabLabels[name]
		if label == "" {
			label = name
		}
		data.Tabs = append(data.Tabs, tabLink{
			Label:  label,
			URL:    pageURL(basePath, name, b.Year),
			Active: tabs.Visible(name),
		})

		section := pageSection{Name: name, Visible: tabs.Visible(name)}
		for _, v := range r.ViewsForTab(name) {
			options, err := chartOptions(v.Chart)
			if err != nil {
				return err
			}
			section.Views = append(section.Views, pageView{
				ID:      v.MountPoint,
				Width:   style.Width,
				Height:  style.Height,
				Options: template.JS(options),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	return pageTemplate.Execute(w, data)
}

func pageURL(basePath, tab string, year int) string {
	q := url.Values{}
	q.Set(consts.TabParam, tab)
	if year != 0 {
		q.Set(consts.YearParam, strconv.Itoa(year))
	}
	return basePath + "?" + q.Encode()
}
