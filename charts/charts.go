package charts

import (
	"github.com/fruitcast/dashboard/consts"
	"github.com/fruitcast/dashboard/summary"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Kind is the visual encoding of a chart view.
type Kind string

const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindPie      Kind = "pie"
	KindDoughnut Kind = "doughnut"
)

// Chart is a go-echarts chart that can be placed on a page and exported as options.
type Chart interface {
	components.Charter
	JSON() map[string]interface{}
}

// Definition binds one series of a bundle to a visual encoding and a mount point.
type Definition struct {
	MountPoint  string
	Tab         string
	Series      string
	Kind        Kind
	Title       string
	SeriesLabel string
	XName       string
	YName       string
	Color       string
}

// Definitions is the fixed set of dashboard charts, in page order.
var Definitions = []Definition{
	{
		MountPoint:  "harvestMonthChart",
		Tab:         consts.TabHarvest,
		Series:      summary.HarvestByMonth,
		Kind:        KindLine,
		Title:       "Harvest Weight by Month",
		SeriesLabel: "Weight (kg)",
		XName:       "Month",
		YName:       "Weight (kg)",
		Color:       consts.HarvestColor,
	},
	{
		MountPoint:  "harvestCommodityChart",
		Tab:         consts.TabHarvest,
		Series:      summary.HarvestByCommodity,
		Kind:        KindBar,
		Title:       "Harvest Weight by Commodity",
		SeriesLabel: "Weight (kg)",
		XName:       "Commodity",
		YName:       "Weight (kg)",
		Color:       consts.HarvestColor,
	},
	{
		MountPoint:  "harvestLocationChart",
		Tab:         consts.TabHarvest,
		Series:      summary.HarvestByLocation,
		Kind:        KindPie,
		Title:       "Harvest Weight by Municipality",
		SeriesLabel: "Weight (kg)",
	},
	{
		MountPoint:  "avgWeightChart",
		Tab:         consts.TabHarvest,
		Series:      summary.AvgWeightByCommodity,
		Kind:        KindBar,
		Title:       "Average Weight per Unit",
		SeriesLabel: "Avg. Weight per Unit (kg)",
		XName:       "Commodity",
		YName:       "kg per unit",
		Color:       consts.AvgWeightColor,
	},
	{
		MountPoint:  "plantCommodityChart",
		Tab:         consts.TabPlanting,
		Series:      summary.PlantingByCommodity,
		Kind:        KindBar,
		Title:       "Expected Harvest Units by Commodity",
		SeriesLabel: "Units",
		XName:       "Commodity",
		YName:       "Units",
		Color:       consts.PlantingColor,
	},
	{
		MountPoint:  "landAreaChart",
		Tab:         consts.TabPlanting,
		Series:      summary.LandAreaByCommodity,
		Kind:        KindDoughnut,
		Title:       "Average Land Area by Commodity (sq. m)",
		SeriesLabel: "Land area (sq. m)",
	},
	{
		MountPoint:  "plantLocationChart",
		Tab:         consts.TabPlanting,
		Series:      summary.PlantingByLocation,
		Kind:        KindPie,
		Title:       "Plantings by Municipality",
		SeriesLabel: "Plantings",
	},
}

// Style holds the presentation settings shared by every chart.
type Style struct {
	Width           string
	Height          string
	BackgroundColor string
	TextColor       string
	Palette         []string
}

func DefaultStyle() Style {
	return Style{
		Width:           consts.ChartWidth,
		Height:          consts.ChartHeight,
		BackgroundColor: consts.ChartBackgroundColor,
		TextColor:       consts.ChartTextColor,
	}
}

func build(def Definition, s summary.Series, style Style) Chart {
	switch def.Kind {
	case KindLine:
		return buildLine(def, s, style)
	case KindPie:
		return buildPie(def, s, style, false)
	case KindDoughnut:
		return buildPie(def, s, style, true)
	default:
		return buildBar(def, s, style)
	}
}

func globalOpts(def Definition, style Style, tooltip opts.Tooltip) []charts.GlobalOpts {
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         def.MountPoint,
			Width:           style.Width,
			Height:          style.Height,
			BackgroundColor: style.BackgroundColor,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      def.Title,
			TitleStyle: &opts.TextStyle{Color: style.TextColor},
		}),
		charts.WithTooltipOpts(tooltip),
	}
	if len(style.Palette) > 0 {
		global = append(global, charts.WithColorsOpts(opts.Colors(style.Palette)))
	}
	return global
}

var (
	axisTooltip = opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
	itemTooltip = opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}: {c} ({d}%)"}
)

func axisOpts(def Definition, style Style) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         def.XName,
			NameLocation: "center",
			NameGap:      30,
			AxisLabel: &opts.AxisLabel{
				Color: style.TextColor,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         def.YName,
			NameLocation: "center",
			NameGap:      50,
			AxisLabel: &opts.AxisLabel{
				Color: style.TextColor,
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "80",
			Bottom: "60",
		}),
	}
}

func buildBar(def Definition, s summary.Series, style Style) *charts.Bar {
	data := make([]opts.BarData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.BarData{Name: s.Labels[i], Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(def, style, axisTooltip), axisOpts(def, style)...)...)
	bar.SetXAxis(s.Labels).
		AddSeries(def.SeriesLabel, data)
	if def.Color != "" {
		bar.SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: def.Color}))
	}
	return bar
}

func buildLine(def Definition, s summary.Series, style Style) *charts.Line {
	data := make([]opts.LineData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.LineData{Name: s.Labels[i], Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOpts(def, style, axisTooltip), axisOpts(def, style)...)...)
	line.SetXAxis(s.Labels).
		AddSeries(def.SeriesLabel, data)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	}
	if def.Color != "" {
		seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: def.Color}))
	}
	line.SetSeriesOptions(seriesOpts...)
	return line
}

func buildPie(def Definition, s summary.Series, style Style, doughnut bool) *charts.Pie {
	data := make([]opts.PieData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.PieData{Name: s.Labels[i], Value: v}
	}

	radius := []string{"0%", "70%"}
	if doughnut {
		radius = []string{"40%", "70%"}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(append(globalOpts(def, style, itemTooltip),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			Orient:    "vertical",
			TextStyle: &opts.TextStyle{Color: style.TextColor},
			Type:      "scroll",
		}),
	)...)

	pie.AddSeries(def.SeriesLabel, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: radius,
				Center: []string{"40%", "55%"},
			}),
		)
	return pie
}
