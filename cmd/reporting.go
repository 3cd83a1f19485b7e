package cmd

import (
	"strings"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/logger"
	"github.com/theirongolddev/stackcost/internal/report"
)

// newChartSource picks the chart renderer from config. local forces the
// in-process renderer.
func newChartSource(cat *catalog.Catalog, local bool) report.ChartSource {
	log := logger.Get()
	if local || strings.EqualFold(appConfig.APIs.ChartRenderer, "local") {
		return report.LocalChart{}
	}

	tmpl := appConfig.APIs.ChartURL
	if tmpl == "" {
		tmpl = cat.APIs().PieChart
	}
	if tmpl == "" {
		log.Infow("no chart service configured, rendering locally")
		return report.LocalChart{}
	}

	remoteChart := &report.RemoteChart{Client: newGetter(), URLTemplate: tmpl}
	if appConfig.Report.ChartFallbackLocal {
		return report.FallbackChart{Primary: remoteChart, Secondary: report.LocalChart{}, Log: log}
	}
	return remoteChart
}

// reportStyle takes the HTML accent and font from the catalog theme named by
// the appearance setting. Unknown names keep the report defaults.
func reportStyle(cat *catalog.Catalog) report.HTMLStyle {
	t, ok := cat.Theme(appConfig.Appearance.Theme)
	if !ok {
		return report.HTMLStyle{}
	}
	return report.HTMLStyle{Accent: t.Light.Primary, Font: t.FontFamily}
}
