package pipeline

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/model"
)

func BenchmarkBuildQuote(b *testing.B) {
	idx := make(categories, 20)
	for i := range idx {
		idx[i] = catalog.Category{Name: fmt.Sprintf("cat-%d", i)}
	}
	apps := make([]catalog.App, 500)
	for i := range apps {
		cur := "USD"
		if i%2 == 0 {
			cur = "EUR"
		}
		apps[i] = app(i+1, idx[i%len(idx)].Name, "12.34", "123.40", cur)
	}
	rt := scenarioRates()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q := BuildQuote(idx, apps, model.Monthly, "EUR", rt)
		_ = q
	}
}
