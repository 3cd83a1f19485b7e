package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for chart responses
	_ "image/jpeg"
	_ "image/png"
	"net/url"

	"github.com/theirongolddev/stackcost/internal/remote"

	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"
)

// ChartSource renders a pie chart image for labeled values.
type ChartSource interface {
	Render(ctx context.Context, labels []string, values []float64) ([]byte, error)
}

// ChartError reports a failed chart render. Generate recovers from it.
type ChartError struct {
	Err error
}

func (e *ChartError) Error() string { return "report: chart: " + e.Err.Error() }

func (e *ChartError) Unwrap() error { return e.Err }

// RemoteChart fetches a chart from a URL template with {labels} and {values}
// placeholders, each replaced by a URL-escaped JSON array.
type RemoteChart struct {
	Client      remote.Getter
	URLTemplate string
}

// URL returns the request URL for the given series.
func (c *RemoteChart) URL(labels []string, values []float64) (string, error) {
	lj, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	vj, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return remote.Fill(c.URLTemplate, map[string]string{
		"labels": url.QueryEscape(string(lj)),
		"values": url.QueryEscape(string(vj)),
	}), nil
}

// Render implements ChartSource. The response must be a decodable image.
func (c *RemoteChart) Render(ctx context.Context, labels []string, values []float64) ([]byte, error) {
	if c.URLTemplate == "" {
		return nil, &ChartError{Err: errors.New("no chart service configured")}
	}
	u, err := c.URL(labels, values)
	if err != nil {
		return nil, &ChartError{Err: err}
	}
	client := c.Client
	if client == nil {
		client = remote.New()
	}
	body, err := client.Get(ctx, u)
	if err != nil {
		return nil, &ChartError{Err: err}
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
		return nil, &ChartError{Err: fmt.Errorf("response is not an image: %w", err)}
	}
	return body, nil
}

// LocalChart renders a PNG pie chart in-process.
type LocalChart struct {
	Width  int
	Height int
}

// Render implements ChartSource.
func (c LocalChart) Render(_ context.Context, labels []string, values []float64) ([]byte, error) {
	if len(labels) != len(values) {
		return nil, &ChartError{Err: fmt.Errorf("%d labels for %d values", len(labels), len(values))}
	}
	var parts []chart.Value
	var sum float64
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sum += v
		parts = append(parts, chart.Value{Label: labels[i], Value: v})
	}
	if sum <= 0 {
		return nil, &ChartError{Err: errors.New("nothing to chart")}
	}

	width, height := c.Width, c.Height
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 400
	}
	pie := chart.PieChart{
		Width:  width,
		Height: height,
		Values: parts,
		Background: chart.Style{
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
	}

	buf := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, &ChartError{Err: fmt.Errorf("rendering pie: %w", err)}
	}
	return buf.Bytes(), nil
}

// FallbackChart tries Primary, then Secondary.
type FallbackChart struct {
	Primary   ChartSource
	Secondary ChartSource
	Log       *zap.SugaredLogger
}

// Render implements ChartSource.
func (c FallbackChart) Render(ctx context.Context, labels []string, values []float64) ([]byte, error) {
	img, err := c.Primary.Render(ctx, labels, values)
	if err == nil {
		return img, nil
	}
	if c.Log != nil {
		c.Log.Warnw("primary chart failed, rendering locally", "error", err)
	}
	return c.Secondary.Render(ctx, labels, values)
}
