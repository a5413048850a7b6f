package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DigestData describes one user's telemetry report for a time window.
type DigestData struct {
	Username    string
	PeriodStart string
	PeriodEnd   string
	GeneratedAt string

	Metrics []DigestMetric
}

// DigestMetric summarizes one tracked metric's samples in the window.
type DigestMetric struct {
	Name    string
	Samples int
	First   string
	Last    string
	Min     string
	Max     string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateDigest(ctx context.Context, data DigestData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Telemetry digest", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Account: "+data.Username, props.Text{Top: 0}),
			text.New(fmt.Sprintf("Period: %s to %s", data.PeriodStart, data.PeriodEnd), props.Text{Top: 5}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Metric", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Samples", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "First", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Last", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Min", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Max", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if len(data.Metrics) == 0 {
		m.AddRow(15,
			text.NewCol(12, "No samples recorded in this period.", props.Text{Size: 9}),
		)
	}

	for _, metric := range data.Metrics {
		m.AddRow(12,
			text.NewCol(4, metric.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", metric.Samples), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, metric.First, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, metric.Last, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, metric.Min, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, metric.Max, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
