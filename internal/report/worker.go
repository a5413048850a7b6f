// Package report renders periodic PDF digests of tracked metrics and
// mails them to their owners. It reads the sample store on its own
// schedule and never writes to it.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	"github.com/pulseboard/pulseboard/internal/clock"
	appconfig "github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/providers/email"
	"github.com/pulseboard/pulseboard/internal/providers/pdf"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Config   appconfig.Config
	Auth     authdomain.Service
	Tracking trackingdomain.Service
	Samples  sampledomain.Service
	PDF      pdf.Provider
	Email    email.Provider
}

type Worker struct {
	log      *zap.Logger
	clock    clock.Clock
	cfg      appconfig.ReportConfig
	auth     authdomain.Service
	tracking trackingdomain.Service
	samples  sampledomain.Service
	pdf      pdf.Provider
	email    email.Provider
}

func NewWorker(p Params) *Worker {
	return &Worker{
		log:      p.Log.Named("report.worker"),
		clock:    p.Clock,
		cfg:      p.Config.Report,
		auth:     p.Auth,
		tracking: p.Tracking,
		samples:  p.Samples,
		pdf:      p.PDF,
		email:    p.Email,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("report run failed", zap.Error(err))
		}
	}
}

// RunOnce builds and delivers one digest per user with trackers. A
// failure for one user does not stop the run.
func (w *Worker) RunOnce(ctx context.Context) error {
	userIDs, err := w.tracking.ListTrackingUsers(ctx)
	if err != nil {
		return fmt.Errorf("list tracking users: %w", err)
	}

	now := w.clock.Now()
	from := now.Add(-w.cfg.Window)

	sent := 0
	for _, userID := range userIDs {
		if err := w.deliverDigest(ctx, userID, from, now); err != nil {
			w.log.Warn("digest delivery failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	w.log.Info("report run finished",
		zap.Int("users", len(userIDs)),
		zap.Int("sent", sent),
	)
	return nil
}

func (w *Worker) deliverDigest(ctx context.Context, userID snowflake.ID, from, to time.Time) error {
	user, err := w.auth.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == nil || *user.Email == "" {
		w.log.Debug("user has no email, digest skipped", zap.String("username", user.Username))
		return nil
	}

	metrics, err := w.tracking.ListTrackedByUser(ctx, userID)
	if err != nil {
		return err
	}

	data := pdf.DigestData{
		Username:    user.Username,
		PeriodStart: from.Format(time.RFC3339),
		PeriodEnd:   to.Format(time.RFC3339),
		GeneratedAt: to.Format(time.RFC3339),
	}

	for _, metric := range metrics {
		samples, err := w.samples.Query(ctx, metric.ID, sampledomain.QueryOptions{
			From:   &from,
			To:     &to,
			SortBy: sampledomain.SortByDate,
			Order:  sampledomain.OrderAsc,
		})
		if err != nil {
			return err
		}
		data.Metrics = append(data.Metrics, summarize(metric.Name, samples))
	}

	doc, err := w.pdf.GenerateDigest(ctx, data)
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	if doc == nil {
		return nil
	}

	raw, err := io.ReadAll(doc)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Telemetry digest for %s", to.Format("2006-01-02"))
	body := fmt.Sprintf("<p>Attached is the telemetry digest for %d tracked metrics.</p>", len(metrics))
	return w.email.SendWithAttachment(ctx, []string{*user.Email}, subject, body, email.Attachment{
		Filename:    fmt.Sprintf("digest-%s.pdf", to.Format("2006-01-02")),
		ContentType: "application/pdf",
		Data:        raw,
	})
}

func summarize(name string, samples []sampledomain.Sample) pdf.DigestMetric {
	out := pdf.DigestMetric{Name: name, Samples: len(samples)}
	if len(samples) == 0 {
		return out
	}

	out.First = samples[0].Value
	out.Last = samples[len(samples)-1].Value

	var (
		min, max float64
		seen     bool
	)
	for _, sample := range samples {
		v, err := strconv.ParseFloat(sample.Value, 64)
		if err != nil {
			continue
		}
		if !seen || v < min {
			min = v
		}
		if !seen || v > max {
			max = v
		}
		seen = true
	}
	if seen {
		out.Min = strconv.FormatFloat(min, 'f', -1, 64)
		out.Max = strconv.FormatFloat(max, 'f', -1, 64)
	}
	return out
}
