package report

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	authrepo "github.com/pulseboard/pulseboard/internal/auth/repository"
	authservice "github.com/pulseboard/pulseboard/internal/auth/service"
	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	catalogrepo "github.com/pulseboard/pulseboard/internal/catalog/repository"
	catalogservice "github.com/pulseboard/pulseboard/internal/catalog/service"
	"github.com/pulseboard/pulseboard/internal/clock"
	appconfig "github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/providers/email"
	"github.com/pulseboard/pulseboard/internal/providers/pdf"
	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
	samplerepo "github.com/pulseboard/pulseboard/internal/sample/repository"
	sampleservice "github.com/pulseboard/pulseboard/internal/sample/service"
	trackingdomain "github.com/pulseboard/pulseboard/internal/tracking/domain"
	trackingrepo "github.com/pulseboard/pulseboard/internal/tracking/repository"
	trackingservice "github.com/pulseboard/pulseboard/internal/tracking/service"
)

type sentMail struct {
	to         []string
	subject    string
	attachment email.Attachment
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeEmail) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (f *fakeEmail) SendWithAttachment(ctx context.Context, to []string, subject string, htmlBody string, attachment email.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, attachment: attachment})
	return nil
}

type fakePDF struct {
	digests []pdf.DigestData
}

func (f *fakePDF) GenerateDigest(ctx context.Context, data pdf.DigestData) (io.Reader, error) {
	f.digests = append(f.digests, data)
	return bytes.NewReader([]byte("%PDF-fake")), nil
}

type harness struct {
	worker   *Worker
	auth     authdomain.Service
	catalog  catalogdomain.Service
	tracking trackingdomain.Service
	samples  sampledomain.Service
	clock    *clock.FakeClock
	mail     *fakeEmail
	pdf      *fakePDF
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&catalogdomain.Metric{},
		&trackingdomain.Trackable{},
		&sampledomain.Sample{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	userRepo, sessionRepo := authrepo.New(db)
	authSvc := authservice.New(authservice.Params{
		Log: log, GenID: node, Repo: userRepo, SessionRepo: sessionRepo,
	})
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	trackingSvc := trackingservice.New(trackingservice.Params{
		DB: db, Log: log, GenID: node, Repo: trackingrepo.Provide(), Catalog: catalogSvc,
	})
	sampleSvc := sampleservice.New(sampleservice.Params{
		DB: db, Log: log, GenID: node, Repo: samplerepo.Provide(),
	})

	fc := clock.NewFakeClock(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	mail := &fakeEmail{}
	pdfProvider := &fakePDF{}

	worker := NewWorker(Params{
		Log:   log,
		Clock: fc,
		Config: appconfig.Config{
			Report: appconfig.ReportConfig{
				Enabled:  true,
				Interval: 24 * time.Hour,
				Window:   24 * time.Hour,
			},
		},
		Auth:     authSvc,
		Tracking: trackingSvc,
		Samples:  sampleSvc,
		PDF:      pdfProvider,
		Email:    mail,
	})

	return &harness{
		worker: worker, auth: authSvc, catalog: catalogSvc,
		tracking: trackingSvc, samples: sampleSvc,
		clock: fc, mail: mail, pdf: pdfProvider,
	}
}

func TestRunOnceDeliversDigest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.auth.Register(ctx, authdomain.RegisterRequest{
		Username: "alice",
		Password: "long-enough-pass",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	metric, err := h.catalog.Resolve(ctx, "LOAD_AVERAGE", "node_load1")
	require.NoError(t, err)
	_, err = h.tracking.Track(ctx, res.User.ID, metric.ID)
	require.NoError(t, err)

	// Samples inside and outside the 24h window.
	_, err = h.samples.Append(ctx, metric.ID, "0.50", h.clock.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = h.samples.Append(ctx, metric.ID, "1.25", h.clock.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = h.samples.Append(ctx, metric.ID, "9.99", h.clock.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	require.NoError(t, h.worker.RunOnce(ctx))

	require.Len(t, h.mail.sent, 1)
	mail := h.mail.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, mail.to)
	assert.True(t, strings.HasSuffix(mail.attachment.Filename, ".pdf"))
	assert.Equal(t, "application/pdf", mail.attachment.ContentType)
	assert.NotEmpty(t, mail.attachment.Data)

	require.Len(t, h.pdf.digests, 1)
	digest := h.pdf.digests[0]
	assert.Equal(t, "alice", digest.Username)
	require.Len(t, digest.Metrics, 1)
	assert.Equal(t, "LOAD_AVERAGE", digest.Metrics[0].Name)
	assert.Equal(t, 2, digest.Metrics[0].Samples)
	assert.Equal(t, "0.50", digest.Metrics[0].First)
	assert.Equal(t, "1.25", digest.Metrics[0].Last)
	assert.Equal(t, "0.5", digest.Metrics[0].Min)
	assert.Equal(t, "1.25", digest.Metrics[0].Max)
}

func TestRunOnceSkipsUsersWithoutEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.auth.Register(ctx, authdomain.RegisterRequest{
		Username: "bob",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)

	metric, err := h.catalog.Resolve(ctx, "NODE_UPTIME", "time() - node_boot_time_seconds")
	require.NoError(t, err)
	_, err = h.tracking.Track(ctx, res.User.ID, metric.ID)
	require.NoError(t, err)

	require.NoError(t, h.worker.RunOnce(ctx))
	assert.Empty(t, h.mail.sent)
}

func TestRunOnceWithNoTrackersDoesNothing(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.worker.RunOnce(context.Background()))
	assert.Empty(t, h.mail.sent)
	assert.Empty(t, h.pdf.digests)
}
