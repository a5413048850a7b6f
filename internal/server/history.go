package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	sampledomain "github.com/pulseboard/pulseboard/internal/sample/domain"
)

// sampleView is the history wire shape: the stored decimal string parsed
// to a number, the timestamp exposed as "date".
type sampleView struct {
	ID       snowflake.ID `json:"id"`
	MetricID snowflake.ID `json:"metric_id"`
	Value    float64      `json:"value"`
	Date     time.Time    `json:"date"`
}

func sampleViews(samples []sampledomain.Sample) []sampleView {
	views := make([]sampleView, 0, len(samples))
	for _, s := range samples {
		// Appends only accept numeric strings, so this cannot fail.
		value, _ := strconv.ParseFloat(s.Value, 64)
		views = append(views, sampleView{
			ID:       s.ID,
			MetricID: s.MetricID,
			Value:    value,
			Date:     s.CreatedAt,
		})
	}
	return views
}

// historyGate resolves the metric and enforces the tracker requirement:
// unknown metrics are 404, known-but-untracked are 403.
func (s *Server) historyGate(c *gin.Context) (snowflake.ID, bool) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return 0, false
	}

	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return 0, false
	}

	if _, err := s.catalogSvc.GetByID(c.Request.Context(), metricID); err != nil {
		AbortWithError(c, err)
		return 0, false
	}

	tracking, err := s.trackingSvc.IsTracking(c.Request.Context(), user.ID, metricID)
	if err != nil {
		AbortWithError(c, err)
		return 0, false
	}
	if !tracking {
		AbortWithError(c, ErrForbidden)
		return 0, false
	}

	return metricID, true
}

func (s *Server) MetricValues(c *gin.Context) {
	metricID, ok := s.historyGate(c)
	if !ok {
		return
	}

	opts := parseQueryOptions(c.Query("from"), c.Query("to"), c.Query("sort_by"), c.Query("order"))
	samples, err := s.sampleSvc.Query(c.Request.Context(), metricID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampleViews(samples))
}

func (s *Server) MetricValuesDeduped(c *gin.Context) {
	metricID, ok := s.historyGate(c)
	if !ok {
		return
	}

	from := parseOptionalTime(c.Query("from"), false)
	to := parseOptionalTime(c.Query("to"), true)

	samples, err := s.sampleSvc.QueryDeduped(c.Request.Context(), metricID, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampleViews(samples))
}

// MetricValuesAll is the older, permissive read: any authenticated user
// may query, tracker or not.
//
// Deprecated: clients should move to MetricValues.
func (s *Server) MetricValuesAll(c *gin.Context) {
	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := s.catalogSvc.GetByID(c.Request.Context(), metricID); err != nil {
		AbortWithError(c, err)
		return
	}

	opts := parseQueryOptions(c.Query("from"), c.Query("to"), c.Query("sort_by"), c.Query("order"))
	samples, err := s.sampleSvc.Query(c.Request.Context(), metricID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampleViews(samples))
}
