package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/pulseboard/pulseboard/internal/catalog/domain"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
)

type metricView struct {
	catalogdomain.Metric
	Tags    []tagdomain.Tag `json:"tags"`
	Tracked bool            `json:"tracked"`
}

func (s *Server) metricViews(c *gin.Context, metrics []catalogdomain.Metric) ([]metricView, error) {
	user := currentUser(c)
	views := make([]metricView, 0, len(metrics))
	for _, metric := range metrics {
		tags, err := s.tagSvc.ListByMetric(c.Request.Context(), metric.ID)
		if err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []tagdomain.Tag{}
		}

		tracked := false
		if user != nil {
			tracked, err = s.trackingSvc.IsTracking(c.Request.Context(), user.ID, metric.ID)
			if err != nil {
				return nil, err
			}
		}

		views = append(views, metricView{Metric: metric, Tags: tags, Tracked: tracked})
	}
	return views, nil
}

func (s *Server) ListMetrics(c *gin.Context) {
	filter := catalogdomain.ListFilter{
		Search: c.Query("search"),
		TagIDs: parseTagIDs(c.Query("tag_ids")),
	}

	metrics, err := s.catalogSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views, err := s.metricViews(c, metrics)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) ListTrackedMetrics(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	metrics, err := s.trackingSvc.ListTrackedByUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views, err := s.metricViews(c, metrics)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// CurrentValue performs an on-demand source fetch for the metric's
// query, bypassing the store.
func (s *Server) CurrentValue(c *gin.Context) {
	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	metric, err := s.catalogSvc.GetByID(c.Request.Context(), metricID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.FetchTimeout)
	defer cancel()

	res, err := s.source.Query(ctx, metric.SourceQuery)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	value, err := strconv.ParseFloat(res.Value, 64)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric_id": metric.ID,
		"name":      metric.Name,
		"value":     value,
		"date":      time.Now().UTC(),
	})
}

func (s *Server) TrackMetric(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := s.trackingSvc.Track(c.Request.Context(), user.ID, metricID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	message := "already tracked"
	if created {
		status = http.StatusCreated
		message = "tracked"
	}
	c.JSON(status, gin.H{
		"message":   message,
		"trackable": gin.H{"user_id": user.ID, "metric_id": metricID},
	})
}

func (s *Server) UntrackMetric(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	removed, err := s.trackingSvc.Untrack(c.Request.Context(), user.ID, metricID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !removed {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "untracked"})
}
