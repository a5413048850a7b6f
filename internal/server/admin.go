package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/pulseboard/pulseboard/internal/auth/domain"
	tagdomain "github.com/pulseboard/pulseboard/internal/tag/domain"
)

type createTagRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) ListTags(c *gin.Context) {
	tags, err := s.tagSvc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if tags == nil {
		tags = []tagdomain.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tag, err := s.tagSvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (s *Server) DeleteTag(c *gin.Context) {
	tagID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.tagSvc.Delete(c.Request.Context(), tagID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) AttachTag(c *gin.Context) {
	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tagID, err := parseSnowflakeParam(c.Param("tagId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.tagSvc.Attach(c.Request.Context(), metricID, tagID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "attached"})
}

func (s *Server) DetachTag(c *gin.Context) {
	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tagID, err := parseSnowflakeParam(c.Param("tagId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.tagSvc.Detach(c.Request.Context(), metricID, tagID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "detached"})
}

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.authsvc.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]authdomain.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) DeleteUser(c *gin.Context) {
	userID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	caller := currentUser(c)
	if caller != nil && caller.ID == userID {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.authsvc.DeleteUser(c.Request.Context(), userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RunReports triggers a digest run outside the regular schedule.
func (s *Server) RunReports(c *gin.Context) {
	if err := s.reports.RunOnce(c.Request.Context()); err != nil {
		AbortWithError(c, ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
