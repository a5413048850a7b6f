package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	commentdomain "github.com/pulseboard/pulseboard/internal/comment/domain"
)

type commentRequest struct {
	Body string `json:"body"`
}

func (s *Server) ListComments(c *gin.Context) {
	metricID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	comments, err := s.commentSvc.ListByMetric(c.Request.Context(), metricID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if comments == nil {
		comments = []commentdomain.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) CreateComment(c *gin.Context) {
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

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	comment, err := s.commentSvc.Create(c.Request.Context(), metricID, user.ID, req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) UpdateComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	commentID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	comment, err := s.commentSvc.Update(c.Request.Context(), commentID, user.ID, req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (s *Server) DeleteComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	commentID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.commentSvc.Delete(c.Request.Context(), commentID, user.ID, user.IsAdmin()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
