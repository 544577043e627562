package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/session"
	"github.com/subodh556/AI-Teacher-sub000/internal/store"
)

// maxDefinitionBytes bounds an imported assessment body.
const maxDefinitionBytes = 4 << 20

type startSessionRequest struct {
	AssessmentID     string   `json:"assessment_id" binding:"required"`
	UserID           string   `json:"user_id" binding:"required"`
	Areas            []string `json:"areas"`
	TimeLimitSeconds int      `json:"time_limit_seconds" binding:"min=0"`
}

type answerRequest struct {
	QuestionID string          `json:"question_id" binding:"required"`
	Answer     json.RawMessage `json:"answer"`
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{"status": "ok", "live_sessions": s.svc.Live()})
}

func (s *Server) listAssessments(c *gin.Context) {
	list, err := s.svc.Assessments(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []store.AssessmentInfo{}
	}
	success(c, list)
}

func (s *Server) getAssessment(c *gin.Context) {
	o, err := s.svc.Assessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, o)
}

// importAssessment accepts a JSON definition, or YAML when the content type
// says so.
func (s *Server) importAssessment(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDefinitionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("definition exceeds %d bytes", tooLarge.Limit))
			return
		}
		badRequest(c, "read body: "+err.Error())
		return
	}
	format := question.FormatJSON
	switch c.ContentType() {
	case "application/yaml", "application/x-yaml", "text/yaml":
		format = question.FormatYAML
	}
	a, err := question.Decode(data, format)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.svc.Import(c.Request.Context(), a); err != nil {
		s.fail(c, err)
		return
	}
	created(c, gin.H{"id": a.ID, "question_count": len(a.Questions)})
}

func (s *Server) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	snap, err := s.svc.Start(c.Request.Context(), assess.StartRequest{
		AssessmentID: req.AssessmentID,
		UserID:       req.UserID,
		Areas:        req.Areas,
		TimeLimit:    time.Duration(req.TimeLimitSeconds) * time.Second,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, snap)
}

func (s *Server) getSession(c *gin.Context) {
	snap, err := s.svc.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, snap)
}

func (s *Server) endSession(c *gin.Context) {
	if err := s.svc.End(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.getResult(c)
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	fb, err := s.svc.Answer(c.Request.Context(), c.Param("id"), req.QuestionID, req.Answer)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, fb)
}

func (s *Server) getResult(c *gin.Context) {
	rep, err := s.svc.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, rep)
}

func (s *Server) userGaps(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	g, err := s.svc.UserGaps(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, g)
}

// fail maps a service error to its status code. Unexpected errors are
// logged and reported without detail.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, code, "internal server error")
		return
	}
	fail(c, code, err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, question.ErrMalformedQuestion):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, assess.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionCompleted),
		errors.Is(err, session.ErrNotCurrentQuestion),
		errors.Is(err, assess.ErrInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
