package handler

import (
	"net/http"

	"family-board/internal/middleware"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SurveyHandler struct{ surveys *service.SurveyService }

func NewSurveyHandler(surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// GET /api/family-survey/my-survey
func (h *SurveyHandler) Mine(c *gin.Context) {
	sv, err := h.surveys.Mine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	if sv == nil {
		ok(c, "no survey submitted yet", nil)
		return
	}
	ok(c, "success", sv)
}

// POST /api/family-survey/submit
func (h *SurveyHandler) Submit(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	if ident == nil {
		fail(c, service.ErrUnauthenticated)
		return
	}
	var req model.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sv, err := h.surveys.Submit(c.Request.Context(), ident, req)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "survey saved"
	if sv.SurveyCompleted {
		msg = "survey completed successfully"
	}
	ok(c, msg, sv)
}

// GET /api/family-survey/completion-status
func (h *SurveyHandler) CompletionStatus(c *gin.Context) {
	done, err := h.surveys.CompletionStatus(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", done)
}

type surveyLister func(*service.SurveyService, *gin.Context, *model.Identity) ([]model.SurveyResponse, error)

// list adapts an admin listing to a handler.
func (h *SurveyHandler) list(fn surveyLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := fn(h.surveys, c, middleware.CurrentIdentity(c))
		if err != nil {
			fail(c, err)
			return
		}
		if out == nil {
			out = []model.SurveyResponse{}
		}
		ok(c, "success", out)
	}
}

// GET /api/family-survey/admin/completed
func (h *SurveyHandler) Completed() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.Completed(c.Request.Context(), id)
	})
}

// GET /api/family-survey/admin/incomplete
func (h *SurveyHandler) Incomplete() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.Incomplete(c.Request.Context(), id)
	})
}

// GET /api/family-survey/admin/meeting-participants
func (h *SurveyHandler) MeetingParticipants() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.MeetingParticipants(c.Request.Context(), id)
	})
}

// GET /api/family-survey/admin/counseling-interested
func (h *SurveyHandler) CounselingInterested() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.CounselingInterested(c.Request.Context(), id)
	})
}

// GET /api/family-survey/admin/living-alone
func (h *SurveyHandler) LivingAlone() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.LivingAlone(c.Request.Context(), id)
	})
}

// GET /api/family-survey/admin/by-relationship/:relationship
func (h *SurveyHandler) ByRelationship() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.ByRelationship(c.Request.Context(), id, c.Param("relationship"))
	})
}

// GET /api/family-survey/admin/grief-stage/:stage
func (h *SurveyHandler) ByGriefStage() gin.HandlerFunc {
	return h.list(func(s *service.SurveyService, c *gin.Context, id *model.Identity) ([]model.SurveyResponse, error) {
		return s.ByGriefStage(c.Request.Context(), id, c.Param("stage"))
	})
}

// GET /api/family-survey/admin/statistics
func (h *SurveyHandler) Statistics(c *gin.Context) {
	report, err := h.surveys.Statistics(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "success", report)
}

// GET /api/family-survey/admin/export
func (h *SurveyHandler) Export(c *gin.Context) {
	data, err := h.surveys.Export(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="family-surveys.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GET /api/family-survey/admin/user/:userId
func (h *SurveyHandler) ByUser(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	userID, err := pathID(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}
	sv, err := h.surveys.ByUser(c.Request.Context(), ident, userID)
	if err != nil {
		fail(c, err)
		return
	}
	if sv == nil {
		ok(c, "this user has no survey", nil)
		return
	}
	ok(c, "success", sv)
}

// POST /api/family-survey/admin/:surveyId/complete
func (h *SurveyHandler) Complete(c *gin.Context) {
	id, err := pathID(c, "surveyId")
	if err != nil {
		fail(c, err)
		return
	}
	sv, err := h.surveys.Complete(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "survey marked complete", sv)
}

// DELETE /api/family-survey/admin/:surveyId
func (h *SurveyHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "surveyId")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.surveys.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "survey deleted", nil)
}
