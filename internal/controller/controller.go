package controller

import (
	"errors"
	"exam_hub_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors onto the response envelope.
// Anything unclassified is a 500 and gets logged.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrNotAssigned),
		errors.Is(err, util.ErrExamNotPublished):
		util.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrResultNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrStorageFailure):
		util.Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 || limit > util.MaxLimit {
		limit = util.DefaultLimit
	}
	return page, limit
}
