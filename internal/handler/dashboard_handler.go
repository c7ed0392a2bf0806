package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edufin/finboard-backend/internal/middleware"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/policy"
	"github.com/edufin/finboard-backend/internal/response"
	"github.com/edufin/finboard-backend/internal/service"
	"github.com/edufin/finboard-backend/internal/validator"
)

// DashboardHandler exposes the ten analytical views of the ledger. Each
// endpoint binds the shared filter envelope from query parameters, scopes it
// to the caller's visibility and delegates to the aggregation service.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, log: log}
}

// scopeCampus confines the query to campuses the caller may see. A caller
// without the all-campuses capability and no explicit filter is silently
// scoped to their own campus; an explicit out-of-scope campus is denied.
func scopeCampus(claims *service.Claims, q *model.DashboardQuery) bool {
	sub := claims.Subject()
	if q.CampusID == "" {
		if policy.Evaluate(sub, policy.Resource{Type: policy.ResourceCampus}, policy.ActionView) {
			return true
		}
		q.CampusID = sub.CampusID
		return q.CampusID != ""
	}
	return policy.Evaluate(sub, policy.Resource{Type: policy.ResourceCampus, ID: q.CampusID}, policy.ActionView)
}

// scopeClass checks an explicit class filter against the caller's visibility.
func scopeClass(claims *service.Claims, classID string) bool {
	if classID == "" {
		return true
	}
	return policy.Evaluate(claims.Subject(), policy.Resource{Type: policy.ResourceClass, ID: classID}, policy.ActionView)
}

// bindEnvelope binds and scopes the common filter envelope. Returns false if
// a response was already written.
func (h *DashboardHandler) bindEnvelope(c *gin.Context, q *model.DashboardQuery) bool {
	if fields := validator.BindQuery(c, q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return false
	}
	if !scopeCampus(claims, q) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return false
	}
	return true
}

// fail maps service errors onto the response taxonomy. Storage failures are
// logged in full and surfaced opaquely.
func (h *DashboardHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, model.ErrInvalidDateRange) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDateRange)
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Dashboard query failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// GetSummary godoc
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetSummary(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetClassType godoc
// GET /api/dashboard/class-type
func (h *DashboardHandler) GetClassType(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetClassType(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetMonthlyTrend godoc
// GET /api/dashboard/monthly
func (h *DashboardHandler) GetMonthlyTrend(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetMonthlyTrend(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetCampusIncome godoc
// GET /api/dashboard/campus-income
func (h *DashboardHandler) GetCampusIncome(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetCampusIncome(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetCourseTypeIncome godoc
// GET /api/dashboard/course-type-income
func (h *DashboardHandler) GetCourseTypeIncome(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetCourseTypeIncome(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetTeacherRank godoc
// GET /api/dashboard/teacher-rank
func (h *DashboardHandler) GetTeacherRank(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetTeacherRank(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetClassRank godoc
// GET /api/dashboard/class-rank
func (h *DashboardHandler) GetClassRank(c *gin.Context) {
	var q model.DashboardQuery
	if !h.bindEnvelope(c, &q) {
		return
	}
	data, err := h.dashboardService.GetClassRank(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetPaymentDetails godoc
// GET /api/dashboard/payment-details
func (h *DashboardHandler) GetPaymentDetails(c *gin.Context) {
	var q model.DetailQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !scopeCampus(claims, &q.DashboardQuery) || !scopeClass(claims, q.ClassID) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}
	data, err := h.dashboardService.GetPaymentDetails(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetRefundDetails godoc
// GET /api/dashboard/refund-details
func (h *DashboardHandler) GetRefundDetails(c *gin.Context) {
	var q model.DetailQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !scopeCampus(claims, &q.DashboardQuery) || !scopeClass(claims, q.ClassID) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}
	data, err := h.dashboardService.GetRefundDetails(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}

// GetPivot godoc
// GET /api/dashboard/pivot
func (h *DashboardHandler) GetPivot(c *gin.Context) {
	var q model.PivotQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !scopeCampus(claims, &q.DashboardQuery) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}
	for _, classID := range q.ClassIDs {
		if !scopeClass(claims, classID) {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
	}
	// Homeroom teachers with no explicit column selection see their own
	// classes only. A teacher with no classes assigned gets an empty pivot
	// rather than falling through to campus-wide scope.
	if len(q.ClassIDs) == 0 && claims.Role == policy.RoleTeacher {
		if len(claims.ClassIDs) == 0 {
			response.Success(c, &model.PivotData{
				Columns: []model.PivotColumn{{ClassID: model.PivotTotalColumn, ClassDisplay: "Total"}},
				Rows:    []model.PivotRow{},
				Totals:  map[string]int64{model.PivotTotalColumn: 0},
			})
			return
		}
		q.ClassIDs = claims.ClassIDs
	}
	data, err := h.dashboardService.GetPivot(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, data)
}
