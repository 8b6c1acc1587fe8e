package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gakkou-tools/kintai/internal/application/service"
	"github.com/gakkou-tools/kintai/internal/domain/allowance"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
	"github.com/gakkou-tools/kintai/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	monthlyService service.MonthlyService
	dayService     service.DayService
	leaveService   service.LeaveService
	exportService  service.ExportService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	monthlyService service.MonthlyService,
	dayService service.DayService,
	leaveService service.LeaveService,
	exportService service.ExportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		monthlyService: monthlyService,
		dayService:     dayService,
		leaveService:   leaveService,
		exportService:  exportService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ActivityResponse is one selectable activity with its eligibility for the
// requested day type.
type ActivityResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	HolidayOnly bool   `json:"holiday_only"`
	Allowed     bool   `json:"allowed"`
	Message     string `json:"message,omitempty"`
}

// SaveDayRequest is the PUT /api/days/:date body. The day type arrives as
// the calendar label; each subset is optional.
type SaveDayRequest struct {
	DayType   string                  `json:"day_type"`
	Schedule  *service.ScheduleInput  `json:"schedule"`
	Allowance *service.AllowanceInput `json:"allowance"`
}

// ReviewMonthRequest is the POST /api/months/:month/reviews/:track body.
type ReviewMonthRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Approve bool   `json:"approve"`
}

// ApplyLeaveRequest is the POST /api/leave body.
type ApplyLeaveRequest struct {
	Date      string `json:"date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required"`
	Duration  string `json:"duration" binding:"required"`
	Reason    string `json:"reason"`
}

// ReviewLeaveRequest is the POST /api/leave/:id/review body.
type ReviewLeaveRequest struct {
	Approve bool `json:"approve"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ListActivities handles GET /api/activities. The work_day query parameter
// selects which eligibility column to evaluate.
func (h *Handlers) ListActivities(c *gin.Context) {
	workDay := c.Query("work_day") == "true"

	var out []ActivityResponse
	for _, act := range allowance.All() {
		elig := allowance.CanSelectActivity(act.ID, workDay)
		out = append(out, ActivityResponse{
			ID:          string(act.ID),
			Label:       act.Label,
			HolidayOnly: act.HolidayOnly,
			Allowed:     elig.Allowed,
			Message:     elig.Message,
		})
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: out})
}

// GetDay handles GET /api/days/:date
func (h *Handlers) GetDay(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}

	view, err := h.dayService.GetDay(c.Request.Context(), actor, userID, date)
	if err != nil {
		h.fail(c, err, "failed to get day")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// SaveDay handles PUT /api/days/:date
func (h *Handlers) SaveDay(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}

	var req SaveDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	in := service.DayInput{
		DayType:   calendar.ParseDayType(req.DayType),
		Schedule:  req.Schedule,
		Allowance: req.Allowance,
	}
	if in.Schedule != nil {
		in.Schedule.Note = utils.SanitizeString(in.Schedule.Note)
	}
	if in.Allowance != nil {
		in.Allowance.Detail = utils.SanitizeString(in.Allowance.Detail)
	}

	res, err := h.dayService.SaveDay(c.Request.Context(), actor, userID, date, in)
	if err != nil {
		h.fail(c, err, "failed to save day")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: res})
}

// GetMonth handles GET /api/months/:month
func (h *Handlers) GetMonth(c *gin.Context) {
	ym, ok := h.monthParam(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}

	view, err := h.dayService.MonthView(c.Request.Context(), userID, ym)
	if err != nil {
		h.fail(c, err, "failed to get month")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// ListStatuses handles GET /api/months/:month/statuses. Privileged callers
// only; supports an optional state filter.
func (h *Handlers) ListStatuses(c *gin.Context) {
	ym, ok := h.monthParam(c)
	if !ok {
		return
	}
	if !actorFrom(c).Privileged {
		h.fail(c, service.ErrForbidden, "")
		return
	}

	state := workflow.State(c.Query("state"))
	if state != "" && !state.IsValid() {
		h.badRequest(c, "invalid state filter")
		return
	}
	limit, offset := pagination(c)

	statuses, err := h.monthlyService.ListByMonth(c.Request.Context(), ym, state, limit, offset)
	if err != nil {
		h.fail(c, err, "failed to list statuses")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: statuses})
}

// SubmitMonth handles POST /api/months/:month/submissions/:track
func (h *Handlers) SubmitMonth(c *gin.Context) {
	ym, ok := h.monthParam(c)
	if !ok {
		return
	}
	track := entity.Track(c.Param("track"))

	st, err := h.monthlyService.Submit(c.Request.Context(), actorFrom(c), ym, track)
	if err != nil {
		h.fail(c, err, "failed to submit month")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: st})
}

// ReviewMonth handles POST /api/months/:month/reviews/:track
func (h *Handlers) ReviewMonth(c *gin.Context) {
	ym, ok := h.monthParam(c)
	if !ok {
		return
	}
	track := entity.Track(c.Param("track"))

	var req ReviewMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	st, err := h.monthlyService.Review(c.Request.Context(), actorFrom(c), req.UserID, ym, track, req.Approve)
	if err != nil {
		h.fail(c, err, "failed to review month")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: st})
}

// ExportMonth handles GET /api/months/:month/export
func (h *Handlers) ExportMonth(c *gin.Context) {
	ym, ok := h.monthParam(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}

	path, err := h.exportService.MonthlyWorkbook(c.Request.Context(), userID, ym)
	if err != nil {
		h.fail(c, err, "failed to export month")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"path": path}})
}

// ApplyLeave handles POST /api/leave
func (h *Handlers) ApplyLeave(c *gin.Context) {
	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	app, err := h.leaveService.Apply(c.Request.Context(), actorFrom(c), date, req.LeaveType, req.Duration, utils.SanitizeString(req.Reason))
	if err != nil {
		h.fail(c, err, "failed to apply for leave")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: app})
}

// ListLeave handles GET /api/leave
func (h *Handlers) ListLeave(c *gin.Context) {
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	apps, err := h.leaveService.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.fail(c, err, "failed to list applications")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: apps})
}

// ListPendingLeave handles GET /api/leave/pending
func (h *Handlers) ListPendingLeave(c *gin.Context) {
	limit, _ := pagination(c)

	apps, err := h.leaveService.ListPending(c.Request.Context(), actorFrom(c), limit)
	if err != nil {
		h.fail(c, err, "failed to list pending applications")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: apps})
}

// LeaveBalance handles GET /api/leave/balance
func (h *Handlers) LeaveBalance(c *gin.Context) {
	actor := actorFrom(c)
	userID, ok := h.subjectUser(c, actor)
	if !ok {
		return
	}

	view, err := h.leaveService.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "failed to get balance")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// ReviewLeave handles POST /api/leave/:id/review
func (h *Handlers) ReviewLeave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid application id")
		return
	}

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	app, err := h.leaveService.Review(c.Request.Context(), actorFrom(c), id, req.Approve)
	if err != nil {
		h.fail(c, err, "failed to review application")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: app})
}

// dateParam parses the :date path parameter.
func (h *Handlers) dateParam(c *gin.Context) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		h.badRequest(c, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// monthParam parses the :month path parameter.
func (h *Handlers) monthParam(c *gin.Context) (calendar.YearMonth, bool) {
	ym, err := calendar.ParseYearMonth(c.Param("month"))
	if err != nil {
		h.badRequest(c, "invalid month, expected YYYY-MM")
		return calendar.YearMonth{}, false
	}
	return ym, true
}

// subjectUser resolves which staff member the request operates on. Plain
// staff may only act on themselves; privileged callers may name anyone via
// the user_id query parameter.
func (h *Handlers) subjectUser(c *gin.Context, actor service.Actor) (string, bool) {
	userID := c.Query("user_id")
	if userID == "" || userID == actor.ID {
		return actor.ID, true
	}
	if !actor.Privileged {
		h.fail(c, service.ErrForbidden, "")
		return "", false
	}
	if err := utils.ValidateUserID(userID); err != nil {
		h.badRequest(c, "invalid user_id")
		return "", false
	}
	return userID, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// fail maps service errors to status codes. Lock and workflow conflicts are
// 409; everything unrecognized is a 500 with a generic message.
func (h *Handlers) fail(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrLocked),
		errors.Is(err, service.ErrDuplicateDay),
		errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrNotEligible):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		if logMsg != "" {
			h.logger.Error(logMsg, "error", err)
		}
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
