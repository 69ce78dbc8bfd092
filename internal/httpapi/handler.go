package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendance/internal/apperr"
	"attendance/internal/ledger"
	"attendance/internal/model"
	"attendance/internal/roster"
	"attendance/internal/stats"
)

// Handler is the access facade: it translates HTTP requests into service
// calls and maps errors to statuses. It holds no state of its own.
type Handler struct {
	roster *roster.Service
	ledger *ledger.Service
	stats  *stats.Service
}

func New(roster *roster.Service, ledger *ledger.Service, stats *stats.Service) *Handler {
	return &Handler{roster: roster, ledger: ledger, stats: stats}
}

// Register mounts all API routes on the given group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/health", h.Health)

	api.GET("/students", h.ListStudents)
	api.GET("/students/:id", h.GetStudent)
	api.POST("/students", h.CreateStudent)
	api.PUT("/students/:id", h.UpdateStudent)
	api.DELETE("/students/:id", h.DeleteStudent)

	api.GET("/attendance", h.ListAttendance)
	api.POST("/attendance", h.MarkAttendance)
	api.PUT("/attendance/:id", h.UpdateAttendance)
	api.DELETE("/attendance/:id", h.DeleteAttendance)
	api.GET("/attendance/date/:date", h.AttendanceByDate)

	api.GET("/statistics/overview", h.OverviewStats)
	api.GET("/statistics/student/:id", h.StudentStats)
}

// writeError maps the error taxonomy onto the HTTP contract: validation and
// conflicts are the caller's fault (400), missing keys are 404, everything
// else is a store failure (500).
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ---------- Health ----------

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"message":  "Attendance Management API is running",
		"database": "connected",
	})
}

// ---------- Students ----------

type studentRequest struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Course    *string `json:"course"`
}

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.roster.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	student, err := h.roster.Create(c.Request.Context(), req.StudentID, req.Name, req.Email, req.Phone, req.Course)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Student created successfully",
		"student_id": student.StudentID,
	})
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roster.Update(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Phone, req.Course); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student updated successfully"})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

// ---------- Attendance ----------

func (h *Handler) ListAttendance(c *gin.Context) {
	records, err := h.ledger.List(c.Request.Context(), ledger.Filter{
		Date:      c.Query("date"),
		StudentID: c.Query("student_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// MarkAttendance accepts either a single record object or an array of them.
// Both shapes dispatch into the same bulk upsert, a single object as a
// batch of one.
func (h *Handler) MarkAttendance(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var marks []model.Mark
	if isJSONArray(body) {
		if err := unmarshalJSON(body, &marks); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var single model.Mark
		if err := unmarshalJSON(body, &single); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		marks = []model.Mark{single}
	}

	if err := h.ledger.Mark(c.Request.Context(), marks); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Attendance marked successfully"})
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func unmarshalJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

type attendanceUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (h *Handler) UpdateAttendance(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req attendanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.ledger.Update(c.Request.Context(), id, req.Status, req.Notes); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance updated successfully"})
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}

// recordID parses the :id path param. A non-numeric id can never address a
// record, so it reports 404 rather than 400.
func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance record not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) AttendanceByDate(c *gin.Context) {
	records, err := h.ledger.ByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// ---------- Statistics ----------

func (h *Handler) OverviewStats(c *gin.Context) {
	overview, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) StudentStats(c *gin.Context) {
	st, err := h.stats.ForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
