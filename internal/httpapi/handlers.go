package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/service"
	"github.com/Leganyst/clinic-booking/internal/view"
)

// Pinger проверяет доступность хранилища для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler держит сервисы ядра, которые обслуживает REST.
type Handler struct {
	Identity      *service.IdentityService
	Doctors       *service.DoctorService
	Appointments  *service.AppointmentService
	Payments      *service.PaymentService
	Dashboard     *service.DashboardService
	Notifications *service.NotificationService
	Health        Pinger
	Log           *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
	UserID    string    `json:"userId"`
	ProfileID string    `json:"profileId"`
	FullName  string    `json:"fullName"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	res, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Role:      string(res.Principal.Role),
		UserID:    res.Principal.UserID.String(),
		ProfileID: res.Principal.ProfileID.String(),
		FullName:  res.User.FullName,
	})
}

type registerPatientRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Gender   string `json:"gender"`
}

func (h *Handler) registerPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	u, err := h.Identity.RegisterPatient(c.Request.Context(), service.RegisterPatientInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, view.FromUser(u))
}

func (h *Handler) patientProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Identity.PatientProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromUser(u))
}

type updateProfileRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Gender   string `json:"gender"`
}

func (h *Handler) updatePatientProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok || !allowSelf(c, id) {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	u, err := h.Identity.UpdatePatientProfile(c.Request.Context(), id, service.UpdateProfileInput{
		FullName: req.FullName,
		Gender:   req.Gender,
	})
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromUser(u))
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok || !allowSelf(c, id) {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	err := h.Identity.ChangePassword(c.Request.Context(), id, service.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

type registerDoctorRequest struct {
	FullName       string   `json:"fullName" binding:"required"`
	Email          string   `json:"email" binding:"required"`
	Password       string   `json:"password" binding:"required"`
	Gender         string   `json:"gender"`
	Specialization string   `json:"specialization" binding:"required"`
	Qualification  string   `json:"qualification"`
	Bio            string   `json:"bio"`
	Fees           float64  `json:"fees"`
	Rating         float64  `json:"rating"`
	Tags           []string `json:"tags"`
	Schedules      []string `json:"schedules"`
}

func (h *Handler) registerDoctor(c *gin.Context) {
	var req registerDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	d, err := h.Doctors.Register(c.Request.Context(), service.RegisterDoctorInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Password:       req.Password,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		Bio:            req.Bio,
		Fee:            req.Fees,
		Rating:         req.Rating,
		Tags:           req.Tags,
		Schedules:      req.Schedules,
	})
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, view.FromDoctor(d))
}

func (h *Handler) doctorProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.Doctors.Profile(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromDoctor(d))
}

func (h *Handler) searchDoctors(c *gin.Context) {
	items, err := h.Doctors.Search(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromDoctors(items))
}

type bookRequest struct {
	UserID   string `form:"userId" binding:"omitempty,uuid"`
	DoctorID string `form:"doctorId" binding:"required,uuid"`
	Date     string `form:"date" binding:"required"`
	Time     string `form:"time" binding:"required"`
}

// bookAppointment принимает параметры запроса, как исходный клиент.
// Пациент записывает только себя; userId можно не передавать.
func (h *Handler) bookAppointment(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendValidationError(c, err.Error())
		return
	}
	p := principal(c)
	patientID := p.UserID
	if req.UserID != "" && req.UserID != p.UserID.String() {
		sendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Access denied",
			"Patients can only book appointments for themselves")
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		sendValidationError(c, err.Error())
		return
	}
	tod, err := calendar.ParseTimeOfDay(req.Time)
	if err != nil {
		sendValidationError(c, err.Error())
		return
	}

	a, err := h.Appointments.Book(c.Request.Context(), service.BookInput{
		PatientID: patientID,
		DoctorID:  uuid.MustParse(req.DoctorID),
		Date:      date,
		Time:      tod,
	})
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, view.FromAppointment(a))
}

func (h *Handler) doctorAppointments(c *gin.Context) {
	id, ok := pathID(c, "doctorId")
	if !ok {
		return
	}
	if p := principal(c); !p.Is(auth.RoleAdmin) && !(p.Is(auth.RoleDoctor) && p.ProfileID == id) {
		forbid(c, "You can only list your own appointments")
		return
	}
	items, err := h.Appointments.ListByDoctor(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromAppointments(items))
}

func (h *Handler) patientAppointments(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if !allowSelf(c, id) {
		return
	}
	items, err := h.Appointments.ListByPatient(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromAppointments(items))
}

func (h *Handler) approveAppointment(c *gin.Context) {
	h.transition(c, h.Appointments.Approve)
}

func (h *Handler) completeAppointment(c *gin.Context) {
	h.transition(c, h.Appointments.Complete)
}

func (h *Handler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Appointment, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cur, err := h.Appointments.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	if !h.allowAttendingDoctor(c, cur) {
		return
	}
	a, err := fn(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromAppointment(a))
}

func (h *Handler) pay(c *gin.Context) {
	id, ok := pathID(c, "appointmentId")
	if !ok {
		return
	}
	a, err := h.Appointments.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	if !allowPatientOf(c, a) {
		return
	}
	p, err := h.Payments.Pay(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromPayment(p))
}

func (h *Handler) receipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Payments.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	a, err := h.Appointments.Get(c.Request.Context(), p.AppointmentID)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	if !allowParticipant(c, a) {
		return
	}
	pdf, err := h.Payments.Receipt(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) allAppointments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(calendar.DefaultPageSize)))
	res, err := h.Appointments.ListAll(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, calendar.Map(res, func(a model.Appointment) view.Appointment {
		return view.FromAppointment(&a)
	}))
}

func (h *Handler) approveDoctor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.Doctors.Approve(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromDoctor(d))
}

func (h *Handler) pendingDoctors(c *gin.Context) {
	items, err := h.Doctors.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromDoctors(items))
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.Dashboard.Get(c.Request.Context())
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromDashboard(d))
}

func (h *Handler) listNotifications(c *gin.Context) {
	rt, ok := model.ParseRecipientType(c.Param("recipientType"))
	if !ok {
		sendValidationError(c, fmt.Sprintf("unknown recipient type %q", c.Param("recipientType")))
		return
	}
	id, ok := pathID(c, "recipientId")
	if !ok {
		return
	}
	if !allowRecipient(c, rt, id) {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unreadOnly", "false"))

	items, err := h.Notifications.List(c.Request.Context(), rt, id, unreadOnly)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromNotifications(items))
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cur, err := h.Notifications.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	if !allowRecipient(c, cur.RecipientType, cur.RecipientID) {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, view.FromNotification(n))
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Health.Ping(ctx); err != nil {
		h.Log.Warn("http.health_degraded", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		sendValidationError(c, fmt.Sprintf("invalid %s %q", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}
