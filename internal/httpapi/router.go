package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/Leganyst/clinic-booking/internal/auth"
)

// NewRouter собирает REST-маршруты. Вход, регистрация, поиск врачей и
// /health открыты, остальное требует Bearer-токен.
func NewRouter(h *Handler, tokens TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.Log))

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.POST("/user/register", h.registerPatient)
	api.POST("/doctor/register", h.registerDoctor)
	api.GET("/doctor/search", h.searchDoctors)

	secured := api.Group("")
	secured.Use(Authenticate(tokens))

	secured.GET("/user/profile/:id", h.patientProfile)
	secured.PUT("/user/profile/update/:id", h.updatePatientProfile)
	secured.PUT("/user/change-password/:id", h.changePassword)
	secured.GET("/doctor/profile/:id", h.doctorProfile)

	appointments := secured.Group("/appointments")
	{
		appointments.POST("/book", RequireRole(auth.RolePatient), h.bookAppointment)
		appointments.GET("/doctor/:doctorId", h.doctorAppointments)
		appointments.GET("/user/:userId", h.patientAppointments)
		appointments.PUT("/approve/:id", RequireRole(auth.RoleDoctor, auth.RoleAdmin), h.approveAppointment)
		appointments.PUT("/complete/:id", RequireRole(auth.RoleDoctor, auth.RoleAdmin), h.completeAppointment)
	}

	payments := secured.Group("/payments")
	{
		payments.PUT("/pay/:appointmentId", RequireRole(auth.RolePatient, auth.RoleAdmin), h.pay)
		payments.GET("/:id/receipt", h.receipt)
	}

	admin := secured.Group("/admin", RequireRole(auth.RoleAdmin))
	{
		admin.GET("/appointments", h.allAppointments)
		admin.PUT("/approve-doctor/:id", h.approveDoctor)
		admin.GET("/pending", h.pendingDoctors)
		admin.GET("/dashboard", h.dashboard)
	}

	notifications := secured.Group("/notifications")
	{
		notifications.GET("/:recipientType/:recipientId", h.listNotifications)
		notifications.PUT("/mark-as-read/:id", h.markNotificationRead)
	}

	return r
}
