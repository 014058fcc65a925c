package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/model"
)

// Проверки владения. Администратор проходит любую из них.

func forbid(c *gin.Context, message string) {
	sendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Access denied", message)
}

// allowSelf пропускает владельца учётки userID.
func allowSelf(c *gin.Context, userID uuid.UUID) bool {
	p := principal(c)
	if p.Is(auth.RoleAdmin) || p.UserID == userID {
		return true
	}
	forbid(c, "You can only access your own account")
	return false
}

// allowAttendingDoctor пропускает врача записи, если он допущен к приёму.
func (h *Handler) allowAttendingDoctor(c *gin.Context, a *model.Appointment) bool {
	p := principal(c)
	if p.Is(auth.RoleAdmin) {
		return true
	}
	if !p.Is(auth.RoleDoctor) || p.ProfileID != a.DoctorID {
		forbid(c, "Only the attending doctor can change this appointment")
		return false
	}
	d, err := h.Doctors.Profile(c.Request.Context(), p.ProfileID)
	if err != nil {
		writeError(c, h.Log, err)
		return false
	}
	if !d.Bookable() {
		forbid(c, "Doctor account is awaiting approval")
		return false
	}
	return true
}

// allowParticipant пропускает пациента и врача записи.
func allowParticipant(c *gin.Context, a *model.Appointment) bool {
	p := principal(c)
	switch {
	case p.Is(auth.RoleAdmin):
		return true
	case p.Is(auth.RolePatient) && p.UserID == a.PatientID:
		return true
	case p.Is(auth.RoleDoctor) && p.ProfileID == a.DoctorID:
		return true
	}
	forbid(c, "You are not a participant of this appointment")
	return false
}

// allowPatientOf пропускает только пациента записи.
func allowPatientOf(c *gin.Context, a *model.Appointment) bool {
	p := principal(c)
	if p.Is(auth.RoleAdmin) || (p.Is(auth.RolePatient) && p.UserID == a.PatientID) {
		return true
	}
	forbid(c, "You can only pay for your own appointments")
	return false
}

// allowRecipient пропускает адресата уведомлений: пациента по UserID,
// врача по ProfileID.
func allowRecipient(c *gin.Context, rt model.RecipientType, id uuid.UUID) bool {
	p := principal(c)
	switch {
	case p.Is(auth.RoleAdmin):
		return true
	case rt == model.RecipientPatient && p.Is(auth.RolePatient) && p.UserID == id:
		return true
	case rt == model.RecipientDoctor && p.Is(auth.RoleDoctor) && p.ProfileID == id:
		return true
	}
	forbid(c, "You can only access your own notifications")
	return false
}
