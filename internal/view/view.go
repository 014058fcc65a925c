// Package view описывает внешнее представление сущностей для REST и gRPC.
package view

import (
	"time"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/service"
)

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromAppointment(a *model.Appointment) Appointment {
	return Appointment{
		ID:        a.ID.String(),
		PatientID: a.PatientID.String(),
		DoctorID:  a.DoctorID.String(),
		Date:      calendar.DateKey(a.Date),
		Time:      calendar.FormatTimeOfDay(a.Time),
		Status:    string(a.Status),
		Paid:      a.Paid,
		CreatedAt: a.CreatedAt,
	}
}

func FromAppointments(items []model.Appointment) []Appointment {
	out := make([]Appointment, 0, len(items))
	for i := range items {
		out = append(out, FromAppointment(&items[i]))
	}
	return out
}

type Doctor struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	Gender         string     `json:"gender,omitempty"`
	Specialization string     `json:"specialization"`
	Qualification  string     `json:"qualification,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Fees           float64    `json:"fees"`
	Rating         float64    `json:"rating"`
	Tags           []string   `json:"tags"`
	Schedules      []string   `json:"schedules"`
	Status         string     `json:"status"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
}

func FromDoctor(d *model.Doctor) Doctor {
	v := Doctor{
		ID:             d.ID.String(),
		UserID:         d.UserID.String(),
		Specialization: d.Specialization,
		Qualification:  d.Qualification,
		Bio:            d.Bio,
		Fees:           d.Fee,
		Rating:         d.Rating,
		Tags:           nonNil(d.Tags),
		Schedules:      nonNil(d.Schedules),
		Status:         string(d.Status),
		ApprovedAt:     d.ApprovedAt,
	}
	if d.User != nil {
		v.FullName = d.User.FullName
		v.Email = d.User.Email
		v.Gender = d.User.Gender
	}
	return v
}

func FromDoctors(items []model.Doctor) []Doctor {
	out := make([]Doctor, 0, len(items))
	for i := range items {
		out = append(out, FromDoctor(&items[i]))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Gender   string `json:"gender,omitempty"`
}

func FromUser(u *model.User) User {
	return User{ID: u.ID.String(), FullName: u.FullName, Email: u.Email, Gender: u.Gender}
}

type Payment struct {
	ID            string       `json:"id"`
	AppointmentID string       `json:"appointmentId"`
	Amount        float64      `json:"amount"`
	PaidAt        time.Time    `json:"paidAt"`
	Appointment   *Appointment `json:"appointment,omitempty"`
}

func FromPayment(p *model.Payment) Payment {
	v := Payment{
		ID:            p.ID.String(),
		AppointmentID: p.AppointmentID.String(),
		Amount:        p.Amount,
		PaidAt:        p.PaidAt,
	}
	if p.Appointment != nil {
		a := FromAppointment(p.Appointment)
		v.Appointment = &a
	}
	return v
}

type Notification struct {
	ID            string    `json:"id"`
	RecipientType string    `json:"recipientType"`
	RecipientID   string    `json:"recipientId"`
	Kind          string    `json:"kind"`
	Message       string    `json:"message"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromNotification(n *model.Notification) Notification {
	v := Notification{
		ID:            n.ID.String(),
		RecipientType: string(n.RecipientType),
		RecipientID:   n.RecipientID.String(),
		Kind:          string(n.Kind),
		Message:       n.Message,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt,
	}
	if n.AppointmentID != nil {
		v.AppointmentID = n.AppointmentID.String()
	}
	return v
}

func FromNotifications(items []model.Notification) []Notification {
	out := make([]Notification, 0, len(items))
	for i := range items {
		out = append(out, FromNotification(&items[i]))
	}
	return out
}

// Dashboard отдаёт дневную статистику объектом "дата → количество".
// Ключи в формате YYYY-MM-DD, поэтому json.Marshal пишет их по порядку дат.
type Dashboard struct {
	TotalDoctors         int64            `json:"totalDoctors"`
	PendingDoctors       int64            `json:"pendingDoctors"`
	TotalPatients        int64            `json:"totalPatients"`
	TotalAppointments    int64            `json:"totalAppointments"`
	TotalPayments        int64            `json:"totalPayments"`
	TotalAmountCollected float64          `json:"totalAmountCollected"`
	DailyAppointments    map[string]int64 `json:"dailyAppointments"`
}

func FromDashboard(d *service.Dashboard) Dashboard {
	daily := make(map[string]int64, len(d.DailyAppointments))
	for _, dc := range d.DailyAppointments {
		daily[dc.Date] = dc.Count
	}
	return Dashboard{
		TotalDoctors:         d.TotalDoctors,
		PendingDoctors:       d.PendingDoctors,
		TotalPatients:        d.TotalPatients,
		TotalAppointments:    d.TotalAppointments,
		TotalPayments:        d.TotalPayments,
		TotalAmountCollected: d.TotalAmountCollected,
		DailyAppointments:    daily,
	}
}
