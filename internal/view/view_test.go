package view

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/service"
)

func TestFromAppointment_FormatsDateAndTime(t *testing.T) {
	a := &model.Appointment{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Date:      datatypes.Date(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		Time:      datatypes.NewTime(9, 5, 0, 0),
		Status:    model.AppointmentStatusApproved,
	}
	v := FromAppointment(a)
	if v.Date != "2025-06-01" || v.Time != "09:05" || v.Status != "APPROVED" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestFromDashboard_KeysInDateOrder(t *testing.T) {
	d := &service.Dashboard{
		DailyAppointments: []service.DailyCount{
			{Date: "2024-12-30", Count: 1},
			{Date: "2024-12-31", Count: 0},
			{Date: "2025-01-01", Count: 4},
		},
	}
	b, err := json.Marshal(FromDashboard(d))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	i1 := strings.Index(s, "2024-12-30")
	i2 := strings.Index(s, "2024-12-31")
	i3 := strings.Index(s, "2025-01-01")
	if i1 < 0 || !(i1 < i2 && i2 < i3) {
		t.Fatalf("daily keys out of order: %s", s)
	}
	if !strings.Contains(s, `"totalAmountCollected":0`) {
		t.Fatalf("expected zero total, got %s", s)
	}
}

func TestFromDoctor_NilSlicesBecomeEmpty(t *testing.T) {
	d := &model.Doctor{ID: uuid.New(), User: &model.User{FullName: "Dr X", Email: "x@example.com"}}
	b, err := json.Marshal(FromDoctor(d))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"tags":[]`) || !strings.Contains(string(b), `"fullName":"Dr X"`) {
		t.Fatalf("unexpected json %s", b)
	}
}
