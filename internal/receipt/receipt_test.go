package receipt

import (
	"bytes"
	"testing"
	"time"
)

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(Details{
		PaymentID:      "pay-1",
		AppointmentID:  "appt-1",
		PatientName:    "Anna Müller",
		PatientEmail:   "anna@example.com",
		DoctorName:     "Dr. House",
		Specialization: "Diagnostics",
		Date:           "2025-06-01",
		Time:           "10:30",
		Status:         "PENDING",
		Amount:         750,
		PaidAt:         time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF document")
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small document: %d bytes", len(out))
	}
}
