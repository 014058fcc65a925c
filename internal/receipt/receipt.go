// Package receipt рендерит PDF-квитанцию об оплате приёма.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Details — всё, что печатается в квитанции.
type Details struct {
	PaymentID      string
	AppointmentID  string
	PatientName    string
	PatientEmail   string
	DoctorName     string
	Specialization string
	Date           string
	Time           string
	Status         string
	Amount         float64
	PaidAt         time.Time
}

const title = "Clinic Booking"

// Render возвращает PDF-документ.
func Render(d Details) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payment receipt "+d.PaymentID, true)
	pdf.SetCreationDate(d.PaidAt)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Payment Receipt", "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 9, label, "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 9, tr(value), "1", 1, "", false, 0, "")
	}

	row("Receipt No.", d.PaymentID)
	row("Appointment", d.AppointmentID)
	row("Patient", fmt.Sprintf("%s <%s>", d.PatientName, d.PatientEmail))
	row("Doctor", d.DoctorName)
	row("Specialization", d.Specialization)
	row("Date / Time", d.Date+" "+d.Time)
	row("Appointment status", d.Status)
	row("Paid at", d.PaidAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	row("Amount", fmt.Sprintf("%.2f", d.Amount))

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 8, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
