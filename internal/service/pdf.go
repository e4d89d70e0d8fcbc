package service

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"ClinicDesk/internal/model"
)

const clinicTitle = "ClinicDesk"

// pdfDoc - тонкая обёртка над fpdf с общей шапкой документа.
type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFDoc(title string) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator(clinicTitle, true)
	pdf.AddPage()
	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, clinicTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, d.tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	return d
}

// field печатает строку "label: value".
func (d *pdfDoc) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(45, 7, d.tr(label+":"), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.MultiCell(0, 7, d.tr(value), "", "L", false)
}

func (d *pdfDoc) section(title, body string) {
	if body == "" {
		return
	}
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.Cell(0, 8, d.tr(title))
	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.MultiCell(0, 6, d.tr(body), "", "L", false)
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *pdfDoc) appointment(a *model.Appointment) {
	if a == nil {
		return
	}
	d.field("Patient", a.PatientName)
	d.field("Email", a.PatientEmail)
	if a.Doctor != nil {
		d.field("Doctor", a.Doctor.FullName)
		d.field("Specialization", a.Doctor.Specialization)
	}
	d.field("Date", a.AppointmentDate)
	d.field("Time", a.AppointmentTime)
}

func renderPrescription(p *model.Prescription) ([]byte, error) {
	d := newPDFDoc("Prescription")
	d.field("Prescription #", fmt.Sprint(p.ID))
	d.appointment(p.Appointment)
	d.field("Issued", p.CreatedAt.Format("2006-01-02"))
	d.section("Medication", p.Medication)
	d.section("Instructions", p.Instructions)
	d.section("Notes", p.Description)
	return d.bytes()
}

func renderInvoice(inv *model.Invoice) ([]byte, error) {
	d := newPDFDoc("Invoice")
	d.field("Invoice #", fmt.Sprint(inv.ID))
	d.appointment(inv.Appointment)
	d.field("Issued", inv.CreatedAt.Format("2006-01-02"))
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(120, 9, "Consultation fee", "1", 0, "L", false, 0, "")
	d.pdf.CellFormat(0, 9, fmt.Sprintf("%.2f", inv.ConsultationFee), "1", 1, "R", false, 0, "")
	return d.bytes()
}

func renderOPForm(f *model.OPForm) ([]byte, error) {
	d := newPDFDoc("Outpatient Form")
	d.field("OP form #", fmt.Sprint(f.ID))
	d.appointment(f.Appointment)
	d.section("Symptoms", f.Symptoms)
	d.section("Diagnosis", f.Diagnosis)
	d.section("Treatment", f.Treatment)
	d.section("Remarks", f.Remarks)
	return d.bytes()
}
