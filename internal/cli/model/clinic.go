package model

// Dates travel as ISO strings ("2025-03-01" or "2025-03-01T00:00:00"); the backend
// does not always attach a zone, so they are kept as text on the client.

type Doctor struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName" validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female"`
	IsAvailable    bool   `json:"isAvailable"`
}

type Appointment struct {
	ID              int64   `json:"id"`
	DoctorID        int64   `json:"doctorId"`
	PatientName     string  `json:"patientName"`
	PatientEmail    string  `json:"patientEmail"`
	PatientPhone    string  `json:"patientPhone"`
	AppointmentDate string  `json:"appointmentDate"`
	AppointmentTime string  `json:"appointmentTime"`
	Status          string  `json:"status"`
	Doctor          *Doctor `json:"doctor,omitempty"`
}

// Date returns the calendar part (YYYY-MM-DD) of AppointmentDate.
func (a Appointment) Date() string {
	if len(a.AppointmentDate) >= 10 {
		return a.AppointmentDate[:10]
	}
	return a.AppointmentDate
}

// UnknownDoctor подставляется, когда приём пришёл без врача.
const UnknownDoctor = "Unknown Doctor"

// DoctorName returns the doctor's full name, or UnknownDoctor when the appointment was loaded without it.
func (a Appointment) DoctorName() string {
	if a.Doctor == nil || a.Doctor.FullName == "" {
		return UnknownDoctor
	}
	return a.Doctor.FullName
}

type AppointmentCreate struct {
	DoctorID        int64  `json:"doctorId" validate:"gt=0"`
	PatientName     string `json:"patientName" validate:"required,min=3,max=100"`
	PatientEmail    string `json:"patientEmail" validate:"required,email"`
	PatientPhone    string `json:"patientPhone" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required,isodate"`
	AppointmentTime string `json:"appointmentTime" validate:"required,timeslot"`
}

type Prescription struct {
	ID            int64  `json:"id"`
	AppointmentID int64  `json:"appointmentId"`
	Medication    string `json:"medication"`
	Instructions  string `json:"instructions"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"createdAt"`
	PdfPath       string `json:"pdfPath"`
	// заполняются на клиенте из записи приёма
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
}

type PrescriptionCreate struct {
	AppointmentID int64  `json:"appointmentId" validate:"gt=0"`
	Medication    string `json:"medication" validate:"required,max=500"`
	Instructions  string `json:"instructions" validate:"required,max=1000"`
	Description   string `json:"description,omitempty" validate:"max=500"`
}

type Invoice struct {
	ID              int64   `json:"id"`
	AppointmentID   int64   `json:"appointmentId"`
	ConsultationFee float64 `json:"consultationFee"`
	PdfPath         string  `json:"pdfPath"`
	CreatedAt       string  `json:"createdAt"`
	// заполняются на клиенте из записи приёма
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
}

type InvoiceCreate struct {
	AppointmentID   int64   `json:"appointmentId" validate:"gt=0"`
	ConsultationFee float64 `json:"consultationFee" validate:"gt=0"`
}

// OPFormAppointment is the trimmed appointment embedded in an OP form.
type OPFormAppointment struct {
	ID          int64             `json:"id"`
	PatientName string            `json:"patientName"`
	Doctor      *OPFormDoctorName `json:"doctor,omitempty"`
}

type OPFormDoctorName struct {
	FullName string `json:"fullName"`
}

// OPForm - амбулаторная карта приёма.
type OPForm struct {
	ID             int64              `json:"id,omitempty"`
	AppointmentID  int64              `json:"appointmentId" validate:"gt=0"`
	Appointment    *OPFormAppointment `json:"appointment,omitempty" validate:"-"`
	Symptoms       string             `json:"symptoms" validate:"required,max=1000"`
	Diagnosis      string             `json:"diagnosis" validate:"required,max=1000"`
	Treatment      string             `json:"treatment" validate:"required,max=1000"`
	Remarks        string             `json:"remarks,omitempty" validate:"max=500"`
	PrescriptionID *int64             `json:"prescriptionId,omitempty"`
	InvoiceID      *int64             `json:"invoiceId,omitempty"`
	PdfPath        string             `json:"pdfPath,omitempty"`
	CreatedAt      string             `json:"createdAt,omitempty"`
}

type Dashboard struct {
	TotalDoctors          int `json:"totalDoctors"`
	TotalPatients         int `json:"totalPatients"`
	TotalAppointments     int `json:"totalAppointments"`
	PendingAppointments   int `json:"pendingAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	TotalPrescriptions    int `json:"totalPrescriptions"`
	TotalOPForms          int `json:"totalOPForms"`
	TotalInvoices         int `json:"totalInvoices"`
}
