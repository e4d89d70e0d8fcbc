package model

import "time"

// Статусы приёма.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type Doctor struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	FullName       string `gorm:"not null" json:"fullName" validate:"required,max=100"`
	Specialization string `gorm:"not null" json:"specialization" validate:"required,max=100"`
	Email          string `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female"`
	IsAvailable    bool   `gorm:"not null" json:"isAvailable"`
}

type Appointment struct {
	ID       int64   `gorm:"primaryKey" json:"id"`
	DoctorID int64   `gorm:"not null;index" json:"doctorId"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"doctor,omitempty"`

	PatientName  string `gorm:"not null" json:"patientName"`
	PatientEmail string `gorm:"not null;index" json:"patientEmail"`
	PatientPhone string `json:"patientPhone"`
	// YYYY-MM-DD
	AppointmentDate string `gorm:"not null;index" json:"appointmentDate"`
	AppointmentTime string `gorm:"not null" json:"appointmentTime"`
	Status          string `gorm:"not null;default:Pending" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type Prescription struct {
	ID            int64        `gorm:"primaryKey" json:"id"`
	AppointmentID int64        `gorm:"not null;uniqueIndex" json:"appointmentId"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Medication    string       `gorm:"not null" json:"medication"`
	Instructions  string       `gorm:"not null" json:"instructions"`
	Description   string       `json:"description,omitempty"`
	PdfPath       string       `json:"pdfPath"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

type Invoice struct {
	ID              int64        `gorm:"primaryKey" json:"id"`
	AppointmentID   int64        `gorm:"not null;uniqueIndex" json:"appointmentId"`
	Appointment     *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ConsultationFee float64      `gorm:"not null" json:"consultationFee"`
	PdfPath         string       `json:"pdfPath"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

// OPForm - амбулаторная карта, связывает приём с (необязательными) рецептом и счётом.
type OPForm struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	AppointmentID  int64         `gorm:"not null;uniqueIndex" json:"appointmentId"`
	Appointment    *Appointment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"appointment,omitempty"`
	Symptoms       string        `gorm:"not null" json:"symptoms"`
	Diagnosis      string        `gorm:"not null" json:"diagnosis"`
	Treatment      string        `gorm:"not null" json:"treatment"`
	Remarks        string        `json:"remarks,omitempty"`
	PrescriptionID *int64        `json:"prescriptionId,omitempty"`
	Prescription   *Prescription `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	InvoiceID      *int64        `json:"invoiceId,omitempty"`
	Invoice        *Invoice      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	PdfPath        string        `json:"pdfPath,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}

// Dashboard - агрегаты для сводки; в БД не хранится.
type Dashboard struct {
	TotalDoctors          int64 `json:"totalDoctors"`
	TotalPatients         int64 `json:"totalPatients"`
	TotalAppointments     int64 `json:"totalAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	TotalPrescriptions    int64 `json:"totalPrescriptions"`
	TotalOPForms          int64 `json:"totalOPForms"`
	TotalInvoices         int64 `json:"totalInvoices"`
}

// Country - элемент справочника стран формы регистрации.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// AllModels - список моделей для AutoMigrate.
func AllModels() []any {
	return []any{&User{}, &PasswordReset{}, &Doctor{}, &Appointment{}, &Prescription{}, &Invoice{}, &OPForm{}}
}
