package handlers

import "ClinicDesk/internal/model"

// RegisterRequest - форма регистрации.
type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=Male Female"`
	Address         string `json:"address" validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AuthResponse - ответ всех POST /Auth/*.
type AuthResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
	Token     string `json:"token,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
}

type AppointmentRequest struct {
	DoctorID        int64  `json:"doctorId" validate:"gt=0"`
	PatientName     string `json:"patientName" validate:"required,min=3,max=100"`
	PatientEmail    string `json:"patientEmail" validate:"required,email"`
	PatientPhone    string `json:"patientPhone" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required,isodate"`
	AppointmentTime string `json:"appointmentTime" validate:"required,timeslot"`
}

func (a AppointmentRequest) toModel() model.Appointment {
	date := a.AppointmentDate
	if len(date) > 10 {
		date = date[:10]
	}
	return model.Appointment{
		DoctorID:        a.DoctorID,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
		PatientPhone:    a.PatientPhone,
		AppointmentDate: date,
		AppointmentTime: a.AppointmentTime,
	}
}

type PrescriptionRequest struct {
	AppointmentID int64  `json:"appointmentId" validate:"gt=0"`
	Medication    string `json:"medication" validate:"required,max=500"`
	Instructions  string `json:"instructions" validate:"required,max=1000"`
	Description   string `json:"description" validate:"max=500"`
}

type InvoiceRequest struct {
	AppointmentID   int64   `json:"appointmentId" validate:"gt=0"`
	ConsultationFee float64 `json:"consultationFee" validate:"gt=0"`
}

type OPFormRequest struct {
	AppointmentID  int64  `json:"appointmentId" validate:"gt=0"`
	Symptoms       string `json:"symptoms" validate:"required,max=1000"`
	Diagnosis      string `json:"diagnosis" validate:"required,max=1000"`
	Treatment      string `json:"treatment" validate:"required,max=1000"`
	Remarks        string `json:"remarks" validate:"max=1000"`
	PrescriptionID *int64 `json:"prescriptionId"`
	InvoiceID      *int64 `json:"invoiceId"`
}
