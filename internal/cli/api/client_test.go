package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClinicDesk/internal/cli/model"
)

type staticCreds string

func (s staticCreds) Credential() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, h http.HandlerFunc, creds CredentialSource) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(ts.URL+"/api", creds)
}

func TestDo_PassesThrough2xxBodyUnmodified(t *testing.T) {
	raw := []byte("%PDF-1.4\n\x00\x01binary")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Invoice/download/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(raw)
	}, staticCreds("tok"))

	got, err := c.DownloadInvoice(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDo_AttachesBearerAndRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[{"id":1,"fullName":"Dr. Who"}]`))
	}, staticCreds("tok-123"))

	docs, err := c.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Dr. Who", docs[0].FullName)
}

func TestDo_NoCredential_NoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}, staticCreds(""))

	_, err := c.DashboardSummary(context.Background())
	require.NoError(t, err)
}

func TestPublicEndpoints_NeverSendAuthorization(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Empty(t, r.Header.Get("Authorization"), "path %s", r.URL.Path)
		if r.URL.Path == "/api/Auth" {
			_, _ = w.Write([]byte(`[{"code":"IN","name":"India","flag":"🇮🇳"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"isSuccess":true,"token":"x.y.z"}`))
	}, staticCreds("secret"))

	ctx := context.Background()
	_, err := c.Login(ctx, model.Login{Email: "a@b.co", Password: "pw"})
	require.NoError(t, err)
	_, err = c.ForgotPassword(ctx, model.ForgotPassword{Email: "a@b.co"})
	require.NoError(t, err)
	_, err = c.ResetPassword(ctx, model.ResetPassword{Email: "a@b.co", Token: "t", NewPassword: "Secret!1", ConfirmPassword: "Secret!1"})
	require.NoError(t, err)
	countries, err := c.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "India", countries[0].Name)

	// даже при Auth=true публичный путь остаётся анонимным
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/Auth", Auth: true})
	require.NoError(t, err)
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
}

func TestDo_ClassifiesStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   Kind
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"token expired"}`, KindUnauthorized, MsgUnauthorized},
		{"not found", http.StatusNotFound, ``, KindNotFound, MsgNotFound},
		{"bad request with message", http.StatusBadRequest, `{"message":"Doctor is not available"}`, KindInvalidRequest, "Doctor is not available"},
		{"bad request plain", http.StatusBadRequest, `oops`, KindInvalidRequest, MsgInvalidRequest},
		{"server", http.StatusInternalServerError, `{"message":"stack trace"}`, KindServer, MsgServer},
		{"other", http.StatusConflict, `{"message":"Email already exists"}`, KindGeneric, MsgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, nil)

			_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/Dashboard/summary", Auth: true})
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.msg, apiErr.Error())
			assert.True(t, IsKind(err, tc.kind))
		})
	}
}

func TestDo_BadRequestDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":{"Email":["Email is invalid"],"Password":["Too short","Needs a digit"]}}`))
	}, nil)

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/Auth/register"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, MsgInvalidRequest, apiErr.Message)
	assert.ElementsMatch(t, []string{"Email is invalid", "Too short", "Needs a digit"}, apiErr.Details)
}

func TestDo_Unreachable_IsConnectivity(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(url+"/api", staticCreds("tok"))
	_, err := c.ListDoctors(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindConnectivity, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, MsgConnectivity, apiErr.Message)
}

func TestDo_CancelledContext_IsSingleAttempt(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := c.DashboardSummary(context.Background())
	require.True(t, IsKind(err, KindServer))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "no retry on failure")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.DashboardSummary(ctx)
	assert.True(t, IsKind(err, KindConnectivity))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestDo_ValidatesBeforeSending(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}, staticCreds("tok"))

	_, err := c.BookAppointment(context.Background(), model.AppointmentCreate{
		DoctorID:        1,
		PatientName:     "Al",
		PatientEmail:    "not-an-email",
		PatientPhone:    "123",
		AppointmentDate: "2025-03-01",
		AppointmentTime: "10:00 AM to 10:30 AM",
	})
	require.True(t, IsKind(err, KindInvalidRequest))
	assert.Contains(t, err.Error(), "patientEmail must be a valid email")
	assert.Contains(t, err.Error(), "patientName must be at least 3 characters")
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestListAppointments_QueryAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Appointment/list", r.URL.Path)
		assert.Equal(t, "p+1@x.io", r.URL.Query().Get("email"))
		_ = json.NewEncoder(w).Encode([]model.Appointment{{
			ID: 3, PatientName: "Ann", AppointmentDate: "2025-03-01T00:00:00",
			Doctor: &model.Doctor{FullName: "Dr. House"},
		}})
	}, staticCreds("tok"))

	list, err := c.ListAppointments(context.Background(), "p+1@x.io")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-03-01", list[0].Date())
	assert.Equal(t, "Dr. House", list[0].DoctorName())
}

func TestDoJSON_UndecodableBodyIsGeneric(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}, nil)
	_, err := c.ListOPForms(context.Background())
	assert.True(t, IsKind(err, KindGeneric))
}

func TestMutations_MethodsAndPaths(t *testing.T) {
	type call struct{ method, path string }
	var got []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, call{r.Method, r.URL.Path})
		w.WriteHeader(http.StatusNoContent)
	}, staticCreds("tok"))

	ctx := context.Background()
	require.NoError(t, c.DeleteDoctor(ctx, 4))
	require.NoError(t, c.CancelAppointment(ctx, 9))
	require.NoError(t, c.UpdateDoctor(ctx, 4, model.Doctor{
		FullName: "Dr. A", Specialization: "ENT", Email: "a@clinic.io", PhoneNumber: "1", Gender: "Female",
	}))

	assert.Equal(t, []call{
		{http.MethodDelete, "/api/Doctor/4"},
		{http.MethodDelete, "/api/Appointment/cancel/9"},
		{http.MethodPut, "/api/Doctor/4"},
	}, got)
}

func TestPrescriptionsByAppointment_DecodesArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Prescription/appointment/1":
			_, _ = w.Write([]byte(`[{"id":10,"appointmentId":1,"medication":"A"},{"id":11,"appointmentId":1,"medication":"B"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}, staticCreds("tok"))

	list, err := c.PrescriptionsByAppointment(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 11, list[1].ID)

	list, err = c.PrescriptionsByAppointment(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoiceByAppointment_EmptyBodyIsNotFound(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no content": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"null":       func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("null\n")) },
		"empty 200":  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h, staticCreds("tok"))
			_, err := c.InvoiceByAppointment(context.Background(), 2)
			assert.True(t, IsKind(err, KindNotFound), "got %v", err)

			_, err = c.OPFormByAppointment(context.Background(), 2)
			assert.True(t, IsKind(err, KindNotFound), "got %v", err)
		})
	}
}
