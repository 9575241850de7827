package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

func validBody() map[string]any {
	return map[string]any{
		"name":          "Test Patient",
		"email":         "test@example.com",
		"phone":         "1234567890",
		"preferredDate": "2025-04-01",
		"preferredTime": "9:00 AM",
		"symptoms":      "fever",
	}
}

func failingFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		require.Len(t, f.Path, 1)
		require.NotEmpty(t, f.Message)
		out = append(out, f.Path[0])
	}
	return out
}

func TestAppointmentFromJSONValid(t *testing.T) {
	in, err := AppointmentFromJSON(validBody())
	require.NoError(t, err)
	assert.Equal(t, models.NewAppointment{
		Name:          "Test Patient",
		Email:         "test@example.com",
		Phone:         "1234567890",
		PreferredDate: "2025-04-01",
		PreferredTime: "9:00 AM",
		Symptoms:      "fever",
	}, in)
}

func TestAppointmentFromJSONMissingName(t *testing.T) {
	body := validBody()
	delete(body, "name")

	_, err := AppointmentFromJSON(body)
	assert.Equal(t, []string{"name"}, failingFields(t, err))
}

func TestAppointmentFromJSONReportsEveryField(t *testing.T) {
	_, err := AppointmentFromJSON(map[string]any{})
	assert.Equal(t, appointmentFields, failingFields(t, err))
}

func TestAppointmentFromJSONTypeErrors(t *testing.T) {
	body := validBody()
	body["phone"] = 1234567890.0
	body["symptoms"] = nil
	body["email"] = ""

	_, err := AppointmentFromJSON(body)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "email", verr.Fields[0].Path[0])
	assert.Equal(t, "Required", verr.Fields[0].Message)
	assert.Equal(t, "Expected string, received number", verr.Fields[1].Message)
	assert.Equal(t, "Expected string, received null", verr.Fields[2].Message)
}

func TestAppointmentFromJSONIgnoresExtraKeys(t *testing.T) {
	body := validBody()
	body["status"] = "approved"
	body["id"] = 99.0

	_, err := AppointmentFromJSON(body)
	assert.NoError(t, err)
}

func TestAppointmentFromQuery(t *testing.T) {
	q := url.Values{
		"name":     {"Test Patient"},
		"email":    {"test@example.com"},
		"phone":    {"1234567890"},
		"date":     {"2025-04-01"},
		"time":     {"9:00 AM"},
		"symptoms": {"fever"},
	}
	fromQuery, err := AppointmentFromQuery(q)
	require.NoError(t, err)

	fromJSON, err := AppointmentFromJSON(validBody())
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromQuery)
}

func TestAppointmentFromQueryLongParamNames(t *testing.T) {
	q := url.Values{
		"name":          {"n"},
		"email":         {"e"},
		"phone":         {"p"},
		"preferredDate": {"d"},
		"preferredTime": {"t"},
		"symptoms":      {"s"},
	}
	in, err := AppointmentFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "d", in.PreferredDate)
	assert.Equal(t, "t", in.PreferredTime)
}

func TestAppointmentFromQueryMissing(t *testing.T) {
	q := url.Values{"name": {"only a name"}}
	_, err := AppointmentFromQuery(q)
	assert.Equal(t, []string{"email", "phone", "preferredDate", "preferredTime", "symptoms"}, failingFields(t, err))
}

func TestParseStatusUpdate(t *testing.T) {
	u, err := ParseStatusUpdate(map[string]any{"status": "approved", "name": "ignored"})
	require.NoError(t, err)
	require.NotNil(t, u.Status)
	assert.Equal(t, "approved", *u.Status)

	u, err = ParseStatusUpdate(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, u.Status)

	_, err = ParseStatusUpdate(map[string]any{"status": true})
	assert.Equal(t, []string{"status"}, failingFields(t, err))
}
