package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSaveStep(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/registration/step", r.URL.Path)

		var req SaveStepRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.Step)
		assert.Empty(t, req.SessionID)

		json.NewEncoder(w).Encode(SaveStepResponse{SessionID: "sess-1", CurrentStep: 1})
	}))

	resp, err := client.SaveStep(context.Background(), SaveStepRequest{Step: 1, Data: map[string]string{"username": "alingnena"}})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", resp.SessionID)
}

func TestUploadDocumentsRejectsEmptySetLocally(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be made for an empty document set")
	}))

	_, err := client.UploadDocuments(context.Background(), "sess-1", nil)
	assert.ErrorIs(t, err, ErrNoDocumentsAttached)

	_, err = client.UploadDocuments(context.Background(), "sess-1", map[string]DocumentUpload{})
	assert.ErrorIs(t, err, ErrNoDocumentsAttached)
}

func TestUploadDocumentsSendsMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registration/documents", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(4<<20))

		assert.Equal(t, "sess-1", r.FormValue("session_id"))

		file, header, err := r.FormFile("barangay_permit")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "permit.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		json.NewEncoder(w).Encode(UploadDocumentsResponse{SessionID: "sess-1", OTPSent: true})
	}))

	resp, err := client.UploadDocuments(context.Background(), "sess-1", map[string]DocumentUpload{
		"barangay_permit": {Filename: "permit.pdf", MimeType: "application/pdf", Content: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
	assert.True(t, resp.OTPSent)
}

func TestCompleteMapsSessionNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "REG_SESSION_NOT_FOUND",
			"message": "Registration session not found or expired",
		})
	}))

	_, err := client.Complete(context.Background(), CompleteRequest{SessionID: "gone", OTPCode: "123456"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAPIErrorCarriesFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   "VALIDATION_FAILED",
			"message": "Validation failed",
			"fields":  map[string]string{"phone": "Enter a valid phone number"},
		})
	}))

	_, err := client.SaveStep(context.Background(), SaveStepRequest{Step: 1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, "Enter a valid phone number", apiErr.Fields["phone"])
}

func TestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing is listening anymore

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.SaveStep(context.Background(), SaveStepRequest{Step: 1})
	assert.ErrorIs(t, err, ErrConnection)

	available, err := client.UsernameAvailable(context.Background(), "alingnena")
	assert.ErrorIs(t, err, ErrConnection)
	assert.False(t, available, "unreachable checks must not report availability")
}

func TestAvailabilityChecks(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/registration/check-username":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "alingnena", body["username"])
			json.NewEncoder(w).Encode(AvailabilityResponse{Available: true})
		case "/registration/check-email":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "nena@example.com", body["email"])
			json.NewEncoder(w).Encode(AvailabilityResponse{Available: false})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	available, err := client.UsernameAvailable(context.Background(), "alingnena")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.EmailAvailable(context.Background(), "nena@example.com")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registration/status", r.URL.Path)
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		json.NewEncoder(w).Encode(StatusResponse{
			SessionID:     "sess-1",
			CurrentStep:   3,
			UploadedSlots: []string{"barangay_permit"},
		})
	}))

	status, err := client.Status(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, status.CurrentStep)
	assert.Equal(t, []string{"barangay_permit"}, status.UploadedSlots)
}
