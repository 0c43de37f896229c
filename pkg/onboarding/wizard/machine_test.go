package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

// fakeAPI is a scripted onboarding backend for machine tests.
type fakeAPI struct {
	mu            sync.Mutex
	stepSaves     int
	uploads       int
	otpRequests   int
	completes     int
	usernameTaken bool
	checksFail    bool
	status        *StatusResponse
	blockSave     chan struct{}
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/registration/check-username", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail, taken := f.checksFail, f.usernameTaken
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "INTERNAL_ERROR", "message": "Something went wrong"})
			return
		}
		json.NewEncoder(w).Encode(AvailabilityResponse{Available: !taken})
	})

	mux.HandleFunc("/registration/check-email", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail := f.checksFail
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "INTERNAL_ERROR", "message": "Something went wrong"})
			return
		}
		json.NewEncoder(w).Encode(AvailabilityResponse{Available: true})
	})

	mux.HandleFunc("/registration/step", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.stepSaves++
		block := f.blockSave
		f.mu.Unlock()
		if block != nil {
			<-block
		}

		var req SaveStepRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(SaveStepResponse{SessionID: "sess-1", CurrentStep: req.Step})
	})

	mux.HandleFunc("/registration/documents", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.uploads++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(UploadDocumentsResponse{SessionID: "sess-1", OTPSent: true})
	})

	mux.HandleFunc("/registration/otp", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.otpRequests++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(RequestOTPResponse{SessionID: "sess-1", OTPSent: true})
	})

	mux.HandleFunc("/registration/complete", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.completes++
		n := f.completes
		f.mu.Unlock()
		if n > 1 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "REG_SESSION_NOT_FOUND", "message": "Registration session not found or expired"})
			return
		}
		json.NewEncoder(w).Encode(CompleteResponse{
			MerchantID:   7,
			Status:       "pending",
			AccessToken:  "access",
			RefreshToken: "refresh",
		})
	})

	mux.HandleFunc("/registration/status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.status
		f.mu.Unlock()
		if status == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "REG_SESSION_NOT_FOUND", "message": "Registration session not found or expired"})
			return
		}
		json.NewEncoder(w).Encode(status)
	})

	return mux
}

func (f *fakeAPI) counts() (saves, uploads, otps, completes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stepSaves, f.uploads, f.otpRequests, f.completes
}

func newTestMachine(t *testing.T, api *fakeAPI) *Machine {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return NewMachine(client)
}

func unregisteredInfo() onboarding.GeneralInfo {
	return onboarding.GeneralInfo{
		BusinessName:         "Aling Nena's Sari-Sari Store",
		OwnerName:            "Nena Dela Cruz",
		Username:             "alingnena",
		Email:                "nena@example.com",
		Password:             "Str0ng!Pass",
		ConfirmPassword:      "Str0ng!Pass",
		Phone:                "+639171234567",
		BusinessCategoryID:   1,
		BusinessTypeID:       2,
		RegistrationCategory: onboarding.CategoryUnregistered,
	}
}

func manilaLocation() onboarding.Location {
	return onboarding.Location{
		Zipcode:          "1000",
		Province:         "Metro Manila",
		CityMunicipality: "Manila",
		Barangay:         "Barangay 659",
		StreetName:       "Taft Avenue",
		HouseNumber:      "123",
		Latitude:         14.5995,
		Longitude:        120.9842,
	}
}

func TestMachineUnregisteredFlow(t *testing.T) {
	api := &fakeAPI{}
	m := newTestMachine(t, api)
	ctx := context.Background()

	m.SetGeneralInfo(unregisteredInfo())
	require.NoError(t, m.Next(ctx))
	assert.Equal(t, "sess-1", m.SessionID())
	assert.Equal(t, onboarding.StepLocation, m.CurrentStep())

	m.SetLocation(manilaLocation())
	require.NoError(t, m.Next(ctx))
	assert.Equal(t, onboarding.StepDocuments, m.CurrentStep())

	// No documents required and none staged: the wizard requests the OTP
	// instead of posting an empty upload.
	require.NoError(t, m.Next(ctx))
	assert.Equal(t, onboarding.StepVerification, m.CurrentStep())
	assert.True(t, m.OTPSent())

	saves, uploads, otps, _ := api.counts()
	assert.Equal(t, 2, saves)
	assert.Equal(t, 0, uploads)
	assert.Equal(t, 1, otps)

	resp, err := m.CompleteVerification(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.MerchantID)
	assert.Equal(t, "pending", resp.Status)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, m.Completed())
	assert.Equal(t, onboarding.StepCompleted, m.CurrentStep())

	// The wizard is terminal now.
	assert.ErrorIs(t, m.Next(ctx), ErrAlreadyCompleted)
	_, err = m.CompleteVerification(ctx, "123456")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.ErrorIs(t, m.ResendCode(ctx), ErrAlreadyCompleted)
}

func TestMachineDocumentsUploaded(t *testing.T) {
	api := &fakeAPI{}
	m := newTestMachine(t, api)
	ctx := context.Background()

	info := unregisteredInfo()
	info.RegistrationCategory = onboarding.CategoryNonVATRegistered
	m.SetGeneralInfo(info)
	require.NoError(t, m.Next(ctx))

	m.SetLocation(manilaLocation())
	require.NoError(t, m.Next(ctx))

	pdf := []byte("%PDF-1.4")
	m.AttachDocument(onboarding.SlotBarangayPermit, DocumentUpload{Filename: "permit.pdf", MimeType: "application/pdf", Content: pdf})
	m.AttachDocument(onboarding.SlotDTISECCertificate, DocumentUpload{Filename: "dti.pdf", MimeType: "application/pdf", Content: pdf})

	require.NoError(t, m.Next(ctx))
	assert.Equal(t, onboarding.StepVerification, m.CurrentStep())

	_, uploads, otps, _ := api.counts()
	assert.Equal(t, 1, uploads)
	assert.Equal(t, 0, otps)
}

func TestMachineValidationBlocksWithoutNetwork(t *testing.T) {
	api := &fakeAPI{}
	m := newTestMachine(t, api)
	ctx := context.Background()

	info := unregisteredInfo()
	info.Phone = "09171234567"
	m.SetGeneralInfo(info)

	err := m.Next(ctx)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone", vErr.Fields[0].Field)

	saves, _, _, _ := api.counts()
	assert.Zero(t, saves, "an invalid step must not reach the server")
	assert.Equal(t, onboarding.StepGeneralInfo, m.CurrentStep())
}

func TestMachineFailClosedUniqueness(t *testing.T) {
	api := &fakeAPI{checksFail: true}
	m := newTestMachine(t, api)

	m.SetGeneralInfo(unregisteredInfo())
	err := m.Next(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[0].Message, "Could not verify")

	saves, _, _, _ := api.counts()
	assert.Zero(t, saves)
}

func TestMachineTakenUsername(t *testing.T) {
	api := &fakeAPI{usernameTaken: true}
	m := newTestMachine(t, api)

	m.SetGeneralInfo(unregisteredInfo())
	err := m.Next(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Fields[0].Field)
	assert.Equal(t, "Username already exists", vErr.Fields[0].Message)
}

func TestMachinePreviousRetainsData(t *testing.T) {
	api := &fakeAPI{}
	m := newTestMachine(t, api)
	ctx := context.Background()

	m.SetGeneralInfo(unregisteredInfo())
	require.NoError(t, m.Next(ctx))
	m.SetLocation(manilaLocation())
	require.NoError(t, m.Next(ctx))

	require.NoError(t, m.Previous())
	assert.Equal(t, onboarding.StepLocation, m.CurrentStep())
	assert.Equal(t, manilaLocation(), m.Location())

	require.NoError(t, m.Previous())
	assert.Equal(t, onboarding.StepGeneralInfo, m.CurrentStep())
	assert.Equal(t, unregisteredInfo(), m.GeneralInfo())

	// The first step is the floor.
	require.NoError(t, m.Previous())
	assert.Equal(t, onboarding.StepGeneralInfo, m.CurrentStep())
}

func TestMachineSingleFlight(t *testing.T) {
	api := &fakeAPI{blockSave: make(chan struct{})}
	m := newTestMachine(t, api)
	ctx := context.Background()

	m.SetGeneralInfo(unregisteredInfo())

	firstDone := make(chan error, 1)
	go func() { firstDone <- m.Next(ctx) }()

	// Wait until the first transition is inside the blocked save.
	require.Eventually(t, func() bool {
		saves, _, _, _ := api.counts()
		return saves == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, m.Next(ctx), ErrTransitionInFlight)
	assert.ErrorIs(t, m.Previous(), ErrTransitionInFlight)

	close(api.blockSave)
	require.NoError(t, <-firstDone)
	assert.Equal(t, onboarding.StepLocation, m.CurrentStep())

	saves, _, _, _ := api.counts()
	assert.Equal(t, 1, saves, "the rejected transition must not save a duplicate")
}

func TestMachineResume(t *testing.T) {
	general := unregisteredInfo()
	location := manilaLocation()
	api := &fakeAPI{status: &StatusResponse{
		SessionID:     "sess-1",
		CurrentStep:   4,
		General:       &general,
		Location:      &location,
		UploadedSlots: []string{onboarding.SlotBarangayPermit},
		OTPSent:       true,
	}}
	m := newTestMachine(t, api)

	require.NoError(t, m.Resume(context.Background(), "sess-1"))
	assert.Equal(t, "sess-1", m.SessionID())
	assert.Equal(t, onboarding.StepVerification, m.CurrentStep())
	assert.Equal(t, general, m.GeneralInfo())
	assert.Equal(t, location, m.Location())
	assert.Equal(t, []string{onboarding.SlotBarangayPermit}, m.UploadedSlots())
	assert.True(t, m.OTPSent())
}

func TestMachineResumeExpiredSession(t *testing.T) {
	api := &fakeAPI{}
	m := newTestMachine(t, api)

	err := m.Resume(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, onboarding.StepGeneralInfo, m.CurrentStep())
}
