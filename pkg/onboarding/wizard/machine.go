// Package wizard drives the merchant registration flow from the applicant's
// side: it keeps the local step drafts, validates them with the shared
// onboarding rules, and syncs each transition to the server through Client.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

// ValidationError carries the field errors that blocked a step transition.
type ValidationError struct {
	Fields []onboarding.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Machine is the registration wizard state machine. Transitions are
// single-flight: while one Next or CompleteVerification is syncing, any
// concurrent transition attempt fails fast with ErrTransitionInFlight
// instead of queuing up duplicate saves.
type Machine struct {
	client    *Client
	validator *onboarding.Validator

	mu            sync.Mutex
	saving        bool
	sessionID     string
	step          onboarding.Step
	general       onboarding.GeneralInfo
	location      onboarding.Location
	documents     map[string]DocumentUpload
	uploadedSlots []string
	otpSent       bool
	completed     bool
	result        *CompleteResponse
}

// NewMachine creates a wizard bound to a sync client. The client doubles as
// the availability checker for username/email uniqueness.
func NewMachine(client *Client) *Machine {
	return &Machine{
		client:    client,
		validator: onboarding.NewValidator(client),
		documents: make(map[string]DocumentUpload),
	}
}

// SetGeneralInfo replaces the first step's draft.
func (m *Machine) SetGeneralInfo(info onboarding.GeneralInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.general = info
}

// SetLocation replaces the second step's draft.
func (m *Machine) SetLocation(loc onboarding.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = loc
}

// AttachDocument stages a file for a document slot, replacing any previous
// file in that slot.
func (m *Machine) AttachDocument(slot string, doc DocumentUpload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[slot] = doc
}

// RemoveDocument unstages the file for a slot.
func (m *Machine) RemoveDocument(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, slot)
}

func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

func (m *Machine) CurrentStep() onboarding.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Machine) GeneralInfo() onboarding.GeneralInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.general
}

func (m *Machine) Location() onboarding.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

func (m *Machine) OTPSent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otpSent
}

func (m *Machine) Completed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// Result returns the completion response once the wizard has finished.
func (m *Machine) Result() *CompleteResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Requirements returns the document requirements for the declared
// registration category of the current draft.
func (m *Machine) Requirements() []onboarding.DocumentRequirement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return onboarding.ResolveDocumentRequirements(m.general.RegistrationCategory)
}

// begin claims the single transition slot.
func (m *Machine) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed {
		return ErrAlreadyCompleted
	}
	if m.saving {
		return ErrTransitionInFlight
	}
	m.saving = true
	return nil
}

func (m *Machine) end() {
	m.mu.Lock()
	m.saving = false
	m.mu.Unlock()
}

// Next validates the current step and, if it passes, syncs it to the server
// and advances. The step pointer only moves after the server acknowledges
// the save, so a failed sync leaves the wizard where it was.
func (m *Machine) Next(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	m.mu.Lock()
	step := m.step
	general := m.general
	location := m.location
	docs := make(map[string]DocumentUpload, len(m.documents))
	for slot, doc := range m.documents {
		docs[slot] = doc
	}
	sessionID := m.sessionID
	m.mu.Unlock()

	switch step {
	case onboarding.StepGeneralInfo:
		if errs := m.validator.ValidateGeneralInfo(ctx, general); len(errs) > 0 {
			return &ValidationError{Fields: errs}
		}
		resp, err := m.client.SaveStep(ctx, SaveStepRequest{
			SessionID: sessionID,
			Step:      int(onboarding.StepGeneralInfo) + 1,
			Data:      general,
		})
		if err != nil {
			return err
		}
		m.advance(resp.SessionID, onboarding.StepLocation)
		return nil

	case onboarding.StepLocation:
		if errs := m.validator.ValidateLocation(location); len(errs) > 0 {
			return &ValidationError{Fields: errs}
		}
		resp, err := m.client.SaveStep(ctx, SaveStepRequest{
			SessionID: sessionID,
			Step:      int(onboarding.StepLocation) + 1,
			Data:      location,
		})
		if err != nil {
			return err
		}
		m.advance(resp.SessionID, onboarding.StepDocuments)
		return nil

	case onboarding.StepDocuments:
		candidates := make(onboarding.Documents, len(docs))
		for slot, doc := range docs {
			candidates[slot] = onboarding.UploadCandidate{
				Filename:  doc.Filename,
				MimeType:  doc.MimeType,
				SizeBytes: int64(len(doc.Content)),
			}
		}
		if errs := m.validator.ValidateDocuments(candidates, general.RegistrationCategory); len(errs) > 0 {
			return &ValidationError{Fields: errs}
		}

		// Nothing staged and nothing required: the verification code is
		// requested directly instead of posting an empty upload.
		var otpSent bool
		if len(docs) == 0 {
			resp, err := m.client.RequestOTP(ctx, sessionID)
			if err != nil {
				return err
			}
			otpSent = resp.OTPSent
		} else {
			resp, err := m.client.UploadDocuments(ctx, sessionID, docs)
			if err != nil {
				return err
			}
			otpSent = resp.OTPSent
		}

		m.mu.Lock()
		m.step = onboarding.StepVerification
		m.otpSent = otpSent
		m.mu.Unlock()
		return nil

	case onboarding.StepVerification:
		return ErrVerificationPending

	default:
		return fmt.Errorf("cannot advance from step %s", step)
	}
}

func (m *Machine) advance(sessionID string, next onboarding.Step) {
	m.mu.Lock()
	m.sessionID = sessionID
	m.step = next
	m.mu.Unlock()
}

// Previous moves one step back without touching the network. Drafts are
// retained, and the first step is the floor.
func (m *Machine) Previous() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed {
		return ErrAlreadyCompleted
	}
	if m.saving {
		return ErrTransitionInFlight
	}
	if m.step > onboarding.StepGeneralInfo {
		m.step--
	}
	return nil
}

// CompleteVerification submits the OTP code. On success the wizard reaches
// its terminal state and every later transition fails with
// ErrAlreadyCompleted; the server has destroyed the session by then.
func (m *Machine) CompleteVerification(ctx context.Context, code string) (*CompleteResponse, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.end()

	m.mu.Lock()
	step := m.step
	sessionID := m.sessionID
	m.mu.Unlock()

	if step != onboarding.StepVerification {
		return nil, fmt.Errorf("cannot verify from step %s", step)
	}
	if errs := m.validator.ValidateOTP(code); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	resp, err := m.client.Complete(ctx, CompleteRequest{SessionID: sessionID, OTPCode: code})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.completed = true
	m.step = onboarding.StepCompleted
	m.result = resp
	m.mu.Unlock()
	return resp, nil
}

// ResendCode asks the server for a fresh verification code. The previous
// code stops working once the new one is issued.
func (m *Machine) ResendCode(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	m.mu.Lock()
	sessionID := m.sessionID
	m.mu.Unlock()

	resp, err := m.client.RequestOTP(ctx, sessionID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.otpSent = resp.OTPSent
	m.mu.Unlock()
	return nil
}

// Resume rebuilds the wizard from a server-side session, e.g. after the
// process restarted. Uploaded document content cannot be recovered, only
// which slots were filled.
func (m *Machine) Resume(ctx context.Context, sessionID string) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	status, err := m.client.Status(ctx, sessionID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = status.SessionID
	m.step = onboarding.Step(status.CurrentStep - 1)
	if status.General != nil {
		m.general = *status.General
	}
	if status.Location != nil {
		m.location = *status.Location
	}
	m.uploadedSlots = status.UploadedSlots
	m.otpSent = status.OTPSent
	return nil
}

// UploadedSlots reports which document slots the server already holds for a
// resumed session.
func (m *Machine) UploadedSlots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadedSlots
}
