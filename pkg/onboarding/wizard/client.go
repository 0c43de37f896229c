package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Client talks to the onboarding API. It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new registration sync client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// SaveStep persists one wizard step. The first call (empty session ID) mints
// a new session; the server answers with the ID to use from then on.
func (c *Client) SaveStep(ctx context.Context, req SaveStepRequest) (*SaveStepResponse, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/registration/step", req)
	if err != nil {
		return nil, err
	}

	var resp SaveStepResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal step response: %w", err)
	}
	return &resp, nil
}

// UploadDocuments sends the attached files for their document slots as a
// multipart form. An empty set is rejected locally without touching the
// network; the server enforces the same rule.
func (c *Client) UploadDocuments(ctx context.Context, sessionID string, docs map[string]DocumentUpload) (*UploadDocumentsResponse, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocumentsAttached
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("session_id", sessionID); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	for slot, doc := range docs {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, slot, doc.Filename))
		header.Set("Content-Type", doc.MimeType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part for %s: %w", slot, err)
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, fmt.Errorf("failed to write file content for %s: %w", slot, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/registration/documents", &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp UploadDocumentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upload response: %w", err)
	}
	return &resp, nil
}

// RequestOTP asks the server to issue (or reissue) the verification code.
// Unregistered applicants with no documents enter the verification step
// through this call.
func (c *Client) RequestOTP(ctx context.Context, sessionID string) (*RequestOTPResponse, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/registration/otp", map[string]string{"session_id": sessionID})
	if err != nil {
		return nil, err
	}

	var resp RequestOTPResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp response: %w", err)
	}
	return &resp, nil
}

// Complete submits the verification code. On success the server commits the
// merchant and destroys the session, so a second call for the same session
// fails with ErrSessionNotFound.
func (c *Client) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/registration/complete", req)
	if err != nil {
		return nil, err
	}

	var resp CompleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal complete response: %w", err)
	}
	return &resp, nil
}

// Status fetches the server-side view of a session.
func (c *Client) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	path := "/registration/status?session_id=" + url.QueryEscape(sessionID)
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status response: %w", err)
	}
	return &resp, nil
}

// UsernameAvailable implements onboarding.AvailabilityChecker.
func (c *Client) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return c.checkAvailability(ctx, "/registration/check-username", "username", username)
}

// EmailAvailable implements onboarding.AvailabilityChecker.
func (c *Client) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return c.checkAvailability(ctx, "/registration/check-email", "email", email)
}

func (c *Client) checkAvailability(ctx context.Context, path, param, value string) (bool, error) {
	body, err := c.doJSON(ctx, http.MethodPost, path, map[string]string{param: value})
	if err != nil {
		return false, err
	}

	var resp AvailabilityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("failed to unmarshal availability response: %w", err)
	}
	return resp.Available, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(reqBody), "application/json")
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Code == "REG_SESSION_NOT_FOUND" {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, apiErr.Message)
		}
		return nil, apiErr
	}

	return respBody, nil
}
