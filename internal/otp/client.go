// Package otp is a client for the external one-time-code service that
// verifies an owner's email address before login.
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client sends and checks numeric codes. The service mails the code
// itself; this process never sees it.
type Client struct {
	baseURL      string
	organization string
	subject      string
	httpClient   *http.Client
}

func NewClient(baseURL, organization, subject string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		organization: organization,
		subject:      subject,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Email        string `json:"email"`
	Type         string `json:"type"`
	Organization string `json:"organization"`
	Subject      string `json:"subject"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Send asks the service to mail a fresh code to email.
func (c *Client) Send(ctx context.Context, email string) error {
	status, err := c.post(ctx, "/generate", generateRequest{
		Email:        email,
		Type:         "numeric",
		Organization: c.organization,
		Subject:      c.subject,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("otp service returned status %d", status)
	}
	return nil
}

// Verify reports whether code is the live code for email. Only transport
// failures are errors; a rejected code is (false, nil).
func (c *Client) Verify(ctx context.Context, email, code string) (bool, error) {
	status, err := c.post(ctx, "/verify", verifyRequest{Email: email, OTP: code})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
