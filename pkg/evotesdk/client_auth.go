package evotesdk

import (
	"context"
	"net/http"
)

// RequestOTP asks the server to e-mail a one-time code. It succeeds for any
// well-formed address, registered or not.
func (c *SDKClient) RequestOTP(ctx context.Context, projectID, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/otp", "", nil,
		OTPRequest{ProjectID: projectID, Email: email}, nil, http.StatusAccepted)
}

// VerifyOTP exchanges a one-time code for a voter session.
func (c *SDKClient) VerifyOTP(ctx context.Context, projectID, email, code string) (*Session, error) {
	var resp SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/otp/verify", "", nil,
		OTPVerifyRequest{ProjectID: projectID, Email: email, Code: code}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// AdminLogin signs an administrator in with a password.
func (c *SDKClient) AdminLogin(ctx context.Context, username, password string) (*Session, error) {
	var resp SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/admin/login", "", nil,
		AdminLoginRequest{Username: username, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// Bootstrap creates the first administrator using the deployment's
// bootstrap token.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	var resp BootstrapResponse
	err := c.do(ctx, http.MethodPost, "/v1/bootstrap", "",
		map[string]string{"X-Bootstrap-Token": token}, req, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
