package evotesdk

import (
	"context"
	"net/http"
)

func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JWKS is the public key set used to verify session tokens.
type JWKS struct {
	Keys []map[string]string `json:"keys"`
}

func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKS, error) {
	var resp JWKS
	if err := c.do(ctx, http.MethodGet, "/.well-known/jwks.json", "", nil, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}
