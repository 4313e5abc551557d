package evotesdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifyOTPBuildsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/otp/verify", r.URL.Path)

		var req OTPVerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "123456", req.Code)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SessionResponse{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
			Scope:       "agenda:read ballot:read ballot:write",
			VoterID:     "v1",
		})
	}))
	defer srv.Close()

	s, err := NewSDKClient(srv.URL).VerifyOTP(context.Background(), "p1", "a@example.com", "123456")
	require.NoError(t, err)
	require.Equal(t, "tok", s.AccessToken())
	require.Equal(t, "v1", s.VoterID())
	require.True(t, s.HasScope("ballot:write"))
	require.False(t, s.Expired())
}

func TestClientSideScopeCheck(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"insufficient_scope","error_description":"nope"}`))
	}))
	defer srv.Close()

	c := NewSDKClient(srv.URL)
	s := c.NewSessionFromToken("tok", []string{"agenda:read"}, timeFarFuture())

	_, err := s.GetResults(context.Background(), "a1")
	require.Error(t, err)
	require.Zero(t, calls)

	c.CheckScopes = false
	_, err = s.GetResults(context.Background(), "a1")
	require.True(t, IsStatus(err, http.StatusForbidden))
	require.True(t, IsCode(err, ErrorCodeInsufficientScope))
	require.Equal(t, 1, calls)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).GetLiveness(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "bad_gateway", apiErr.Code)
	require.Equal(t, "upstream broke", apiErr.Description)
}

func timeFarFuture() time.Time { return time.Now().Add(time.Hour) }
