/*
Package evotesdk is a Go client for the evote HTTP API.

SDKClient covers the public endpoints and produces a Session once a voter or
administrator has signed in. A Session carries the bearer token and exposes
the operations the token's scopes allow.

Voters sign in with a one-time code sent by e-mail:

	client := evotesdk.NewSDKClient("https://vote.example.com")

	err := client.RequestOTP(ctx, projectID, "alice@example.com")
	// ... the voter reads the code from their inbox ...
	session, err := client.VerifyOTP(ctx, projectID, "alice@example.com", code)

	options, err := session.GetAgendaOptions(ctx, agendaID)
	err = session.SubmitBallot(ctx, agendaID, map[string]string{
		options.Options[0].ID: evotesdk.DecisionApprove,
	})

Administrators sign in with a password:

	admin, err := client.AdminLogin(ctx, "root", password)
	results, err := admin.GetResults(ctx, agendaID)

Errors returned by the server are *APIError values carrying the HTTP status
and the error code from the response body.
*/
package evotesdk
