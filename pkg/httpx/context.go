package httpx

import (
	"context"

	"github.com/aussiebroadwan/evote/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeySubject   ctxKey = "subject"
	CtxKeyProjectID ctxKey = "project_id"
	CtxKeyScopes    ctxKey = "scopes"
)

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyProjectID, c.ProjectID)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	return ctx
}

// SubjectFromContext returns the verified token subject (voter or admin id).
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeySubject).(string)
	return v, ok && v != ""
}

// ProjectFromContext returns the project a voter session is bound to. Admin
// sessions carry no project.
func ProjectFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyProjectID).(string)
	return v
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
