// Package shared holds the plumbing every JSON feature uses: actor
// resolution middleware and the mapping from pipeline errors to HTTP
// envelopes.
package shared

import (
	"context"
	"net/http"

	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/app/system/actorctx"
	"github.com/campaignkit/fieldhub/internal/app/system/auth"
	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey string

const actorKey ctxKey = "actor"

// WithActor resolves the signed-in identity into a full Actor and stores it
// on the request context. Identities without an active account are rejected.
func WithActor(resolver *actorctx.Resolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.CurrentIdentity(r)
			if !ok {
				respond.Err(w, http.StatusUnauthorized, "Sign in required.", "UNAUTHORIZED", nil)
				return
			}
			userID, err := primitive.ObjectIDFromHex(id.UserID)
			if err != nil {
				respond.Err(w, http.StatusUnauthorized, "Sign in required.", "UNAUTHORIZED", nil)
				return
			}
			actor, err := resolver.Resolve(r.Context(), userID)
			if err != nil {
				if err == actorctx.ErrNoAccount {
					respond.Err(w, http.StatusForbidden, "No active account.", "NO_ACCOUNT", nil)
					return
				}
				respond.Internal(w, log, "resolve actor", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// CurrentActor returns the resolved actor placed by WithActor.
func CurrentActor(r *http.Request) (models.Actor, bool) {
	a, ok := r.Context().Value(actorKey).(models.Actor)
	return a, ok
}

// WithTestActor returns a request carrying the given actor. Test helper.
func WithTestActor(r *http.Request, a models.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, a))
}

// RespondOpError writes a structured pipeline failure as the matching HTTP
// status. Anything that is not an *ops.Error is an internal fault: logged,
// and surfaced with no internal detail.
func RespondOpError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	e, ok := ops.AsError(err)
	if !ok {
		respond.Internal(w, log, op, err)
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case ops.KindValidation:
		status = http.StatusBadRequest
	case ops.KindNotFound:
		status = http.StatusNotFound
	case ops.KindAccessDenied:
		status = http.StatusForbidden
	case ops.KindConflict:
		status = http.StatusConflict
	case ops.KindIntegrity:
		status = http.StatusUnprocessableEntity
	}
	respond.Err(w, status, e.Message, e.Code, e.Extra)
}

// PathID parses a hex object id out of a chi URL parameter value.
func PathID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}
