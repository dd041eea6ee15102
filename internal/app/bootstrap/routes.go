// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activistsfeature "github.com/campaignkit/fieldhub/internal/app/features/activists"
	areasfeature "github.com/campaignkit/fieldhub/internal/app/features/areas"
	auditlogfeature "github.com/campaignkit/fieldhub/internal/app/features/auditlog"
	citiesfeature "github.com/campaignkit/fieldhub/internal/app/features/cities"
	coordinatorsfeature "github.com/campaignkit/fieldhub/internal/app/features/coordinators"
	healthfeature "github.com/campaignkit/fieldhub/internal/app/features/health"
	invitationsfeature "github.com/campaignkit/fieldhub/internal/app/features/invitations"
	neighborhoodsfeature "github.com/campaignkit/fieldhub/internal/app/features/neighborhoods"
	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	voterimportfeature "github.com/campaignkit/fieldhub/internal/app/features/voterimport"
	votersfeature "github.com/campaignkit/fieldhub/internal/app/features/voters"
	"github.com/campaignkit/fieldhub/internal/app/importer"
	"github.com/campaignkit/fieldhub/internal/app/ops"
	coordinatorstore "github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	userstore "github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/app/system/actorctx"
	"github.com/campaignkit/fieldhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup, and
// the Startup hook have completed. Every authorized route passes through
// three layers: LoadIdentity (session cookie), RequireSignedIn, and
// WithActor (fresh role and anchor resolution on each request).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessions := auth.NewSessionReader(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)

	resolver := actorctx.NewResolver(
		userstore.New(deps.MongoDatabase),
		coordinatorstore.New(deps.MongoDatabase),
		logger,
	)

	core := ops.NewCore(deps.MongoDatabase, logger, nil)
	voterOps := ops.NewVoterOps(core)
	invitationOps := ops.NewInvitationOps(core, appCfg.InvitationTTL)
	engine := importer.New(core, voterOps, logger)

	r := chi.NewRouter()
	r.Use(sessions.LoadIdentity)

	// Unauthenticated: health probe and invitation redemption.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	invitationsHandler := invitationsfeature.NewHandler(invitationOps, logger)
	r.Mount("/invitations/redeem", invitationsfeature.RedeemRoutes(invitationsHandler))

	// Everything else requires a signed-in caller with a resolvable actor.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(shared.WithActor(resolver, logger))

		pr.Mount("/areas", areasfeature.Routes(areasfeature.NewHandler(ops.NewAreaOps(core), logger)))
		pr.Mount("/cities", citiesfeature.Routes(citiesfeature.NewHandler(ops.NewCityOps(core), logger)))
		pr.Mount("/neighborhoods", neighborhoodsfeature.Routes(neighborhoodsfeature.NewHandler(ops.NewNeighborhoodOps(core), logger)))
		pr.Mount("/activists", activistsfeature.Routes(activistsfeature.NewHandler(ops.NewActivistOps(core), logger)))
		pr.Mount("/coordinators", coordinatorsfeature.Routes(coordinatorsfeature.NewHandler(ops.NewCoordinatorOps(core), logger)))
		pr.Mount("/voters", votersfeature.Routes(votersfeature.NewHandler(voterOps, logger)))
		pr.Mount("/invitations", invitationsfeature.Routes(invitationsHandler))
		pr.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(ops.NewAuditOps(core), logger)))
		pr.Mount("/import", voterimportfeature.Routes(voterimportfeature.NewHandler(engine, logger)))
	})

	return r, nil
}
