// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	invitationstore "github.com/campaignkit/fieldhub/internal/app/store/invitations"
	userstore "github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/app/system/timeouts"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short: appCfg.TimeoutShort,
		Long:  appCfg.TimeoutLong,
		Batch: appCfg.TimeoutBatch,
	})

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}

	// Sweep invitations whose window lapsed while the service was down.
	// Redemption also expires lazily, so this is tidiness, not correctness.
	n, err := invitationstore.New(deps.MongoDatabase).MarkExpired(ctx)
	if err != nil {
		return fmt.Errorf("expire invitations: %w", err)
	}
	if n > 0 {
		logger.Info("expired stale invitations", zap.Int64("count", n))
	}

	return nil
}

// ensureSuperAdmin promotes the configured account to superadmin, creating
// it if it does not exist yet.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleSuperAdmin {
			return nil
		}
		if err := users.SetRole(ctx, u.ID, models.RoleSuperAdmin); err != nil {
			return fmt.Errorf("promote superadmin: %w", err)
		}
		logger.Info("promoted existing user to superadmin", zap.String("email", email))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		_, err := users.Create(ctx, models.User{
			FullName: "Super Admin",
			Email:    email,
			Role:     models.RoleSuperAdmin,
		})
		if err != nil {
			return fmt.Errorf("create superadmin: %w", err)
		}
		logger.Info("created superadmin user", zap.String("email", email))
		return nil

	default:
		return fmt.Errorf("lookup superadmin: %w", err)
	}
}
