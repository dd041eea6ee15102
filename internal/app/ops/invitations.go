// internal/app/ops/invitations.go
package ops

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/system/auditlog"
	"github.com/campaignkit/fieldhub/internal/app/system/inputval"
	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/txn"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultInvitationTTL is how long an invitation stays redeemable.
const DefaultInvitationTTL = 14 * 24 * time.Hour

// InvitationOps manages role invitations. The raw token is returned exactly
// once from Create, for the external mailer; only its bcrypt hash is stored.
//
// A token is "<invitation-id-hex>.<secret>": the id prefix gives O(1) lookup
// on redemption, the secret is what the hash covers.
type InvitationOps struct {
	*Core
	TTL time.Duration
}

func NewInvitationOps(c *Core, ttl time.Duration) *InvitationOps {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	return &InvitationOps{Core: c, TTL: ttl}
}

type CreateInvitationInput struct {
	Email string `label:"email" validate:"required,email,max=254"`
	Role  models.Role
}

// Create issues a new invitation and returns it with the raw token.
func (o *InvitationOps) Create(ctx context.Context, actor models.Actor, in CreateInvitationInput) (models.Invitation, string, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Invitation{}, "", Validationf("%s", res.First())
	}
	if !models.ValidRole(in.Role) {
		return models.Invitation{}, "", Validationf("role %q is not valid", in.Role)
	}
	if !access.CanCreate(actor, access.KindInvitation) {
		return models.Invitation{}, "", DeniedErr("only a superadmin can send invitations")
	}

	pending, err := o.Invitations.HasPendingByEmail(ctx, in.Email)
	if err != nil {
		return models.Invitation{}, "", err
	}
	if pending {
		return models.Invitation{}, "", ConflictErr(CodePendingInvitation,
			"a pending invitation already exists for this address", nil)
	}

	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return models.Invitation{}, "", err
	}

	var created models.Invitation
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		inv, err := o.Invitations.Create(ctx, models.Invitation{
			Email:       in.Email,
			Role:        in.Role,
			TokenHash:   string(hash),
			ExpiresAt:   time.Now().UTC().Add(o.TTL),
			CreatedByID: actor.ID,
		})
		if err != nil {
			return err
		}
		created = inv
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateInvitation, audit.EntityInvitation, inv.ID,
			nil, bson.M{
				"email":      inv.Email,
				"role":       string(inv.Role),
				"expires_at": inv.ExpiresAt.Format(time.RFC3339),
			}))
	})
	if err != nil {
		return models.Invitation{}, "", err
	}

	o.invalidate(audit.EntityInvitation, created.ID)
	return created, created.ID.Hex() + "." + secret, nil
}

// Revoke cancels a pending invitation.
func (o *InvitationOps) Revoke(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanCreate(actor, access.KindInvitation) {
		return DeniedErr("only a superadmin can revoke invitations")
	}

	inv, err := o.Invitations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("invitation")
		}
		return err
	}
	if inv.Status != models.InvitationPending {
		return ConflictErr("", "invitation is not pending", nil)
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Invitations.SetStatus(ctx, id, models.InvitationRevoked); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionRevokeInvitation, audit.EntityInvitation, id,
			bson.M{"status": inv.Status}, bson.M{"status": models.InvitationRevoked}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityInvitation, id)
	return nil
}

// List returns invitations, optionally filtered to one status.
func (o *InvitationOps) List(ctx context.Context, actor models.Actor, statusFilter string, page paging.Page) ([]models.Invitation, int64, error) {
	if !access.CanCreate(actor, access.KindInvitation) {
		return nil, 0, DeniedErr("only a superadmin can list invitations")
	}
	return o.Invitations.List(ctx, statusFilter, page)
}

// Redeem validates a raw token and marks the invitation accepted. The
// external identity provider calls this when the invited user first signs in;
// it returns the invitation so the caller can provision the account.
func (o *InvitationOps) Redeem(ctx context.Context, rawToken string) (*models.Invitation, error) {
	idHex, secret, ok := strings.Cut(strings.TrimSpace(rawToken), ".")
	if !ok {
		return nil, Validationf("invitation token is malformed")
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, Validationf("invitation token is malformed")
	}

	inv, err := o.Invitations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("invitation")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(inv.TokenHash), []byte(secret)) != nil {
		return nil, NotFoundErr("invitation")
	}
	if inv.Status != models.InvitationPending {
		return nil, ConflictErr("", "invitation is no longer pending", nil)
	}
	if time.Now().UTC().After(inv.ExpiresAt) {
		// Mark lazily; the startup sweep would catch it anyway.
		if err := o.Invitations.SetStatus(ctx, id, models.InvitationExpired); err != nil {
			o.Log.Warn("marking invitation expired failed",
				zap.String("invitation_id", id.Hex()), zap.Error(err))
		}
		return nil, ConflictErr("", "invitation has expired", nil)
	}

	// Redemption is initiated by the invited user, not a resolved actor.
	redeemer := models.Actor{ID: inv.ID, Email: normalize.Email(inv.Email), Role: inv.Role}
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Invitations.SetStatus(ctx, id, models.InvitationAccepted); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(redeemer,
			audit.ActionAcceptInvitation, audit.EntityInvitation, id,
			bson.M{"status": models.InvitationPending}, bson.M{"status": models.InvitationAccepted}))
	})
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvitationAccepted

	o.invalidate(audit.EntityInvitation, id)
	return inv, nil
}
