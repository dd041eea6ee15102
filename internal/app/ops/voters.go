// internal/app/ops/voters.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/store/voters"
	"github.com/campaignkit/fieldhub/internal/app/system/auditlog"
	"github.com/campaignkit/fieldhub/internal/app/system/inputval"
	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/app/system/txn"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// VoterOps manages voter contact records. Visibility follows insertion
// lineage, not the structural tree: a voter belongs to whoever inserted it.
type VoterOps struct {
	*Core
}

func NewVoterOps(c *Core) *VoterOps { return &VoterOps{Core: c} }

type VoterInput struct {
	FullName string `label:"full name" validate:"required,max=160"`
	Phone    string `label:"phone" validate:"max=32"`
	Email    string `label:"email" validate:"max=254"`
}

func (in VoterInput) check() error {
	if res := inputval.Validate(in); res.HasErrors() {
		return Validationf("%s", res.First())
	}
	if e := normalize.Email(in.Email); e != "" && !inputval.IsValidEmail(e) {
		return Validationf("email address is not valid")
	}
	return nil
}

// Create inserts a voter with the actor as its immutable lineage anchor.
func (o *VoterOps) Create(ctx context.Context, actor models.Actor, in VoterInput) (models.Voter, error) {
	return o.create(ctx, actor, in, audit.ActionCreateVoter)
}

// CreateImported is Create for the bulk importer; the audit trail records
// the row as imported rather than hand-entered.
func (o *VoterOps) CreateImported(ctx context.Context, actor models.Actor, in VoterInput) (models.Voter, error) {
	return o.create(ctx, actor, in, audit.ActionImportVoter)
}

func (o *VoterOps) create(ctx context.Context, actor models.Actor, in VoterInput, action string) (models.Voter, error) {
	if err := in.check(); err != nil {
		return models.Voter{}, err
	}
	if !access.CanCreate(actor, access.KindVoter) {
		return models.Voter{}, DeniedErr("your role cannot create voters")
	}

	var created models.Voter
	err := txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		v, err := o.Voters.Create(ctx, models.Voter{
			InsertedByID: actor.ID,
			FullName:     in.FullName,
			Phone:        in.Phone,
			Email:        in.Email,
		})
		if err != nil {
			return err
		}
		created = v
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			action, audit.EntityVoter, v.ID,
			nil, bson.M{
				"full_name": v.FullName,
				"phone":     v.Phone,
				"email":     v.Email,
				"status":    v.Status,
			}))
	})
	if err != nil {
		return models.Voter{}, err
	}

	o.invalidate(audit.EntityVoter, created.ID)
	return created, nil
}

func (o *VoterOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.Voter, int64, error) {
	sc, err := o.Scopes.Voters(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Voters.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *VoterOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Voter, error) {
	v, err := o.Voters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("voter")
		}
		return nil, err
	}
	sc, err := o.Scopes.Voters(ctx, actor)
	if err != nil {
		return nil, err
	}
	if access.Read(actor, sc, v.InsertedByID) != access.Allow {
		return nil, NotFoundErr("voter")
	}
	return v, nil
}

// Update changes a voter's contact fields. The lineage anchor never moves.
func (o *VoterOps) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in VoterInput) error {
	if err := in.check(); err != nil {
		return err
	}

	before, err := o.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Voters.UpdateFields(ctx, id, voterstore.Update{
			FullName: in.FullName,
			Phone:    in.Phone,
			Email:    in.Email,
		}); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUpdateVoter, audit.EntityVoter, id,
			bson.M{
				"full_name": before.FullName,
				"phone":     before.Phone,
				"email":     before.Email,
			},
			bson.M{
				"full_name": in.FullName,
				"phone":     normalize.Phone(in.Phone),
				"email":     normalize.Email(in.Email),
			}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityVoter, id)
	return nil
}

// SetStatus soft-deletes or restores a voter.
func (o *VoterOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	before, err := o.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}

	next := status.Inactive
	if active {
		next = status.Active
	}
	if before.Status == next {
		return nil
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Voters.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleVoter, audit.EntityVoter, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityVoter, id)
	return nil
}

// HardDelete removes a voter row permanently.
func (o *VoterOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete a voter")
	}

	before, err := o.Voters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("voter")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Voters.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteVoter, audit.EntityVoter, id,
			bson.M{
				"full_name":      before.FullName,
				"phone":          before.Phone,
				"email":          before.Email,
				"inserted_by_id": before.InsertedByID.Hex(),
				"status":         before.Status,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityVoter, id)
	return nil
}
