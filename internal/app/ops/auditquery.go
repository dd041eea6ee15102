// internal/app/ops/auditquery.go
package ops

import (
	"context"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/domain/models"
)

// AuditOps is the reporting surface over the audit trail. Read-only and
// restricted to the top role tier; there is no write surface here at all.
type AuditOps struct {
	*Core
}

func NewAuditOps(c *Core) *AuditOps { return &AuditOps{Core: c} }

// Query returns matching entries and the total count for pagination.
func (o *AuditOps) Query(ctx context.Context, actor models.Actor, filter audit.QueryFilter) ([]audit.Entry, int64, error) {
	if !access.CanQueryAudit(actor) {
		return nil, 0, DeniedErr("only a superadmin can query the audit trail")
	}

	entries, err := o.AuditStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := o.AuditStore.CountByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
