package scope

import (
	"testing"

	citystore "github.com/campaignkit/fieldhub/internal/app/store/cities"
	"github.com/campaignkit/fieldhub/internal/app/store/coordassign"
	coordinatorstore "github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	neighborhoodstore "github.com/campaignkit/fieldhub/internal/app/store/neighborhoods"
	userstore "github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// An actor whose role anchor failed to resolve must end up with an empty
// scope from every builder method, for every entity kind. Never unrestricted.
func TestBuilder_MissingAnchorFailsClosed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := NewBuilder(
		citystore.New(db),
		neighborhoodstore.New(db),
		userstore.New(db),
		coordinatorstore.New(db),
		coordassign.New(db),
	)

	methods := map[string]func(models.Actor) (Scope, error){
		"areas":         func(a models.Actor) (Scope, error) { return b.Areas(ctx, a) },
		"cities":        func(a models.Actor) (Scope, error) { return b.Cities(ctx, a) },
		"neighborhoods": func(a models.Actor) (Scope, error) { return b.Neighborhoods(ctx, a) },
		"activists":     func(a models.Actor) (Scope, error) { return b.Activists(ctx, a) },
		"coordinators":  func(a models.Actor) (Scope, error) { return b.Coordinators(ctx, a) },
		"voters":        func(a models.Actor) (Scope, error) { return b.Voters(ctx, a) },
	}

	roles := []models.Role{
		models.RoleAreaManager,
		models.RoleCityCoordinator,
		models.RoleActivistCoordinator,
	}
	for _, role := range roles {
		actor := models.Actor{ID: primitive.NewObjectID(), Role: role}

		for name, fn := range methods {
			sc, err := fn(actor)
			if err != nil {
				t.Fatalf("%s/%s: %v", role, name, err)
			}
			if sc.All {
				t.Fatalf("%s/%s: unanchored actor got an unrestricted scope", role, name)
			}
			if !sc.IsEmpty() {
				t.Errorf("%s/%s: scope = %v, want empty", role, name, sc.Keys)
			}
		}
	}
}
