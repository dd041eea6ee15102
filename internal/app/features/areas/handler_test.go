package areas_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campaignkit/fieldhub/internal/app/features/areas"
	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*areas.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	core := ops.NewCore(db, zap.NewNop(), nil)
	return areas.NewHandler(ops.NewAreaOps(core), zap.NewNop()), testutil.NewFixtures(t, db)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestServeCreate(t *testing.T) {
	h, fx := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/areas", strings.NewReader(`{"name":"North"}`))
	req = shared.WithTestActor(req, fx.SuperAdmin())
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	data, _ := body["data"].(map[string]interface{})
	if data["name"] != "North" {
		t.Errorf("data.name = %v", data["name"])
	}
}

func TestServeCreate_DeniedRole(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")

	req := httptest.NewRequest(http.MethodPost, "/areas", strings.NewReader(`{"name":"South"}`))
	req = shared.WithTestActor(req, fx.AreaManager(area.ID))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v", body["success"])
	}
}

func TestServeCreate_BadJSON(t *testing.T) {
	h, fx := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/areas", strings.NewReader(`{not json`))
	req = shared.WithTestActor(req, fx.SuperAdmin())
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body := decodeEnvelope(t, rec); body["code"] != "BAD_JSON" {
		t.Errorf("code = %v, want BAD_JSON", body["code"])
	}
}

func TestServeGet_NotFoundOutOfScope(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine := fx.CreateArea(ctx, "North")
	other := fx.CreateArea(ctx, "South")

	req := httptest.NewRequest(http.MethodGet, "/areas/"+other.ID.Hex(), nil)
	req = shared.WithTestActor(req, fx.AreaManager(mine.ID))
	req = testutil.WithChiURLParam(req, "id", other.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeGet_BadID(t *testing.T) {
	h, fx := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/areas/nope", nil)
	req = shared.WithTestActor(req, fx.SuperAdmin())
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	h.ServeGet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeSetStatus_ConflictCarriesCount(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	fx.CreateCity(ctx, area.ID, "Springfield")

	req := httptest.NewRequest(http.MethodPut, "/areas/"+area.ID.Hex()+"/status", strings.NewReader(`{"active":false}`))
	req = shared.WithTestActor(req, fx.SuperAdmin())
	req = testutil.WithChiURLParam(req, "id", area.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeSetStatus(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["code"] != "CITIES_EXIST" {
		t.Errorf("code = %v, want CITIES_EXIST", body["code"])
	}
	if body["cityCount"] != float64(1) {
		t.Errorf("cityCount = %v, want 1", body["cityCount"])
	}
}

func TestServeList_ScopedToActor(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine := fx.CreateArea(ctx, "North")
	fx.CreateArea(ctx, "South")

	req := httptest.NewRequest(http.MethodGet, "/areas", nil)
	req = shared.WithTestActor(req, fx.AreaManager(mine.ID))
	rec := httptest.NewRecorder()

	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]interface{})
	if data["total"] != float64(1) {
		t.Errorf("total = %v, want 1", data["total"])
	}
}

func TestRoutes_DeleteIsSoft(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	router := areas.Routes(h)

	req := httptest.NewRequest(http.MethodDelete, "/"+area.ID.Hex(), nil)
	req = shared.WithTestActor(req, fx.SuperAdmin())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got models.Area
	if err := fx.DB().Collection("areas").FindOne(ctx, bson.M{"_id": area.ID}).Decode(&got); err != nil {
		t.Fatalf("area gone after DELETE, want it deactivated: %v", err)
	}
	if got.Status != "inactive" {
		t.Errorf("status after DELETE = %q, want inactive", got.Status)
	}

	req = httptest.NewRequest(http.MethodDelete, "/"+area.ID.Hex()+"/hard", nil)
	req = shared.WithTestActor(req, fx.SuperAdmin())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("hard delete status = %d: %s", rec.Code, rec.Body.String())
	}
	err := fx.DB().Collection("areas").FindOne(ctx, bson.M{"_id": area.ID}).Decode(&got)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("area still present after /hard delete: %v", err)
	}
}

func TestRoutes_DeleteOutOfScopeIsNotFound(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	north := fx.CreateArea(ctx, "North")
	south := fx.CreateArea(ctx, "South")
	city := fx.CreateCity(ctx, south.ID, "Springfield")
	router := areas.Routes(h)

	req := httptest.NewRequest(http.MethodDelete, "/"+north.ID.Hex(), nil)
	req = shared.WithTestActor(req, fx.CityCoordinator(city.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}

	var got models.Area
	if err := fx.DB().Collection("areas").FindOne(ctx, bson.M{"_id": north.ID}).Decode(&got); err != nil {
		t.Fatalf("reloading area: %v", err)
	}
	if got.Status != "active" {
		t.Errorf("status = %q, want active", got.Status)
	}
}
