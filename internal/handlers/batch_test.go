package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrichain/agrichaingo/internal/ai"
	"github.com/agrichain/agrichaingo/internal/config"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/agrichain/agrichaingo/internal/trace"
	"github.com/agrichain/agrichaingo/internal/utils"
	"github.com/agrichain/agrichaingo/internal/websocket"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, Port: "0"}
	memStore := store.NewMemoryStore()
	traceSvc := trace.NewService(memStore, nil)
	return NewRouter(nil, memStore, traceSvc, websocket.NewHub(), ai.CannedSuggester{}, cfg)
}

func tokenFor(t *testing.T, id, name string, role models.Role) string {
	t.Helper()
	access, _, err := utils.GenerateTokens(&models.UserAuth{
		ID: id, Email: id + "@test.com", Name: name, Role: role,
	}, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	return access
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createTestBatch(t *testing.T, router *Router, farmerToken string) models.Batch {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/batches", farmerToken, map[string]interface{}{
		"cropType":     "Organic Tomatoes",
		"farmLocation": "Green Valley Farms, CA",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create batch status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var batch models.Batch
	if err := json.Unmarshal(rec.Body.Bytes(), &batch); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	return batch
}

func TestBatchesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/batches", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateBatchFarmerOnly(t *testing.T) {
	router := newTestRouter(t)
	distToken := tokenFor(t, "user-dist-1", "Bob Distributor", models.RoleDistributor)

	rec := doJSON(t, router, "POST", "/api/batches", distToken, map[string]interface{}{
		"cropType": "Organic Tomatoes",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCreateAndFetchBatch(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)

	batch := createTestBatch(t, router, farmerToken)
	if batch.CurrentStage != models.StageHarvested {
		t.Errorf("currentStage = %s, want HARVESTED", batch.CurrentStage)
	}
	if len(batch.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(batch.History))
	}
	if batch.FarmerName != "Alice Farmer" {
		t.Errorf("farmerName = %q", batch.FarmerName)
	}

	rec := doJSON(t, router, "GET", "/api/batches/"+batch.ID, farmerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get batch status = %d, want 200", rec.Code)
	}

	// The public trace view needs no token
	rec = doJSON(t, router, "GET", "/trace/"+batch.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("public trace status = %d, want 200", rec.Code)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)

	rec := doJSON(t, router, "GET", "/api/batches/B999", farmerToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAdvanceStage(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)
	batch := createTestBatch(t, router, farmerToken)

	rec := doJSON(t, router, "POST", "/api/batches/"+batch.ID+"/advance", farmerToken,
		map[string]interface{}{"details": map[string]string{"vehicleId": "TRUCK-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("advance status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		NewStage models.StageName `json:"newStage"`
		Batch    models.Batch     `json:"batch"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NewStage != models.StageInTransit {
		t.Errorf("newStage = %s, want IN_TRANSIT", resp.NewStage)
	}
	if len(resp.Batch.History) != 2 {
		t.Errorf("history length = %d, want 2", len(resp.Batch.History))
	}
}

func TestAdvanceStageWrongRole(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)
	consumerToken := tokenFor(t, "user-consumer-1", "Charlie Consumer", models.RoleConsumer)
	batch := createTestBatch(t, router, farmerToken)

	rec := doJSON(t, router, "POST", "/api/batches/"+batch.ID+"/advance", consumerToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("advance status = %d, want 403", rec.Code)
	}

	// The decline carries guidance: which stage comes next and who may
	// perform the advance.
	var denied struct {
		Error         string           `json:"error"`
		PermittedNext models.StageName `json:"permittedNext"`
		RequiredRole  models.Role      `json:"requiredRole"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &denied); err != nil {
		t.Fatalf("decode 403 body: %v", err)
	}
	if denied.Error == "" {
		t.Error("403 body has no error message")
	}
	if denied.PermittedNext != models.StageInTransit {
		t.Errorf("permittedNext = %q, want IN_TRANSIT", denied.PermittedNext)
	}
	if denied.RequiredRole != models.RoleFarmer {
		t.Errorf("requiredRole = %q, want FARMER", denied.RequiredRole)
	}

	// The declined advance must not have touched the batch
	rec = doJSON(t, router, "GET", "/api/batches/"+batch.ID, farmerToken, nil)
	var got models.Batch
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if got.CurrentStage != models.StageHarvested {
		t.Errorf("currentStage = %s, want HARVESTED", got.CurrentStage)
	}
}

func TestAdvanceStageNotFound(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)

	rec := doJSON(t, router, "POST", "/api/batches/B999/advance", farmerToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListBatchesVisibility(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)
	distToken := tokenFor(t, "user-dist-1", "Bob Distributor", models.RoleDistributor)

	createTestBatch(t, router, farmerToken)

	// Distributor sees nothing until a batch reaches IN_TRANSIT
	rec := doJSON(t, router, "GET", "/api/batches", distToken, nil)
	var batches []models.Batch
	if err := json.Unmarshal(rec.Body.Bytes(), &batches); err != nil {
		t.Fatalf("decode batches: %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("distributor sees %d batches before transit, want 0", len(batches))
	}

	rec = doJSON(t, router, "GET", "/api/batches", farmerToken, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &batches); err != nil {
		t.Fatalf("decode batches: %v", err)
	}
	if len(batches) != 1 {
		t.Errorf("farmer sees %d batches, want 1", len(batches))
	}
}

func TestPublicQRCode(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)
	batch := createTestBatch(t, router, farmerToken)

	rec := doJSON(t, router, "GET", "/trace/"+batch.ID+"/qr", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("qr status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
}

func TestRecipesRequireCrop(t *testing.T) {
	router := newTestRouter(t)
	farmerToken := tokenFor(t, "user-farmer-1", "Alice Farmer", models.RoleFarmer)

	rec := doJSON(t, router, "GET", "/api/recipes", farmerToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/recipes?crop=strawberries", farmerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Recipes []ai.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recipes) == 0 {
		t.Error("no recipes returned")
	}
}
