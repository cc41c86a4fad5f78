package feeplans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Deal{}, &models.FeePlan{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	utils.PortalDB = db
	return db
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/deals/:deal_id/fee-plans", CreateFeePlan)
	r.PUT("/api/fee-plans/:fee_plan_id/status", UpdateFeePlanStatus)
	return r
}

func putStatus(t *testing.T, r *gin.Engine, planID, status string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"status": status})
	req := httptest.NewRequest(http.MethodPut, "/api/fee-plans/"+planID+"/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFeePlanStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter()

	deal := models.Deal{Name: "Deal", Status: models.DealStatusOpen}
	if err := db.Create(&deal).Error; err != nil {
		t.Fatalf("failed to create deal: %v", err)
	}

	plan := models.FeePlan{DealID: deal.ID, EntityID: "e-1", EntityType: "introducer", Status: models.FeePlanStatusDraft, IsActive: true}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}

	// draft cannot jump straight to accepted
	if w := putStatus(t, r, plan.ID, models.FeePlanStatusAccepted); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for draft->accepted, got %d", w.Code)
	}

	if w := putStatus(t, r, plan.ID, models.FeePlanStatusSent); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for draft->sent, got %d: %s", w.Code, w.Body.String())
	}
	if w := putStatus(t, r, plan.ID, models.FeePlanStatusAccepted); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for sent->accepted, got %d: %s", w.Code, w.Body.String())
	}

	// accepted is terminal
	if w := putStatus(t, r, plan.ID, models.FeePlanStatusRejected); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for accepted->rejected, got %d", w.Code)
	}

	var reloaded models.FeePlan
	if err := db.First(&reloaded, "id = ?", plan.ID).Error; err != nil {
		t.Fatalf("failed to reload plan: %v", err)
	}
	if reloaded.Status != models.FeePlanStatusAccepted {
		t.Errorf("expected accepted, got %s", reloaded.Status)
	}
}

func TestDeactivatedFeePlanStaysInactive(t *testing.T) {
	db := setupTestDB(t)

	deal := models.Deal{Name: "Deal", Status: models.DealStatusOpen}
	if err := db.Create(&deal).Error; err != nil {
		t.Fatalf("failed to create deal: %v", err)
	}

	plan := models.FeePlan{DealID: deal.ID, EntityID: "e-1", EntityType: "introducer", Status: models.FeePlanStatusAccepted, IsActive: false}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}

	var reloaded models.FeePlan
	if err := db.First(&reloaded, "id = ?", plan.ID).Error; err != nil {
		t.Fatalf("failed to reload plan: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("inactive plan was stored as active")
	}
}

func TestCreateFeePlanValidatesEntityType(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter()

	deal := models.Deal{Name: "Deal", Status: models.DealStatusOpen}
	if err := db.Create(&deal).Error; err != nil {
		t.Fatalf("failed to create deal: %v", err)
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"entity_id":   "e-1",
		"entity_type": "charity",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/deals/"+deal.ID+"/fee-plans", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown entity type, got %d", w.Code)
	}
}
