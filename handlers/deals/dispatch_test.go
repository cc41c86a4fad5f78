package deals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

	err = db.AutoMigrate(
		&models.User{},
		&models.Persona{},
		&models.Deal{},
		&models.DealMembership{},
		&models.Investor{},
		&models.InvestorUser{},
		&models.CommercialPartner{},
		&models.CommercialPartnerUser{},
		&models.Introducer{},
		&models.IntroducerUser{},
		&models.IntroducerAgreement{},
		&models.FeePlan{},
		&models.Commission{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	utils.PortalDB = db
	return db
}

func newStaffRouter(staff models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", staff)
		c.Next()
	})
	r.GET("/api/deals/:deal_id/dispatch", GetDispatch)
	r.POST("/api/deals/:deal_id/dispatch", DispatchUsers)
	return r
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", DisplayName: email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createDeal(t *testing.T, db *gorm.DB, status string) models.Deal {
	t.Helper()
	deal := models.Deal{Name: "Test Deal", Status: status, Currency: "USD"}
	if err := db.Create(&deal).Error; err != nil {
		t.Fatalf("failed to create deal: %v", err)
	}
	return deal
}

func postDispatch(t *testing.T, r *gin.Engine, dealID string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/deals/"+dealID+"/dispatch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestDispatchSkipsExistingMembersAndDispatchesEligible(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	userA := createUser(t, db, "a@portal.test")
	userB := createUser(t, db, "b@portal.test")

	now := time.Now()
	existing := models.DealMembership{
		DealID:       deal.ID,
		UserID:       userA.ID,
		Role:         models.RoleInvestor,
		InvitedBy:    staff.ID,
		InvitedAt:    now,
		DispatchedAt: &now,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("failed to create existing membership: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{userA.ID, userB.ID},
		"role":     models.RoleInvestor,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if got := body["dispatched_count"].(float64); got != 1 {
		t.Errorf("expected dispatched_count 1, got %v", got)
	}
	if got := body["skipped_count"].(float64); got != 1 {
		t.Errorf("expected skipped_count 1, got %v", got)
	}
	if got := body["blocked_count"].(float64); got != 0 {
		t.Errorf("expected blocked_count 0, got %v", got)
	}
	if blocked, ok := body["users_blocked"].([]interface{}); !ok {
		t.Errorf("expected users_blocked to be an empty array, got %v", body["users_blocked"])
	} else if len(blocked) != 0 {
		t.Errorf("expected no blocked users, got %v", blocked)
	}

	var memberships []models.DealMembership
	if err := db.Where("deal_id = ?", deal.ID).Find(&memberships).Error; err != nil {
		t.Fatalf("failed to fetch memberships: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 membership rows, got %d", len(memberships))
	}

	var membershipB models.DealMembership
	if err := db.Where("deal_id = ? AND user_id = ?", deal.ID, userB.ID).First(&membershipB).Error; err != nil {
		t.Fatalf("expected membership for user B: %v", err)
	}
	if membershipB.DispatchedAt == nil {
		t.Fatal("expected dispatched_at to be set")
	}
	if !membershipB.DispatchedAt.Equal(membershipB.InvitedAt) {
		t.Errorf("expected dispatched_at == invited_at, got %v and %v", membershipB.DispatchedAt, membershipB.InvitedAt)
	}
}

func TestDispatchIsIdempotentPerUser(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "investor@portal.test")

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("first dispatch failed: %d %s", w.Code, w.Body.String())
	}

	// The second call has nobody left to dispatch
	w = postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on repeat dispatch, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "AllUsersAlreadyMembers" {
		t.Errorf("expected AllUsersAlreadyMembers, got %v", body["error"])
	}

	var count int64
	if err := db.Model(&models.DealMembership{}).Where("deal_id = ? AND user_id = ?", deal.ID, user.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 membership row, got %d", count)
	}
}

func TestDispatchBlocksBlacklistedInvestorUsers(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	blocked := createUser(t, db, "blocked@portal.test")
	clean := createUser(t, db, "clean@portal.test")

	// Mixed case must still match
	investor := models.Investor{LegalName: "Bad Actor Ltd", Status: "BlackListed"}
	if err := db.Create(&investor).Error; err != nil {
		t.Fatalf("failed to create investor: %v", err)
	}
	if err := db.Create(&models.InvestorUser{UserID: blocked.ID, InvestorID: investor.ID}).Error; err != nil {
		t.Fatalf("failed to link investor: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{blocked.ID, clean.ID},
		"role":     models.RoleInvestor,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if got := body["blocked_count"].(float64); got != 1 {
		t.Errorf("expected blocked_count 1, got %v", got)
	}
	usersBlocked := body["users_blocked"].([]interface{})
	if len(usersBlocked) != 1 || usersBlocked[0] != blocked.ID {
		t.Errorf("expected users_blocked to name %s, got %v", blocked.ID, usersBlocked)
	}

	var count int64
	if err := db.Model(&models.DealMembership{}).Where("deal_id = ? AND user_id = ?", deal.ID, blocked.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("blacklisted user must not receive a membership, found %d rows", count)
	}
}

func TestDispatchFailsWhenAllUsersBlacklisted(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "blocked@portal.test")

	investor := models.Investor{LegalName: "Unauthorized Co", AccountApprovalStatus: "unauthorized"}
	if err := db.Create(&investor).Error; err != nil {
		t.Fatalf("failed to create investor: %v", err)
	}
	if err := db.Create(&models.InvestorUser{UserID: user.ID, InvestorID: investor.ID}).Error; err != nil {
		t.Fatalf("failed to link investor: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "AllUsersBlacklisted" {
		t.Errorf("expected AllUsersBlacklisted, got %v", body["error"])
	}
}

func TestDispatchValidatesEntityReferralBeforeAnyWrite(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "investor@portal.test")
	partner := models.CommercialPartner{LegalName: "Dist GmbH"}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}

	// Entity referral without a fee plan must fail validation
	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids":                []string{user.ID},
		"role":                    models.RoleInvestor,
		"referred_by_entity_id":   partner.ID,
		"referred_by_entity_type": "commercial_partner",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "ValidationError" {
		t.Errorf("expected ValidationError, got %v", body["error"])
	}

	var count int64
	if err := db.Model(&models.DealMembership{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("validation failure must not write memberships, found %d rows", count)
	}
}

func TestDispatchRejectsUnacceptedFeePlan(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "investor@portal.test")
	partner := models.CommercialPartner{LegalName: "Dist GmbH"}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}

	plan := models.FeePlan{
		DealID:     deal.ID,
		EntityID:   partner.ID,
		EntityType: "commercial_partner",
		Status:     models.FeePlanStatusSent,
		IsActive:   true,
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to create fee plan: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids":                []string{user.ID},
		"role":                    models.RoleCommercialPartnerInvestor,
		"referred_by_entity_id":   partner.ID,
		"referred_by_entity_type": "commercial_partner",
		"assigned_fee_plan_id":    plan.ID,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["error"] != "FeePlanNotAccepted" {
		t.Errorf("expected FeePlanNotAccepted, got %v", body["error"])
	}

	var count int64
	if err := db.Model(&models.DealMembership{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("no memberships may be written when the fee plan is not accepted, found %d", count)
	}
}

func TestDispatchRejectsInactiveAndMismatchedFeePlans(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	otherDeal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "investor@portal.test")
	partner := models.CommercialPartner{LegalName: "Dist GmbH"}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}

	inactive := models.FeePlan{
		DealID:     deal.ID,
		EntityID:   partner.ID,
		EntityType: "commercial_partner",
		Status:     models.FeePlanStatusAccepted,
		IsActive:   false,
	}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("failed to create fee plan: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids":                []string{user.ID},
		"role":                    models.RoleCommercialPartnerInvestor,
		"referred_by_entity_id":   partner.ID,
		"referred_by_entity_type": "commercial_partner",
		"assigned_fee_plan_id":    inactive.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inactive plan, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "FeePlanInactive" {
		t.Errorf("expected FeePlanInactive, got %v", body["error"])
	}

	// A plan scoped to another deal must not be accepted
	mismatched := models.FeePlan{
		DealID:     otherDeal.ID,
		EntityID:   partner.ID,
		EntityType: "commercial_partner",
		Status:     models.FeePlanStatusAccepted,
		IsActive:   true,
	}
	if err := db.Create(&mismatched).Error; err != nil {
		t.Fatalf("failed to create fee plan: %v", err)
	}

	w = postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids":                []string{user.ID},
		"role":                    models.RoleCommercialPartnerInvestor,
		"referred_by_entity_id":   partner.ID,
		"referred_by_entity_type": "commercial_partner",
		"assigned_fee_plan_id":    mismatched.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched plan, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "InvalidFeePlan" {
		t.Errorf("expected InvalidFeePlan, got %v", body["error"])
	}
}

func TestDispatchRequiresCurrentIntroducerAgreement(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	linked := createUser(t, db, "linked@portal.test")
	other := createUser(t, db, "other@portal.test")

	introducer := models.Introducer{LegalName: "Intro LLP"}
	if err := db.Create(&introducer).Error; err != nil {
		t.Fatalf("failed to create introducer: %v", err)
	}
	if err := db.Create(&models.IntroducerUser{UserID: linked.ID, IntroducerID: introducer.ID}).Error; err != nil {
		t.Fatalf("failed to link introducer: %v", err)
	}

	// Active and signed, but expired yesterday
	signed := time.Now().AddDate(0, -6, 0)
	expired := time.Now().AddDate(0, 0, -1)
	agreement := models.IntroducerAgreement{
		IntroducerID: introducer.ID,
		Status:       "active",
		SignedDate:   &signed,
		ExpiryDate:   &expired,
	}
	if err := db.Create(&agreement).Error; err != nil {
		t.Fatalf("failed to create agreement: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{linked.ID, other.ID},
		"role":     models.RoleIntroducerInvestor,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["error"] != "AgreementRequired" {
		t.Errorf("expected AgreementRequired, got %v", body["error"])
	}
	usersBlocked := body["users_blocked"].([]interface{})
	if len(usersBlocked) != 1 || usersBlocked[0] != linked.ID {
		t.Errorf("expected users_blocked to name %s, got %v", linked.ID, usersBlocked)
	}

	// The gate is all-or-nothing: nobody in the batch gets a membership
	var count int64
	if err := db.Model(&models.DealMembership{}).Where("deal_id = ?", deal.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no memberships after agreement failure, found %d", count)
	}
}

func TestDispatchAllowsIntroducerWithCurrentAgreement(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	linked := createUser(t, db, "linked@portal.test")

	introducer := models.Introducer{LegalName: "Intro LLP"}
	if err := db.Create(&introducer).Error; err != nil {
		t.Fatalf("failed to create introducer: %v", err)
	}
	if err := db.Create(&models.IntroducerUser{UserID: linked.ID, IntroducerID: introducer.ID}).Error; err != nil {
		t.Fatalf("failed to link introducer: %v", err)
	}

	signed := time.Now().AddDate(0, -1, 0)
	agreement := models.IntroducerAgreement{
		IntroducerID: introducer.ID,
		Status:       "active",
		SignedDate:   &signed,
		// nil expiry never expires
	}
	if err := db.Create(&agreement).Error; err != nil {
		t.Fatalf("failed to create agreement: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{linked.ID},
		"role":     models.RoleIntroducerInvestor,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if got := body["dispatched_count"].(float64); got != 1 {
		t.Errorf("expected dispatched_count 1, got %v", got)
	}
}

func TestDispatchProvisionsInvestorForCommercialPartnerUser(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "client@portal.test")

	partner := models.CommercialPartner{
		LegalName: "Dist GmbH",
		Email:     "ops@dist.test",
		Address:   "1 Bahnhofstrasse",
		KYCStatus: "approved",
	}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}
	if err := db.Create(&models.CommercialPartnerUser{UserID: user.ID, CommercialPartnerID: partner.ID}).Error; err != nil {
		t.Fatalf("failed to link partner user: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleCommercialPartnerInvestor,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var investor models.Investor
	if err := db.Where("commercial_partner_id = ?", partner.ID).First(&investor).Error; err != nil {
		t.Fatalf("expected auto-provisioned investor: %v", err)
	}
	if investor.LegalName != partner.LegalName {
		t.Errorf("expected legal name %q, got %q", partner.LegalName, investor.LegalName)
	}
	if investor.KYCStatus != "verified" {
		t.Errorf("approved partner KYC must map to verified, got %q", investor.KYCStatus)
	}

	var link models.InvestorUser
	if err := db.Where("user_id = ? AND investor_id = ?", user.ID, investor.ID).First(&link).Error; err != nil {
		t.Fatalf("expected investor user link: %v", err)
	}

	var membership models.DealMembership
	if err := db.Where("deal_id = ? AND user_id = ?", deal.ID, user.ID).First(&membership).Error; err != nil {
		t.Fatalf("expected membership: %v", err)
	}
	if membership.InvestorID == nil || *membership.InvestorID != investor.ID {
		t.Errorf("expected membership to reference the provisioned investor")
	}
}

func TestDispatchPendingKYCPartnerMapsToPending(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "client@portal.test")

	partner := models.CommercialPartner{LegalName: "Dist GmbH", KYCStatus: "in_review"}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}
	if err := db.Create(&models.CommercialPartnerUser{UserID: user.ID, CommercialPartnerID: partner.ID}).Error; err != nil {
		t.Fatalf("failed to link partner user: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleCommercialPartnerInvestor,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var investor models.Investor
	if err := db.Where("commercial_partner_id = ?", partner.ID).First(&investor).Error; err != nil {
		t.Fatalf("expected auto-provisioned investor: %v", err)
	}
	if investor.KYCStatus != "pending" {
		t.Errorf("non-approved partner KYC must map to pending, got %q", investor.KYCStatus)
	}
}

func TestDispatchSurfacesPartnerLookupFailure(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "client@portal.test")

	// A query failure on the partner link must not pass for "no link"
	if err := db.Migrator().DropTable(&models.CommercialPartnerUser{}); err != nil {
		t.Fatalf("failed to drop partner link table: %v", err)
	}

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleCommercialPartnerInvestor,
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for failed partner lookup, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.DealMembership{}).Where("deal_id = ?", deal.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no memberships after failed lookup, got %d", count)
	}
}

func TestDispatchRejectsClosedDeal(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusClosed)
	user := createUser(t, db, "investor@portal.test")

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "DealNotAvailable" {
		t.Errorf("expected DealNotAvailable, got %v", body["error"])
	}
}

func TestDispatchUnknownDealReturns404(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	user := createUser(t, db, "investor@portal.test")

	w := postDispatch(t, r, "b7f5ef96-0d9f-4fbd-9f38-1d7c36a77abc", map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "DealNotFound" {
		t.Errorf("expected DealNotFound, got %v", body["error"])
	}
}

func TestDispatchWritesAuditEntry(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	user := createUser(t, db, "investor@portal.test")

	w := postDispatch(t, r, deal.ID, map[string]interface{}{
		"user_ids": []string{user.ID},
		"role":     models.RoleInvestor,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("dispatch failed: %d %s", w.Code, w.Body.String())
	}

	var entry models.AuditLog
	if err := db.Where("action = ? AND entity_id = ?", "deal_dispatch", deal.ID).First(&entry).Error; err != nil {
		t.Fatalf("expected audit entry: %v", err)
	}
	if entry.Actor != staff.ID {
		t.Errorf("expected actor %s, got %s", staff.ID, entry.Actor)
	}

	var details map[string]interface{}
	if err := json.Unmarshal([]byte(entry.Details), &details); err != nil {
		t.Fatalf("audit details are not valid JSON: %v", err)
	}
	dispatched := details["dispatched_users"].([]interface{})
	if len(dispatched) != 1 || dispatched[0] != user.ID {
		t.Errorf("expected audit to record dispatched user %s, got %v", user.ID, dispatched)
	}
}

func TestGetDispatchFiltersMembersAndBlacklisted(t *testing.T) {
	db := setupTestDB(t)
	staff := createUser(t, db, "staff@portal.test")
	r := newStaffRouter(staff)

	deal := createDeal(t, db, models.DealStatusOpen)
	member := createUser(t, db, "member@portal.test")
	blocked := createUser(t, db, "blocked@portal.test")
	fresh := createUser(t, db, "fresh@portal.test")

	now := time.Now()
	if err := db.Create(&models.DealMembership{
		DealID: deal.ID, UserID: member.ID, Role: models.RoleInvestor,
		InvitedBy: staff.ID, InvitedAt: now, DispatchedAt: &now,
	}).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	investor := models.Investor{LegalName: "Bad Actor Ltd", Status: "blacklisted"}
	if err := db.Create(&investor).Error; err != nil {
		t.Fatalf("failed to create investor: %v", err)
	}
	if err := db.Create(&models.InvestorUser{UserID: blocked.ID, InvestorID: investor.ID}).Error; err != nil {
		t.Fatalf("failed to link investor: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/deals/"+deal.ID+"/dispatch", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	eligible := body["eligible_users"].([]interface{})

	ids := make(map[string]bool)
	for _, e := range eligible {
		ids[e.(map[string]interface{})["id"].(string)] = true
	}

	if ids[member.ID] {
		t.Error("existing member must not be listed as eligible")
	}
	if ids[blocked.ID] {
		t.Error("blacklisted user must not be listed as eligible")
	}
	if !ids[fresh.ID] {
		t.Error("fresh user should be listed as eligible")
	}
}
