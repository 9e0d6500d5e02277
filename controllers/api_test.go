package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"salecrm-backend/database"
	"salecrm-backend/lifecycle"
	"salecrm-backend/middlewares"
	"salecrm-backend/models"
	"salecrm-backend/routes"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// setupApp wires the real router and middlewares over a fresh in-memory
// database. Tests run sequentially; database.DB points at the current one.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "api-test-secret")

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app)
	return app
}

// seedUser creates a user directly and mints an access token for it.
func seedUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		Username:       username,
		Email:          username + "@example.com",
		FullName:       username,
		HashedPassword: []byte("x"),
		Role:           role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	access, _, err := middlewares.GenerateTokenPair(user.Id, user.Role)
	if err != nil {
		t.Fatalf("token for %q: %v", username, err)
	}
	return user, access
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, raw)
	}
}

func createContact(t *testing.T, app *fiber.App, token, phone string) models.Contact {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/contacts", token, fiber.Map{
		"name":  "Contact " + phone,
		"phone": phone,
	})
	wantStatus(t, resp, fiber.StatusCreated)
	var contact models.Contact
	decode(t, resp, &contact)
	return contact
}

func TestRegisterLoginRefresh(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/users", "", fiber.Map{
		"username":  "carol",
		"email":     "carol@example.com",
		"full_name": "Carol Diaz",
		"password":  "secret123",
	})
	wantStatus(t, resp, fiber.StatusCreated)
	var created models.User
	decode(t, resp, &created)
	if created.Role != models.RoleSalesperson {
		t.Fatalf("role = %q, want default salesperson", created.Role)
	}

	resp = doJSON(t, app, fiber.MethodPost, "/api/users", "", fiber.Map{
		"username":  "carol",
		"email":     "other@example.com",
		"full_name": "Other",
		"password":  "secret123",
	})
	wantStatus(t, resp, fiber.StatusConflict)

	resp = doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"username": "carol",
		"password": "wrong",
	})
	wantStatus(t, resp, fiber.StatusUnauthorized)

	resp = doJSON(t, app, fiber.MethodPost, "/api/login", "", fiber.Map{
		"username": "carol",
		"password": "secret123",
	})
	wantStatus(t, resp, fiber.StatusOK)
	var login struct {
		ID           uint   `json:"id"`
		FullName     string `json:"full_name"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	decode(t, resp, &login)
	if login.AccessToken == "" || login.RefreshToken == "" || login.TokenType != "bearer" {
		t.Fatalf("unexpected login payload: %+v", login)
	}

	// The refresh token mints a fresh pair but is refused as an access token.
	resp = doJSON(t, app, fiber.MethodGet, "/api/contacts", login.RefreshToken, nil)
	wantStatus(t, resp, fiber.StatusUnauthorized)

	resp = doJSON(t, app, fiber.MethodPost, "/api/refresh", "", fiber.Map{
		"refresh_token": login.RefreshToken,
	})
	wantStatus(t, resp, fiber.StatusOK)
	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &refreshed)

	resp = doJSON(t, app, fiber.MethodGet, "/api/contacts", refreshed.AccessToken, nil)
	wantStatus(t, resp, fiber.StatusOK)
	resp.Body.Close()
}

func TestContactLockLifecycle(t *testing.T) {
	app := setupApp(t)
	_, aliceTok := seedUser(t, "alice", models.RoleSalesperson)
	_, bobTok := seedUser(t, "bob", models.RoleSalesperson)
	contact := createContact(t, app, aliceTok, "+46700000100")
	path := fmt.Sprintf("/api/contacts/%d/status", contact.ID)

	// Lowercase/underscore variants are rejected, never normalized.
	resp := doJSON(t, app, fiber.MethodPatch, path, aliceTok, fiber.Map{"status_name": "exclusive_lock"})
	wantStatus(t, resp, fiber.StatusUnprocessableEntity)

	resp = doJSON(t, app, fiber.MethodPatch, path, aliceTok, fiber.Map{"status_name": "Exclusive Lock"})
	wantStatus(t, resp, fiber.StatusNoContent)

	resp = doJSON(t, app, fiber.MethodGet, "/api/contacts/locked", bobTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var lockedList struct {
		Contacts []models.Contact `json:"contacts"`
	}
	decode(t, resp, &lockedList)
	if len(lockedList.Contacts) != 1 || lockedList.Contacts[0].ID != contact.ID {
		t.Fatalf("locked list = %+v, want just contact %d", lockedList.Contacts, contact.ID)
	}
	if lockedList.Contacts[0].LockedBy == nil {
		t.Fatal("locked list entry missing lock owner")
	}

	// Bob cannot move a contact Alice holds.
	resp = doJSON(t, app, fiber.MethodPatch, path, bobTok, fiber.Map{"status_name": "New"})
	wantStatus(t, resp, fiber.StatusForbidden)

	// Alice releases it; the list empties and Bob may move it.
	resp = doJSON(t, app, fiber.MethodPatch, path, aliceTok, fiber.Map{"status_name": "New"})
	wantStatus(t, resp, fiber.StatusNoContent)

	resp = doJSON(t, app, fiber.MethodGet, "/api/contacts/locked", aliceTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	decode(t, resp, &lockedList)
	if len(lockedList.Contacts) != 0 {
		t.Fatalf("locked list has %d entries after release", len(lockedList.Contacts))
	}

	// Moving by id works too.
	resp = doJSON(t, app, fiber.MethodGet, "/api/contact-statuses", bobTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var statuses struct {
		Statuses []models.ContactStatus `json:"statuses"`
	}
	decode(t, resp, &statuses)
	var followUpID uint
	for _, s := range statuses.Statuses {
		if s.Name == lifecycle.StatusFollowUp.String() {
			followUpID = s.ID
		}
	}
	if followUpID == 0 {
		t.Fatal("Follow Up status missing from seed")
	}
	resp = doJSON(t, app, fiber.MethodPatch, path, bobTok, fiber.Map{"status_id": followUpID})
	wantStatus(t, resp, fiber.StatusNoContent)
}

func TestViewClaimsNewContact(t *testing.T) {
	app := setupApp(t)
	alice, aliceTok := seedUser(t, "alice", models.RoleSalesperson)
	_, bobTok := seedUser(t, "bob", models.RoleSalesperson)
	contact := createContact(t, app, aliceTok, "+46700000101")
	path := fmt.Sprintf("/api/contacts/%d", contact.ID)

	resp := doJSON(t, app, fiber.MethodGet, path, aliceTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var got models.Contact
	decode(t, resp, &got)
	if got.Status == nil || got.Status.Name != lifecycle.StatusExclusiveLock.String() {
		t.Fatalf("status = %v, want Exclusive Lock after first view", got.Status)
	}
	if got.LockedByID == nil || *got.LockedByID != alice.Id {
		t.Fatalf("locked_by = %v, want %d", got.LockedByID, alice.Id)
	}

	// Bob can still read it, but the lock stays with Alice.
	resp = doJSON(t, app, fiber.MethodGet, path, bobTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	decode(t, resp, &got)
	if got.LockedByID == nil || *got.LockedByID != alice.Id {
		t.Fatalf("locked_by = %v after Bob's view, want %d", got.LockedByID, alice.Id)
	}

	// Profile writes respect the lock.
	resp = doJSON(t, app, fiber.MethodPut, path, bobTok, fiber.Map{"name": "Hijacked"})
	wantStatus(t, resp, fiber.StatusForbidden)

	resp = doJSON(t, app, fiber.MethodPut, path, aliceTok, fiber.Map{"name": "Renamed"})
	wantStatus(t, resp, fiber.StatusOK)
	decode(t, resp, &got)
	if got.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", got.Name)
	}
}

func TestCallDispositionMovesContact(t *testing.T) {
	app := setupApp(t)
	_, tok := seedUser(t, "alice", models.RoleSalesperson)
	contact := createContact(t, app, tok, "+46700000102")

	resp := doJSON(t, app, fiber.MethodPost, "/api/calls", tok, fiber.Map{
		"contact_id":  contact.ID,
		"duration":    0,
		"disposition": "DNC",
	})
	wantStatus(t, resp, fiber.StatusUnprocessableEntity)

	resp = doJSON(t, app, fiber.MethodPost, "/api/calls", tok, fiber.Map{
		"contact_id": contact.ID,
		"duration":   5,
		"status":     "wrapped up",
	})
	wantStatus(t, resp, fiber.StatusBadRequest)

	resp = doJSON(t, app, fiber.MethodPost, "/api/calls", tok, fiber.Map{
		"contact_id":  contact.ID,
		"duration":    5,
		"status":      "completed",
		"disposition": "DNC",
	})
	wantStatus(t, resp, fiber.StatusCreated)
	var call models.Call
	decode(t, resp, &call)
	if call.Status != models.CallCompleted {
		t.Fatalf("call status = %q, want completed", call.Status)
	}

	var got models.Contact
	if err := database.DB.Preload("Status").First(&got, contact.ID).Error; err != nil {
		t.Fatalf("reload contact: %v", err)
	}
	if got.Status.Name != lifecycle.StatusDoNotContact.String() {
		t.Fatalf("status = %q, want Do Not Contact", got.Status.Name)
	}

	// Unmapped tags record the call but leave the contact alone.
	resp = doJSON(t, app, fiber.MethodPost, "/api/calls", tok, fiber.Map{
		"contact_id":  contact.ID,
		"duration":    2,
		"disposition": "NO ANSWER",
	})
	wantStatus(t, resp, fiber.StatusCreated)
	resp.Body.Close()
	if err := database.DB.Preload("Status").First(&got, contact.ID).Error; err != nil {
		t.Fatalf("reload contact: %v", err)
	}
	if got.Status.Name != lifecycle.StatusDoNotContact.String() {
		t.Fatalf("status = %q, want Do Not Contact still", got.Status.Name)
	}
}

func TestContactStatusCreationRules(t *testing.T) {
	app := setupApp(t)
	_, adminTok := seedUser(t, "boss", models.RoleAdmin)
	_, repTok := seedUser(t, "rep", models.RoleSalesperson)

	resp := doJSON(t, app, fiber.MethodPost, "/api/contact-statuses", repTok, fiber.Map{"name": "New"})
	wantStatus(t, resp, fiber.StatusForbidden)

	resp = doJSON(t, app, fiber.MethodPost, "/api/contact-statuses", adminTok, fiber.Map{"name": "exclusive_lock"})
	wantStatus(t, resp, fiber.StatusUnprocessableEntity)

	// Seeding already created every canonical row.
	resp = doJSON(t, app, fiber.MethodPost, "/api/contact-statuses", adminTok, fiber.Map{"name": "New"})
	wantStatus(t, resp, fiber.StatusBadRequest)

	resp = doJSON(t, app, fiber.MethodGet, "/api/contact-statuses", repTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var statuses struct {
		Statuses []models.ContactStatus `json:"statuses"`
	}
	decode(t, resp, &statuses)
	if len(statuses.Statuses) != 6 {
		t.Fatalf("statuses = %d, want 6", len(statuses.Statuses))
	}
}

func TestSaleUniquePerUserAndContact(t *testing.T) {
	app := setupApp(t)
	rep, tok := seedUser(t, "rep", models.RoleSalesperson)
	contact := createContact(t, app, tok, "+46700000103")

	resp := doJSON(t, app, fiber.MethodGet, "/api/sale-statuses", tok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var statuses struct {
		Statuses []models.SaleStatus `json:"statuses"`
	}
	decode(t, resp, &statuses)
	if len(statuses.Statuses) == 0 {
		t.Fatal("sale statuses not seeded")
	}
	statusID := statuses.Statuses[0].ID

	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", tok, fiber.Map{
		"user_id":     rep.Id,
		"contact_id":  contact.ID,
		"status_id":   statusID,
		"sale_amount": -10,
	})
	wantStatus(t, resp, fiber.StatusUnprocessableEntity)

	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", tok, fiber.Map{
		"user_id":     rep.Id,
		"contact_id":  contact.ID,
		"status_id":   statusID,
		"sale_amount": 1999.999,
	})
	wantStatus(t, resp, fiber.StatusCreated)
	var sale models.Sale
	decode(t, resp, &sale)
	if sale.SaleAmount != 2000.00 {
		t.Fatalf("sale_amount = %v, want rounded 2000", sale.SaleAmount)
	}
	if sale.PaymentStatus != "Pending" {
		t.Fatalf("payment_status = %q, want Pending default", sale.PaymentStatus)
	}

	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", tok, fiber.Map{
		"user_id":     rep.Id,
		"contact_id":  contact.ID,
		"status_id":   statusID,
		"sale_amount": 500,
	})
	wantStatus(t, resp, fiber.StatusConflict)

	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", tok, fiber.Map{
		"user_id":     rep.Id,
		"contact_id":  99999,
		"status_id":   statusID,
		"sale_amount": 500,
	})
	wantStatus(t, resp, fiber.StatusNotFound)
}

func TestImportContactsCSV(t *testing.T) {
	app := setupApp(t)
	_, tok := seedUser(t, "alice", models.RoleSalesperson)
	createContact(t, app, tok, "+46700000104")

	csvBody := "name,phone,email,deal_value\n" +
		"Anna,+46700000104,anna@example.com,100\n" + // duplicate phone
		"Bjorn,+46700000105,bjorn@example.com,250.559\n" +
		"NoPhone,,nophone@example.com,10\n" +
		"Cecilia,+46700000106,,\n"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "leads.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, "/api/contacts/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	wantStatus(t, resp, fiber.StatusCreated)

	var batch models.ImportBatch
	decode(t, resp, &batch)
	if batch.Rows != 4 || batch.Created != 2 || batch.Skipped != 2 {
		t.Fatalf("batch = rows %d created %d skipped %d, want 4/2/2", batch.Rows, batch.Created, batch.Skipped)
	}
	if batch.Id == "" {
		t.Fatal("batch id not assigned")
	}

	var total int64
	if err := database.DB.Model(&models.Contact{}).Count(&total).Error; err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if total != 3 {
		t.Fatalf("contacts = %d, want 3", total)
	}

	var imported models.Contact
	if err := database.DB.Preload("Status").Where("phone = ?", "+46700000105").First(&imported).Error; err != nil {
		t.Fatalf("imported contact: %v", err)
	}
	if imported.Status == nil || imported.Status.Name != lifecycle.StatusNew.String() {
		t.Fatalf("imported status = %v, want New", imported.Status)
	}
	if imported.DealValue == nil || *imported.DealValue != 250.56 {
		t.Fatalf("deal_value = %v, want 250.56", imported.DealValue)
	}
}

func TestIdempotentContactCreation(t *testing.T) {
	app := setupApp(t)
	_, tok := seedUser(t, "alice", models.RoleSalesperson)

	body := []byte(`{"name":"Idem","phone":"+46700000107"}`)
	send := func() *http.Response {
		req := httptest.NewRequest(fiber.MethodPost, "/api/contacts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Idempotency-Key", "create-idem-1")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		return resp
	}

	first := send()
	wantStatus(t, first, fiber.StatusCreated)
	var a models.Contact
	decode(t, first, &a)

	second := send()
	wantStatus(t, second, fiber.StatusCreated)
	var b models.Contact
	decode(t, second, &b)
	if a.ID != b.ID {
		t.Fatalf("replay produced a different contact: %d vs %d", a.ID, b.ID)
	}

	var total int64
	if err := database.DB.Model(&models.Contact{}).Count(&total).Error; err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if total != 1 {
		t.Fatalf("contacts = %d, want 1", total)
	}

	// Same key with a different body is refused.
	req := httptest.NewRequest(fiber.MethodPost, "/api/contacts", bytes.NewReader([]byte(`{"name":"Other","phone":"+46700000108"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Idempotency-Key", "create-idem-1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	wantStatus(t, resp, fiber.StatusConflict)
	resp.Body.Close()
}

func TestContactHistoryEndpoint(t *testing.T) {
	app := setupApp(t)
	_, tok := seedUser(t, "alice", models.RoleSalesperson)
	contact := createContact(t, app, tok, "+46700000109")
	statusPath := fmt.Sprintf("/api/contacts/%d/status", contact.ID)

	resp := doJSON(t, app, fiber.MethodPatch, statusPath, tok, fiber.Map{"status_name": "Exclusive Lock"})
	wantStatus(t, resp, fiber.StatusNoContent)
	resp = doJSON(t, app, fiber.MethodPatch, statusPath, tok, fiber.Map{"status_name": "Follow Up"})
	wantStatus(t, resp, fiber.StatusNoContent)

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/contacts/%d/history", contact.ID), tok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var history struct {
		Transitions []models.ContactStatusTransition `json:"transitions"`
	}
	decode(t, resp, &history)
	if len(history.Transitions) != 2 {
		t.Fatalf("transitions = %d, want 2", len(history.Transitions))
	}
	for _, tr := range history.Transitions {
		if tr.Source != lifecycle.SourceManual {
			t.Fatalf("source = %q, want manual", tr.Source)
		}
	}

	resp = doJSON(t, app, fiber.MethodGet, "/api/contacts/99999/history", tok, nil)
	wantStatus(t, resp, fiber.StatusNotFound)
	resp.Body.Close()
}

func TestUserAdminRules(t *testing.T) {
	app := setupApp(t)
	admin, adminTok := seedUser(t, "boss", models.RoleAdmin)
	rep, repTok := seedUser(t, "rep", models.RoleSalesperson)

	resp := doJSON(t, app, fiber.MethodGet, "/api/users", repTok, nil)
	wantStatus(t, resp, fiber.StatusForbidden)

	resp = doJSON(t, app, fiber.MethodGet, "/api/users", adminTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var list struct {
		Users []models.User `json:"users"`
	}
	decode(t, resp, &list)
	if len(list.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(list.Users))
	}

	// A rep may view themselves but not others.
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/users/%d", rep.Id), repTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/users/%d", admin.Id), repTok, nil)
	wantStatus(t, resp, fiber.StatusForbidden)
	resp.Body.Close()

	// Role changes are admin only.
	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/users/%d", rep.Id), repTok, fiber.Map{"role": "admin"})
	wantStatus(t, resp, fiber.StatusForbidden)
	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/users/%d", rep.Id), adminTok, fiber.Map{"role": "admin"})
	wantStatus(t, resp, fiber.StatusOK)
	var updated models.User
	decode(t, resp, &updated)
	if updated.Role != models.RoleAdmin {
		t.Fatalf("role = %q, want admin", updated.Role)
	}
}

func TestDeleteUserReleasesLocks(t *testing.T) {
	app := setupApp(t)
	_, adminTok := seedUser(t, "boss", models.RoleAdmin)
	rep, repTok := seedUser(t, "rep", models.RoleSalesperson)
	contact := createContact(t, app, repTok, "+46700000110")

	// Rep claims the contact by viewing it.
	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/contacts/%d", contact.ID), repTok, nil)
	wantStatus(t, resp, fiber.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/users/%d", rep.Id), adminTok, nil)
	wantStatus(t, resp, fiber.StatusNoContent)
	resp.Body.Close()

	var got models.Contact
	if err := database.DB.Preload("Status").First(&got, contact.ID).Error; err != nil {
		t.Fatalf("reload contact: %v", err)
	}
	if got.Status == nil || got.Status.Name != lifecycle.StatusNew.String() {
		t.Fatalf("status = %v, want New after owner deletion", got.Status)
	}
	if got.LockedByID != nil {
		t.Fatalf("locked_by = %v, want nil", got.LockedByID)
	}
}
