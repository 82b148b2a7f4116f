package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/gateway"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string, role model.Role) *model.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{ID: id, Name: "User " + id, Email: id + "@example.com", Password: string(hash), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, id string, priceCents int64) *model.Course {
	t.Helper()
	c := &model.Course{ID: id, Title: "Course " + id, Slug: "course-" + id, PriceCents: priceCents, Published: true}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

func seedEbook(t *testing.T, db *gorm.DB, id string, priceCents int64) *model.Ebook {
	t.Helper()
	e := &model.Ebook{ID: id, Title: "Ebook " + id, Slug: "ebook-" + id, PriceCents: priceCents, Published: true}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed ebook: %v", err)
	}
	return e
}

// fakeGateway is an in-memory gateway.Client; chargeStatus controls the
// status CreateCharge reports back.
type fakeGateway struct {
	chargeStatus string
	chargeErr    error
	lastCharge   gateway.ChargeRequest
	charges      int
}

func (f *fakeGateway) CreateCustomer(_ context.Context, _ gateway.Customer) (string, error) {
	return "cus_test", nil
}

func (f *fakeGateway) CreateCharge(_ context.Context, req gateway.ChargeRequest) (*gateway.Charge, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	f.lastCharge = req
	f.charges++
	status := f.chargeStatus
	if status == "" {
		status = gateway.ChargePending
	}
	return &gateway.Charge{
		ID:                "chg_test",
		Status:            status,
		BankSlipURL:       "https://gateway.example/boleto/chg_test",
		ExternalReference: req.ExternalReference,
	}, nil
}

func (f *fakeGateway) GetPixQRCode(_ context.Context, chargeID string) (*gateway.PixQRCode, error) {
	return &gateway.PixQRCode{Payload: "pix-copy-paste-" + chargeID, Image: "aW1n"}, nil
}

type testEnv struct {
	db           *gorm.DB
	users        repository.UserRepository
	catalog      repository.CatalogRepository
	orders       repository.OrderRepository
	entitlements repository.EntitlementRepository
	outbox       repository.OutboxRepository
	events       repository.WebhookEventRepository
	fulfiller    *Fulfiller
	ent          Entitlements
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupDB(t)
	users := repository.NewUserRepository(db)
	catalog := repository.NewCatalogRepository(db)
	orders := repository.NewOrderRepository(db)
	entRepo := repository.NewEntitlementRepository(db)
	outbox := repository.NewOutboxRepository(db)
	events := repository.NewWebhookEventRepository(db)
	return &testEnv{
		db:           db,
		users:        users,
		catalog:      catalog,
		orders:       orders,
		entitlements: entRepo,
		outbox:       outbox,
		events:       events,
		fulfiller:    NewFulfiller(orders, entRepo, users, outbox),
		ent:          NewEntitlementService(catalog, orders, entRepo),
	}
}
