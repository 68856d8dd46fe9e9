package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
)

func fixtures(t *testing.T) (*repos.UserRepo, *repos.ItemRepo, *repos.CartRepo, domain.User, domain.Item) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	users := repos.NewUserRepo(db)
	items := repos.NewItemRepo(db)
	carts := repos.NewCartRepo(db)

	u := domain.User{ID: "u-1", Username: "tester", Hash: "x"}
	if err := users.Create(u); err != nil {
		t.Fatal(err)
	}
	it := domain.Item{
		ID:          "i-1",
		Name:        "Lamp",
		Description: "d",
		Price:       decimal.RequireFromString("10.00"),
		Available:   true,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		SellerID:    u.ID,
	}
	if err := items.Create(it); err != nil {
		t.Fatal(err)
	}
	return users, items, carts, u, it
}

func TestCartService_AddIsIdempotent(t *testing.T) {
	_, items, carts, u, it := fixtures(t)
	svc := services.NewCartService(carts, items)

	for i := 0; i < 3; i++ {
		view, err := svc.Add(u, it.ID)
		if err != nil {
			t.Fatalf("add #%d: %v", i+1, err)
		}
		if len(view.Items) != 1 {
			t.Fatalf("add #%d: want 1 item, got %d", i+1, len(view.Items))
		}
	}
}

func TestCartService_RemoveAbsentIsNoop(t *testing.T) {
	_, items, carts, u, it := fixtures(t)
	svc := services.NewCartService(carts, items)

	view, err := svc.Remove(u, it.ID)
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("want empty cart, got %d items", len(view.Items))
	}
}

func TestCartService_UnknownItem(t *testing.T) {
	_, items, carts, u, _ := fixtures(t)
	svc := services.NewCartService(carts, items)

	if _, err := svc.Add(u, "missing"); err != services.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCartService_LazyCartCreation(t *testing.T) {
	_, items, carts, u, it := fixtures(t)
	svc := services.NewCartService(carts, items)

	// no cart row exists yet; first mutation creates it
	if _, err := carts.ByOwner(u.ID); err == nil {
		t.Fatal("expected no cart before first use")
	}
	if _, err := svc.Add(u, it.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := carts.ByOwner(u.ID); err != nil {
		t.Fatalf("expected cart after first use: %v", err)
	}
}
