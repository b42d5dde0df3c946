package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger", "billing.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

	t.Run("Load on a fresh database is empty", func(t *testing.T) {
		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Len() != 0 {
			t.Errorf("Expected no clients, got %d", loaded.Len())
		}
	})

	t.Run("Save and Load round trip", func(t *testing.T) {
		original := ledger.New()
		bill := original.GetOrCreateClient("Acme").AddBill(at)
		for _, item := range [][2]string{{"Widget", "9.99"}, {"Gadget", "19.5"}} {
			price, err := ledger.ParsePrice(item[1])
			if err != nil {
				t.Fatalf("ParsePrice failed: %v", err)
			}
			if _, err := bill.AddProduct(item[0], price); err != nil {
				t.Fatalf("AddProduct failed: %v", err)
			}
		}
		original.GetOrCreateClient("Acme").AddBill(at.Add(time.Hour))
		original.GetOrCreateClient("Initech")

		if err := store.Save(ctx, original); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		clients := loaded.Clients()
		if len(clients) != 2 || clients[0].Name() != "Acme" || clients[1].Name() != "Initech" {
			t.Fatalf("Unexpected clients: %v", clients)
		}

		bills := clients[0].Bills()
		if len(bills) != 2 {
			t.Fatalf("Expected 2 bills, got %d", len(bills))
		}
		if ledger.FormatTimestamp(bills[0].At()) != "2024-01-01 10:00:00" {
			t.Errorf("Unexpected first bill %s", bills[0])
		}
		if len(bills[1].Products()) != 0 {
			t.Errorf("Expected the second bill to be empty")
		}

		products := bills[0].Products()
		if len(products) != 2 {
			t.Fatalf("Expected 2 products, got %d", len(products))
		}
		if products[0].String() != "Widget ($9.99)" || products[1].String() != "Gadget ($19.50)" {
			t.Errorf("Unexpected products: %v", products)
		}
	})

	t.Run("Save replaces previous contents", func(t *testing.T) {
		replacement := ledger.New()
		replacement.GetOrCreateClient("Globex")

		if err := store.Save(ctx, replacement); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Len() != 1 || loaded.Clients()[0].Name() != "Globex" {
			t.Errorf("Expected only Globex, got %v", loaded.Clients())
		}
	})
}
