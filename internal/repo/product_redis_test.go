package repo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-services/internal/models"
)

func setupTestRedis(t *testing.T) (*RedisProductRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	r := NewRedisProductRepository(rdb, "test")
	if err := r.Seed(context.Background(), SeedProducts()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return r, mr
}

func TestRedisProductRepository_Seed(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	// A second seed must not touch an existing list.
	if _, err := r.Create(ctx, "Phone", 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := r.Seed(ctx, SeedProducts()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	members, err := mr.ZMembers("test:products")
	if err != nil {
		t.Fatalf("could not read ids: %v", err)
	}
	if len(members) != 4 {
		t.Errorf("expected 4 ids, got %v", members)
	}
	if got := mr.HGet("test:product:2", "name"); got != "Television" {
		t.Errorf("expected Television stored under id 2, got %q", got)
	}
}

func TestRedisProductRepository_List(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ProductFilter
		want   []string
	}{
		{"defaults", ProductFilter{Page: DefaultPage, Limit: DefaultLimit}, []string{"Laptop", "Television", "Tablet"}},
		{"name filter", ProductFilter{Name: "lap", Page: DefaultPage, Limit: DefaultLimit}, []string{"Laptop"}},
		{"second page", ProductFilter{Page: "2", Limit: "1"}, []string{"Television"}},
		{"page past the end", ProductFilter{Page: "9", Limit: "1"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d products, got %v", len(tt.want), got)
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("product %d: expected %q, got %q", i, name, got[i].Name)
				}
			}
		})
	}
}

func TestRedisProductRepository_CRUD(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	created, err := r.Create(ctx, "Phone", 0)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 4 {
		t.Errorf("expected id 4, got %d", created.ID)
	}

	got, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	price := 19.99
	updated, err := r.Update(ctx, created.ID, models.ProductPatch{Price: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Phone" || updated.Price != 19.99 {
		t.Errorf("unexpected product after update: %+v", updated)
	}

	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := r.GetByID(ctx, created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}

	// The tail was removed, so its id comes back.
	again, _ := r.Create(ctx, "Radio", 3)
	if again.ID != 4 {
		t.Errorf("expected id 4 to be reused, got %d", again.ID)
	}
}

func TestRedisProductRepository_NotFound(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	if _, err := r.GetByID(ctx, 999); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("get: expected ErrProductNotFound, got %v", err)
	}
	if _, err := r.Update(ctx, 999, models.ProductPatch{}); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("update: expected ErrProductNotFound, got %v", err)
	}
	if err := r.Delete(ctx, 999); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestRedisProductRepository_ConcurrentCreates(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int]bool{}
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := r.Create(ctx, "Widget", 1)
			if err != nil {
				t.Errorf("create failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[p.ID] {
				t.Errorf("id %d assigned twice", p.ID)
			}
			seen[p.ID] = true
		}()
	}
	wg.Wait()

	all, _ := r.List(ctx, ProductFilter{Page: DefaultPage, Limit: "100"})
	if len(all) != n+3 {
		t.Errorf("expected %d products, got %d", n+3, len(all))
	}
}
