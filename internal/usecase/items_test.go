package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ShelfWatch/internal/domain/models"
	"ShelfWatch/pkg/cache"
	applogger "ShelfWatch/pkg/logger"
)

type fakeStore struct {
	items    []models.Item
	err      error
	reads    int
	appended []models.Item
}

func (f *fakeStore) ReadAll(context.Context) ([]models.Item, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeStore) Append(_ context.Context, item models.Item) (models.Item, error) {
	if f.err != nil {
		return models.Item{}, f.err
	}
	item.ID = int64(len(f.items) + 1)
	f.items = append(f.items, item)
	f.appended = append(f.appended, item)
	return item, nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func catalog() []models.Item {
	return []models.Item{
		{ID: 1, Name: "Walnut Desk", Price: "100"},
		{ID: 2, Name: "Ceramic Mug", Price: "12"},
		{ID: 3, Name: "Desk Lamp", Price: "45"},
		{ID: 4, Name: "Linen Blanket", Price: "42"},
	}
}

func TestListFiltersByName(t *testing.T) {
	u := NewItemsUsecase(&fakeStore{items: catalog()}, nil, 0, testLogger(t))

	page, err := u.List(context.Background(), &models.ListItemsRequest{Q: "desk", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 desks, got %+v", page)
	}
}

func TestListPaginates(t *testing.T) {
	u := NewItemsUsecase(&fakeStore{items: catalog()}, nil, 0, testLogger(t))

	page, err := u.List(context.Background(), &models.ListItemsRequest{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 1 {
		t.Fatalf("expected last page of 1, got %+v", page)
	}
	if page.HasMore {
		t.Fatalf("last page must not report more")
	}
	if page.Items[0].ID != 4 {
		t.Fatalf("wrong page slice: %+v", page.Items)
	}
}

func TestListPageBeyondEnd(t *testing.T) {
	u := NewItemsUsecase(&fakeStore{items: catalog()}, nil, 0, testLogger(t))

	page, err := u.List(context.Background(), &models.ListItemsRequest{Page: 9, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 4 {
		t.Fatalf("expected empty page with full total, got %+v", page)
	}
}

func TestListUsesCache(t *testing.T) {
	fs := &fakeStore{items: catalog()}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	u := NewItemsUsecase(fs, mem, time.Minute, testLogger(t))

	req := &models.ListItemsRequest{Q: "mug", Page: 1, Limit: 10}
	if _, err := u.List(context.Background(), req); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := u.List(context.Background(), req); err != nil {
		t.Fatalf("list: %v", err)
	}
	if fs.reads != 1 {
		t.Fatalf("expected 1 store read, got %d", fs.reads)
	}

	u.InvalidateCache(context.Background())
	if _, err := u.List(context.Background(), req); err != nil {
		t.Fatalf("list: %v", err)
	}
	if fs.reads != 2 {
		t.Fatalf("expected re-read after invalidation, got %d", fs.reads)
	}
}

func TestGetReturnsNotFound(t *testing.T) {
	u := NewItemsUsecase(&fakeStore{items: catalog()}, nil, 0, testLogger(t))

	if _, err := u.Get(context.Background(), 99); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	item, err := u.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Name != "Ceramic Mug" {
		t.Fatalf("wrong item %+v", item)
	}
}

func TestCreateCarriesPrice(t *testing.T) {
	fs := &fakeStore{}
	u := NewItemsUsecase(fs, nil, 0, testLogger(t))

	item, err := u.Create(context.Background(), &models.CreateItemRequest{Name: "Kettle", Price: 58.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err := item.Price.Float64()
	if err != nil || p != 58.5 {
		t.Fatalf("price mangled: %v %v", item.Price, err)
	}
	if len(fs.appended) != 1 {
		t.Fatalf("append not reached")
	}
}
