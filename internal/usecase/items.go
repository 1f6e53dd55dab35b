package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ShelfWatch/internal/domain/models"
	"ShelfWatch/internal/domain/repository"
	"ShelfWatch/pkg/cache"
	applogger "ShelfWatch/pkg/logger"
	"ShelfWatch/pkg/util"
)

// ErrItemNotFound marks a lookup miss.
var ErrItemNotFound = errors.New("item not found")

const listKeyPrefix = "items"

// ItemsUsecase serves catalog reads and writes. List responses are cached
// when a cache service is configured; the cache is flushed wholesale whenever
// the stats refresher observes a store change.
type ItemsUsecase struct {
	store repository.RecordStore
	cache cache.Service
	ttl   time.Duration
	log   *applogger.Logger
}

func NewItemsUsecase(store repository.RecordStore, c cache.Service, ttl time.Duration, log *applogger.Logger) *ItemsUsecase {
	return &ItemsUsecase{store: store, cache: c, ttl: ttl, log: log}
}

// List returns one page of items matching the query (case-insensitive
// substring on name).
func (u *ItemsUsecase) List(ctx context.Context, req *models.ListItemsRequest) (*models.ItemPage, error) {
	q := util.NormalizeQuery(req.Q)
	key := cache.GenerateKeyWithParams(listKeyPrefix, q, req.Page, req.Limit)

	if u.cache != nil {
		var page models.ItemPage
		if err := u.cache.Get(ctx, key, &page); err == nil {
			return &page, nil
		}
	}

	items, err := u.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	filtered := items
	if q != "" {
		filtered = make([]models.Item, 0, len(items))
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Name), q) {
				filtered = append(filtered, it)
			}
		}
	}

	total := len(filtered)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	page := &models.ItemPage{
		Items:   filtered[start:end],
		Total:   total,
		Page:    req.Page,
		Limit:   req.Limit,
		HasMore: end < total,
	}
	if page.Items == nil {
		page.Items = []models.Item{}
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, page, u.ttl); err != nil {
			u.log.Warn("list cache set failed", applogger.Error(err))
		}
	}
	return page, nil
}

// Get returns a single item by ID.
func (u *ItemsUsecase) Get(ctx context.Context, id int64) (*models.Item, error) {
	items, err := u.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// Create appends a new item to the catalog. The watcher picks up the file
// change, so stats refresh on their own schedule.
func (u *ItemsUsecase) Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	item := models.Item{
		Name:     req.Name,
		Category: req.Category,
		Price:    json.Number(fmt.Sprintf("%g", req.Price)),
	}

	created, err := u.store.Append(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &created, nil
}

// InvalidateCache drops every cached list page. Wired as a refresh hook so
// list reads never trail the stats view for longer than one debounce window.
func (u *ItemsUsecase) InvalidateCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, cache.BuildPattern(listKeyPrefix)); err != nil {
		u.log.Warn("list cache invalidation failed", applogger.Error(err))
	}
}
