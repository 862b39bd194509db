package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/events"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
)

// InventoryStore is the item store consumed by InventoryService.
type InventoryStore interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id uint64) (*model.Item, error)
	Create(ctx context.Context, name string, quantity int) (*model.Item, error)
	Update(ctx context.Context, id uint64, name string, quantity int) (*model.Item, error)
	Delete(ctx context.Context, id uint64) error
}

// InventoryService maps item CRUD onto the store and records audit events.
// It has no business rules beyond existence checks.
type InventoryService struct {
	items     InventoryStore
	publisher events.Publisher
	logger    *zap.Logger
}

func NewInventoryService(items InventoryStore, publisher events.Publisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{items: items, publisher: publisher, logger: logger}
}

func (s *InventoryService) List(ctx context.Context) ([]model.Item, error) {
	return s.items.List(ctx)
}

func (s *InventoryService) Get(ctx context.Context, id uint64) (*model.Item, error) {
	it, err := s.items.Get(ctx, id)
	return it, notFound(err)
}

// Create always produces a new item, so it is the one operation that is not
// safe to retry.
func (s *InventoryService) Create(ctx context.Context, req model.ItemRequest, actor *model.User) (*model.Item, error) {
	it, err := s.items.Create(ctx, req.Name, *req.Quantity)
	if err != nil {
		return nil, err
	}
	s.record(ctx, events.ItemCreated, it, actor)
	return it, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint64, req model.ItemRequest, actor *model.User) (*model.Item, error) {
	it, err := s.items.Update(ctx, id, req.Name, *req.Quantity)
	if err != nil {
		return nil, notFound(err)
	}
	s.record(ctx, events.ItemUpdated, it, actor)
	return it, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint64, actor *model.User) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.record(ctx, events.ItemDeleted, &model.Item{ID: id}, actor)
	return nil
}

func (s *InventoryService) record(ctx context.Context, typ string, it *model.Item, actor *model.User) {
	ev := events.Event{Type: typ, EntityID: it.ID, Name: it.Name}
	if typ != events.ItemDeleted {
		q := it.Quantity
		ev.Quantity = &q
	}
	if actor != nil {
		ev.Actor = actor.Username
	}
	publish(ctx, s.publisher, s.logger, ev)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, MsgItemNotFound)
	}
	return err
}
