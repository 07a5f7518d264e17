package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxOutputAttempts = 3

type InventoryService interface {
	CreateProduct(ctx context.Context, req *model.Product, actor Actor) error
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	LookupByCode(ctx context.Context, code string) (*LookupResult, error)

	CreatePerson(ctx context.Context, req *model.Person, actor Actor) error
	UpdatePerson(ctx context.Context, id uuid.UUID, req *model.Person, actor Actor) (*model.Person, error)
	DeletePerson(ctx context.Context, id uuid.UUID, actor Actor) error
	ListPeople(ctx context.Context) ([]model.Person, error)

	RecordOutput(ctx context.Context, req *OutputRequest, actor Actor) (*model.OutputLog, error)
	ListOutputs(ctx context.Context) ([]model.OutputLog, error)
}

// OutputRequest asks for quantity units of a product to leave stock. ID is
// optional; a retried request with the same ID is applied at most once.
type OutputRequest struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	ProductID uuid.UUID  `json:"product_id" validate:"uuid_required"`
	PersonID  uuid.UUID  `json:"person_id" validate:"uuid_required"`
	Quantity  int        `json:"quantity" validate:"gt=0"`
}

// LookupResult is a scanned product. OutOfStock asks the caller to warn
// instead of selecting it.
type LookupResult struct {
	Product      *model.Product `json:"product"`
	MatchedField string         `json:"matched_field"`
	OutOfStock   bool           `json:"out_of_stock"`
}

type inventoryService struct {
	store    store.Provider
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewInventoryService(p store.Provider, notifier Notifier, log *zap.Logger) InventoryService {
	return &inventoryService{
		store:    p,
		notifier: notifierOrNop(notifier),
		log:      log,
		now:      time.Now,
	}
}

func (s *inventoryService) publish(resource, action string, id uuid.UUID, actor Actor, msg string) {
	s.notifier.Publish(ws.Event{
		Resource: resource,
		Action:   action,
		ID:       id.String(),
		Actor:    actor.Name,
		Message:  msg,
	})
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product, actor Actor) error {
	req.SKU = strings.TrimSpace(req.SKU)
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return err
	}

	existing, err := s.store.Products().FindBySKU(ctx, req.SKU)
	if err == nil && existing != nil {
		return fmt.Errorf("%w: SKU '%s'", ErrDuplicateIdentifier, req.SKU)
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.store.Products().Create(ctx, req); err != nil {
		return storeError(err)
	}

	s.publish("products", "created", req.ID, actor, fmt.Sprintf("%s created product '%s'", actor.Name, req.Name))
	return nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	existing, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}

	req.SKU = strings.TrimSpace(req.SKU)
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	if req.SKU != existing.SKU {
		if other, err := s.store.Products().FindBySKU(ctx, req.SKU); err == nil && other.ID != id {
			return nil, fmt.Errorf("%w: SKU '%s'", ErrDuplicateIdentifier, req.SKU)
		}
	}
	if req.ExpectedQuantity != nil && *req.ExpectedQuantity != existing.Quantity {
		return nil, fmt.Errorf("%w: product '%s' quantity is now %d", ErrConcurrentUpdate, existing.Name, existing.Quantity)
	}

	seen := existing.Quantity
	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.Quantity = req.Quantity
	existing.Price = req.Price
	existing.SerialNumber = req.SerialNumber
	existing.MacAddress = req.MacAddress
	existing.AssetTag = req.AssetTag
	existing.ImageURL = req.ImageURL
	existing.Description = req.Description
	existing.UpdatedBy = actor.ID

	// an output recorded since the read must not be overwritten
	ok, err := s.store.Products().UpdateIfQuantity(ctx, existing, seen)
	if err != nil {
		return nil, storeError(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: product '%s' stock changed", ErrConcurrentUpdate, existing.Name)
	}

	s.publish("products", "updated", existing.ID, actor, fmt.Sprintf("%s updated product '%s'", actor.Name, existing.Name))
	return existing, nil
}

// DeleteProduct refuses to remove a product that any output log references.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return notFound("product", err)
	}

	refs, err := s.store.OutputLogs().CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: product '%s' has %d output(s)", ErrReferentialIntegrity, product.Name, refs)
	}

	if err := s.store.Products().Delete(ctx, id); err != nil {
		return notFound("product", err)
	}

	s.publish("products", "deleted", id, actor, fmt.Sprintf("%s deleted product '%s'", actor.Name, product.Name))
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.Products().FindAll(ctx)
}

// LookupByCode resolves a scanned barcode. Products are scanned in list
// order and the first one whose SKU, serial number or asset tag equals the
// code (case-insensitive, trimmed) wins.
func (s *inventoryService) LookupByCode(ctx context.Context, code string) (*LookupResult, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("code is required")
	}

	products, err := s.store.Products().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		p := &products[i]
		field := ""
		switch code {
		case strings.ToLower(p.SKU):
			field = "sku"
		case strings.ToLower(p.SerialNumber):
			field = "serial_number"
		case strings.ToLower(p.AssetTag):
			field = "asset_tag"
		}
		if field != "" {
			return &LookupResult{Product: p, MatchedField: field, OutOfStock: p.OutOfStock()}, nil
		}
	}
	return nil, fmt.Errorf("%w: no product with code '%s'", ErrNotFound, code)
}

func (s *inventoryService) CreatePerson(ctx context.Context, req *model.Person, actor Actor) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return err
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.store.People().Create(ctx, req); err != nil {
		return storeError(err)
	}
	s.publish("people", "created", req.ID, actor, fmt.Sprintf("%s added '%s'", actor.Name, req.Name))
	return nil
}

func (s *inventoryService) UpdatePerson(ctx context.Context, id uuid.UUID, req *model.Person, actor Actor) (*model.Person, error) {
	existing, err := s.store.People().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("person", err)
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Department = req.Department
	existing.UpdatedBy = actor.ID
	if err := s.store.People().Update(ctx, existing); err != nil {
		return nil, notFound("person", err)
	}
	s.publish("people", "updated", id, actor, "")
	return existing, nil
}

// DeletePerson refuses to remove a person that any output log references.
func (s *inventoryService) DeletePerson(ctx context.Context, id uuid.UUID, actor Actor) error {
	person, err := s.store.People().FindByID(ctx, id)
	if err != nil {
		return notFound("person", err)
	}

	refs, err := s.store.OutputLogs().CountByPerson(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: '%s' has %d output(s)", ErrReferentialIntegrity, person.Name, refs)
	}

	if err := s.store.People().Delete(ctx, id); err != nil {
		return notFound("person", err)
	}
	s.publish("people", "deleted", id, actor, "")
	return nil
}

func (s *inventoryService) ListPeople(ctx context.Context) ([]model.Person, error) {
	return s.store.People().FindAll(ctx)
}

// RecordOutput decrements stock and appends the output log atomically. The
// decrement is a compare-and-set on the quantity read, so two concurrent
// outputs cannot both spend the same units; a lost race is retried against
// fresh stock.
func (s *inventoryService) RecordOutput(ctx context.Context, req *OutputRequest, actor Actor) (*model.OutputLog, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	logID := uuid.New()
	if req.ID != nil && *req.ID != uuid.Nil {
		logID = *req.ID
		if prev, err := s.store.OutputLogs().FindByID(ctx, logID); err == nil {
			if prev.ProductID != req.ProductID || prev.PersonID != req.PersonID || prev.Quantity != req.Quantity {
				return nil, fmt.Errorf("%w: output %s", ErrDuplicateIdentifier, logID)
			}
			return prev, nil
		}
	}

	person, err := s.store.People().FindByID(ctx, req.PersonID)
	if err != nil {
		return nil, notFound("person", err)
	}

	for attempt := 1; attempt <= maxOutputAttempts; attempt++ {
		product, err := s.store.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, notFound("product", err)
		}
		if req.Quantity > product.Quantity {
			return nil, &InsufficientStockError{Product: product.Name, Requested: req.Quantity, Available: product.Quantity}
		}

		entry := &model.OutputLog{
			ID:          logID,
			ProductID:   product.ID,
			PersonID:    person.ID,
			Quantity:    req.Quantity,
			Timestamp:   s.now().UTC(),
			ProductName: product.Name,
			PersonName:  person.Name,
			CreatedBy:   actor.ID,
		}
		newQuantity := product.Quantity - req.Quantity

		err = s.store.RecordOutput(ctx, entry, newQuantity)
		if errors.Is(err, store.ErrStaleQuantity) {
			s.log.Debug("stock changed during output, retrying",
				zap.String("product_id", product.ID.String()),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, storeError(err)
		}

		s.publish("outputs", "created", entry.ID, actor,
			fmt.Sprintf("%s removed %d units of '%s' for %s", actor.Name, entry.Quantity, entry.ProductName, entry.PersonName))
		return entry, nil
	}

	return nil, ErrConcurrentUpdate
}

func (s *inventoryService) ListOutputs(ctx context.Context) ([]model.OutputLog, error) {
	return s.store.OutputLogs().FindAll(ctx)
}
