package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// HierarchyRefresher is notified after the org directory changes
type HierarchyRefresher interface {
	RefreshHierarchy(ctx context.Context) error
}

// Entity is the input for creating an organizational entity
type Entity struct {
	Name        string
	Type        models.EntityType
	ParentID    *int64
	SalesShare  decimal.Decimal
	ProfitShare decimal.Decimal
}

// EntityUpdate holds the mutable fields of an entity. Type and parent are
// fixed at creation.
type EntityUpdate struct {
	Name        string
	SalesShare  decimal.Decimal
	ProfitShare decimal.Decimal
}

// EntityService handles reseller tree mutations and enforces the percentage
// caps the commission engine relies on
type EntityService struct {
	log       logger.Logger
	repo      repository.EntityRepository
	refresher HierarchyRefresher
}

// NewEntityService creates a new EntityService
func NewEntityService(log logger.Logger, repo repository.EntityRepository) *EntityService {
	return &EntityService{log: log, repo: repo}
}

// SetRefresher sets who rebuilds the hierarchy after a mutation
func (s *EntityService) SetRefresher(r HierarchyRefresher) {
	s.refresher = r
}

// ListEntities returns the whole directory, inactive entities included
func (s *EntityService) ListEntities(ctx context.Context) ([]models.OrgEntity, error) {
	entities, err := s.repo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []models.OrgEntity{}
	}
	return entities, nil
}

// GetEntity returns one entity
func (s *EntityService) GetEntity(ctx context.Context, id int64) (*models.OrgEntity, error) {
	e, err := s.repo.GetEntity(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFoundf("entity %d not found", id)
	}
	return e, err
}

// CreateEntity validates and stores a new entity. Only an operator admin may
// be a root; every other tier needs a parent whose tier may own it, and the
// child's percentages may not exceed the parent's.
func (s *EntityService) CreateEntity(ctx context.Context, in Entity) (*models.OrgEntity, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !in.Type.Valid() {
		return nil, errors.Validationf("unknown entity type %q", in.Type)
	}
	if err := checkShares(in.SalesShare, in.ProfitShare); err != nil {
		return nil, err
	}

	if in.Type == models.EntityOperatorAdmin {
		if in.ParentID != nil {
			return nil, errors.Validation("an operator admin cannot have a parent")
		}
	} else {
		if in.ParentID == nil {
			return nil, errors.Validationf("a %s needs a parent", in.Type)
		}
		parent, err := s.repo.GetEntity(ctx, *in.ParentID)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.Validationf("parent %d does not exist", *in.ParentID)
		}
		if err != nil {
			return nil, err
		}
		if !parent.Type.CanParent(in.Type) {
			return nil, errors.Validationf("a %s cannot own a %s", parent.Type, in.Type)
		}
		if err := checkCap(in.SalesShare, in.ProfitShare, parent); err != nil {
			return nil, err
		}
	}

	e := &models.OrgEntity{
		Name:        name,
		Type:        in.Type,
		ParentID:    in.ParentID,
		SalesShare:  in.SalesShare,
		ProfitShare: in.ProfitShare,
		Active:      true,
	}
	id, err := s.repo.CreateEntity(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id

	s.log.Info("Entity created", "id", id, "type", e.Type, "name", e.Name)
	s.refresh(ctx)
	return s.GetEntity(ctx, id)
}

// UpdateEntity changes an entity's name and percentages. New percentages must
// stay within the parent's and at or above every child's.
func (s *EntityService) UpdateEntity(ctx context.Context, id int64, upd EntityUpdate) (*models.OrgEntity, error) {
	name := strings.TrimSpace(upd.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := checkShares(upd.SalesShare, upd.ProfitShare); err != nil {
		return nil, err
	}

	e, err := s.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.ParentID != nil {
		parent, err := s.repo.GetEntity(ctx, *e.ParentID)
		if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if parent != nil {
			if err := checkCap(upd.SalesShare, upd.ProfitShare, parent); err != nil {
				return nil, err
			}
		}
	}

	children, err := s.repo.ListChildEntities(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.SalesShare.GreaterThan(upd.SalesShare) || child.ProfitShare.GreaterThan(upd.ProfitShare) {
			return nil, errors.Validationf("child %q has higher percentages than %s/%s",
				child.Name, upd.SalesShare, upd.ProfitShare)
		}
	}

	e.Name = name
	e.SalesShare = upd.SalesShare
	e.ProfitShare = upd.ProfitShare
	if err := s.repo.UpdateEntity(ctx, e); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("entity %d not found", id)
		}
		return nil, err
	}

	s.log.Info("Entity updated", "id", id, "sales_share", upd.SalesShare, "profit_share", upd.ProfitShare)
	s.refresh(ctx)
	return e, nil
}

// SetActive activates or deactivates an entity. Deactivated entities keep
// their history and still count in aggregates.
func (s *EntityService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetEntityActive(ctx, id, active); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundf("entity %d not found", id)
		}
		return err
	}
	s.log.Info("Entity active flag changed", "id", id, "active", active)
	s.refresh(ctx)
	return nil
}

func (s *EntityService) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.RefreshHierarchy(ctx); err != nil {
		s.log.Warn("Failed to refresh hierarchy", "error", err)
	}
}

func checkShares(sales, profit decimal.Decimal) error {
	if sales.IsNegative() || sales.GreaterThan(hundred) {
		return errors.Validationf("sales share %s outside 0-100", sales)
	}
	if profit.IsNegative() || profit.GreaterThan(hundred) {
		return errors.Validationf("profit share %s outside 0-100", profit)
	}
	return nil
}

func checkCap(sales, profit decimal.Decimal, parent *models.OrgEntity) error {
	if sales.GreaterThan(parent.SalesShare) {
		return errors.Validationf("sales share %s exceeds parent's %s", sales, parent.SalesShare)
	}
	if profit.GreaterThan(parent.ProfitShare) {
		return errors.Validationf("profit share %s exceeds parent's %s", profit, parent.ProfitShare)
	}
	return nil
}
