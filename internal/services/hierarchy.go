package services

import (
	"context"
	"sync"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// maxDepth bounds every walk of the tree. The deepest legal chain is one
// node per tier.
var maxDepth = len(models.EntityTypes)

// Hierarchy is an immutable parent→children index over a flat entity list.
// It is rebuilt from scratch on every refresh and shared read-only.
type Hierarchy struct {
	entities map[int64]models.OrgEntity
	children map[int64][]int64
	roots    []int64
}

// NewHierarchy indexes entities by parent. Input order is kept so that
// children come back in a stable order.
func NewHierarchy(entities []models.OrgEntity) *Hierarchy {
	h := &Hierarchy{
		entities: make(map[int64]models.OrgEntity, len(entities)),
		children: make(map[int64][]int64),
	}
	for _, e := range entities {
		h.entities[e.ID] = e
	}
	for _, e := range entities {
		if e.ParentID == nil {
			h.roots = append(h.roots, e.ID)
			continue
		}
		h.children[*e.ParentID] = append(h.children[*e.ParentID], e.ID)
	}
	return h
}

// Len returns the number of indexed entities
func (h *Hierarchy) Len() int {
	return len(h.entities)
}

// Entity looks up an entity by ID
func (h *Hierarchy) Entity(id int64) (models.OrgEntity, bool) {
	e, ok := h.entities[id]
	return e, ok
}

// Roots returns the entities with no parent
func (h *Hierarchy) Roots() []models.OrgEntity {
	out := make([]models.OrgEntity, 0, len(h.roots))
	for _, id := range h.roots {
		out = append(out, h.entities[id])
	}
	return out
}

// Children returns the direct children of id whose type the parent's tier
// allows. With types given, only those types are returned. Children of a
// type the parent may not own are never returned.
func (h *Hierarchy) Children(id int64, types ...models.EntityType) []models.OrgEntity {
	parent, ok := h.entities[id]
	if !ok {
		return nil
	}

	var out []models.OrgEntity
	for _, childID := range h.children[id] {
		child := h.entities[childID]
		if !parent.Type.CanParent(child.Type) {
			continue
		}
		if len(types) > 0 && !containsType(types, child.Type) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// BoothSet returns the booths reachable from id. A booth's set is itself.
// Regional distributors reach booths both through direct agencies and
// through sub-distributors.
func (h *Hierarchy) BoothSet(id int64) []int64 {
	if _, ok := h.entities[id]; !ok {
		return nil
	}
	var booths []int64
	visited := make(map[int64]bool)
	h.collectBooths(id, 0, visited, &booths)
	return booths
}

func (h *Hierarchy) collectBooths(id int64, depth int, visited map[int64]bool, booths *[]int64) {
	if depth > maxDepth || visited[id] {
		return
	}
	visited[id] = true

	e := h.entities[id]
	if e.Type == models.EntityBooth {
		*booths = append(*booths, id)
		return
	}
	for _, child := range h.Children(id) {
		h.collectBooths(child.ID, depth+1, visited, booths)
	}
}

func containsType(types []models.EntityType, t models.EntityType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// HierarchyResolver loads the org directory and keeps the current index
type HierarchyResolver struct {
	log     logger.Logger
	repo    repository.EntityLister
	mu      sync.RWMutex
	current *Hierarchy
}

// NewHierarchyResolver creates a resolver over the org directory
func NewHierarchyResolver(log logger.Logger, repo repository.EntityLister) *HierarchyResolver {
	return &HierarchyResolver{log: log.With("component", "hierarchy"), repo: repo}
}

// Refresh rebuilds the index from the directory
func (r *HierarchyResolver) Refresh(ctx context.Context) (*Hierarchy, error) {
	entities, err := r.repo.ListEntities(ctx)
	if err != nil {
		return nil, errors.DataUnavailable(err)
	}
	h := NewHierarchy(entities)

	r.mu.Lock()
	r.current = h
	r.mu.Unlock()

	r.log.Debug("Hierarchy refreshed", "entities", h.Len())
	return h, nil
}

// Current returns the last built index, loading it on first use
func (r *HierarchyResolver) Current(ctx context.Context) (*Hierarchy, error) {
	r.mu.RLock()
	h := r.current
	r.mu.RUnlock()
	if h != nil {
		return h, nil
	}
	return r.Refresh(ctx)
}
