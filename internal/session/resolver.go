package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type assignmentSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}

// State describes the outcome of resolving a user's active role.
type State string

const (
	// StateResolved means Context is populated and ready to use.
	StateResolved State = "resolved"
	// StateNoAccess means the user holds no assignments at all.
	StateNoAccess State = "no_access"
	// StateNeedsSelection means the user must pick one of Choices.
	StateNeedsSelection State = "needs_selection"
)

// Choice is one selectable (warehouse, role) pair. Store-level assignments
// sharing the same pair collapse into a single choice.
type Choice struct {
	AssignmentID  uuid.UUID  `json:"assignment_id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name"`
	Role          enums.Role `json:"role"`
	StoreCount    int        `json:"store_count,omitempty"`
}

// Resolution is the result of Resolve. When State is StateResolved and
// AutoSelected is non-nil the caller should persist it as the session's
// active assignment. ClearSelection reports that a previously stored
// assignment id is stale and must be dropped from the session.
type Resolution struct {
	State          State
	Context        authz.ActiveContext
	Choices        []Choice
	AutoSelected   *uuid.UUID
	ClearSelection bool
}

// Resolver turns a user plus an optional session-held assignment id into an
// active-role context.
type Resolver struct {
	assignments assignmentSource
}

// NewResolver builds a resolver over the assignment source.
func NewResolver(assignments assignmentSource) (*Resolver, error) {
	if assignments == nil {
		return nil, fmt.Errorf("assignment source required")
	}
	return &Resolver{assignments: assignments}, nil
}

// Resolve determines the single (warehouse, role) context governing the
// user's requests. Superusers get a synthetic global context with no lookup.
// Otherwise: zero assignments is terminal NoAccess; exactly one distinct
// (warehouse, role) pair auto-selects; more than one demands a selection.
// A session-held assignment id is honored only while the row still exists
// and still belongs to the user.
func (r *Resolver) Resolve(ctx context.Context, user *models.User, activeAssignmentID *uuid.UUID) (Resolution, error) {
	if user == nil {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeInternal, "user required")
	}
	if user.IsSuperuser || user.PrimaryRole == enums.RoleSuperAdmin {
		return Resolution{State: StateResolved, Context: authz.Global(user.ID)}, nil
	}

	assignments, err := r.assignments.ListByUser(ctx, user.ID)
	if err != nil {
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	if len(assignments) == 0 {
		return Resolution{State: StateNoAccess}, nil
	}

	groups := groupAssignments(assignments)

	if activeAssignmentID != nil {
		if g, ok := findGroupByAssignment(groups, *activeAssignmentID); ok {
			return Resolution{State: StateResolved, Context: g.context(user.ID)}, nil
		}
		// Stale pointer: the row was removed or re-assigned. Fall through
		// to the selection rules and tell the caller to clear it.
		res, err := r.resolveFresh(user.ID, groups)
		res.ClearSelection = true
		return res, err
	}

	return r.resolveFresh(user.ID, groups)
}

func (r *Resolver) resolveFresh(userID uuid.UUID, groups []assignmentGroup) (Resolution, error) {
	if len(groups) == 1 {
		g := groups[0]
		selected := g.representative
		return Resolution{
			State:        StateResolved,
			Context:      g.context(userID),
			AutoSelected: &selected,
		}, nil
	}

	choices := make([]Choice, 0, len(groups))
	for _, g := range groups {
		choices = append(choices, g.choice())
	}
	return Resolution{State: StateNeedsSelection, Choices: choices}, nil
}

// Select commits an explicit role choice. The assignment must exist and
// belong to the user; on failure the caller's prior context stays untouched.
func (r *Resolver) Select(ctx context.Context, user *models.User, assignmentID uuid.UUID) (authz.ActiveContext, error) {
	if user == nil {
		return authz.ActiveContext{}, pkgerrors.New(pkgerrors.CodeInternal, "user required")
	}

	assignment, err := r.assignments.FindByID(ctx, assignmentID)
	if err != nil || assignment == nil || assignment.UserID != user.ID {
		// Missing and not-owned look the same to the caller.
		return authz.ActiveContext{}, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}

	// Fold sibling store assignments at the same (warehouse, role) into the
	// selected context so a manager with several stores sees them all.
	assignments, err := r.assignments.ListByUser(ctx, user.ID)
	if err != nil {
		return authz.ActiveContext{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	for _, g := range groupAssignments(assignments) {
		if g.warehouseID == assignment.WarehouseID && g.role == assignment.Role {
			return g.context(user.ID), nil
		}
	}
	return authz.ActiveContext{}, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
}

type assignmentGroup struct {
	warehouseID    uuid.UUID
	warehouseName  string
	role           enums.Role
	representative uuid.UUID
	members        []uuid.UUID
	storeIDs       []uuid.UUID
}

func (g assignmentGroup) context(userID uuid.UUID) authz.ActiveContext {
	return authz.Scoped(userID, g.representative, g.warehouseID, g.role, g.storeIDs)
}

func (g assignmentGroup) choice() Choice {
	return Choice{
		AssignmentID:  g.representative,
		WarehouseID:   g.warehouseID,
		WarehouseName: g.warehouseName,
		Role:          g.role,
		StoreCount:    len(g.storeIDs),
	}
}

// groupAssignments collapses rows into distinct (warehouse, role) pairs,
// ordered deterministically by warehouse then role. The representative is
// the smallest assignment id in the group so repeated resolutions agree.
func groupAssignments(assignments []models.Assignment) []assignmentGroup {
	index := make(map[string]int)
	groups := make([]assignmentGroup, 0, len(assignments))

	for _, a := range assignments {
		key := a.WarehouseID.String() + "|" + string(a.Role)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			g := assignmentGroup{
				warehouseID:    a.WarehouseID,
				role:           a.Role,
				representative: a.ID,
			}
			if a.Warehouse != nil {
				g.warehouseName = a.Warehouse.Name
			}
			groups = append(groups, g)
		}
		g := &groups[i]
		g.members = append(g.members, a.ID)
		if a.StoreID != nil {
			g.storeIDs = append(g.storeIDs, *a.StoreID)
		}
		if a.ID.String() < g.representative.String() {
			g.representative = a.ID
		}
		if g.warehouseName == "" && a.Warehouse != nil {
			g.warehouseName = a.Warehouse.Name
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].warehouseID != groups[j].warehouseID {
			return groups[i].warehouseID.String() < groups[j].warehouseID.String()
		}
		return groups[i].role < groups[j].role
	})
	return groups
}

func findGroupByAssignment(groups []assignmentGroup, assignmentID uuid.UUID) (assignmentGroup, bool) {
	for _, g := range groups {
		for _, id := range g.members {
			if id == assignmentID {
				return g, true
			}
		}
	}
	return assignmentGroup{}, false
}
