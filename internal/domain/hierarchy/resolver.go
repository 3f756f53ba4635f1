package hierarchy

import (
	"sort"

	"github.com/google/uuid"
)

// Edge is a single reporting relationship within one team: UserID
// reports to ManagerID. Edges never cross the team boundary.
type Edge struct {
	UserID    uuid.UUID
	ManagerID uuid.UUID
}

// Resolver answers reachability questions over a team's reporting tree.
// It is built from a snapshot of the team's manager edges and is safe
// against malformed data: cycles and duplicate edges cannot make any
// traversal loop forever.
type Resolver struct {
	children map[uuid.UUID][]uuid.UUID
	parent   map[uuid.UUID]uuid.UUID
}

// NewResolver builds a resolver from a team's manager edges. A user
// with several edges keeps only the last one as its parent pointer;
// the persistence layer never produces duplicates, but the resolver
// does not depend on that.
func NewResolver(edges []Edge) *Resolver {
	r := &Resolver{
		children: make(map[uuid.UUID][]uuid.UUID, len(edges)),
		parent:   make(map[uuid.UUID]uuid.UUID, len(edges)),
	}
	for _, e := range edges {
		if e.UserID == uuid.Nil || e.ManagerID == uuid.Nil || e.UserID == e.ManagerID {
			continue
		}
		if prev, ok := r.parent[e.UserID]; ok {
			r.removeChild(prev, e.UserID)
		}
		r.parent[e.UserID] = e.ManagerID
		r.children[e.ManagerID] = append(r.children[e.ManagerID], e.UserID)
	}
	return r
}

func (r *Resolver) removeChild(managerID, userID uuid.UUID) {
	kids := r.children[managerID]
	for i, id := range kids {
		if id == userID {
			r.children[managerID] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// DirectReports returns the users directly managed by managerID.
func (r *Resolver) DirectReports(managerID uuid.UUID) []uuid.UUID {
	kids := r.children[managerID]
	out := make([]uuid.UUID, len(kids))
	copy(out, kids)
	sortIDs(out)
	return out
}

// Subordinates returns every user transitively below managerID,
// excluding the manager itself. Traversal is breadth-first and
// cycle-safe.
func (r *Resolver) Subordinates(managerID uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{managerID: true}
	var out []uuid.UUID
	queue := append([]uuid.UUID(nil), r.children[managerID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, r.children[id]...)
	}
	sortIDs(out)
	return out
}

// Subtree returns managerID plus all its subordinates. This is the
// visibility set of a manager with subtree scope.
func (r *Resolver) Subtree(managerID uuid.UUID) []uuid.UUID {
	out := append([]uuid.UUID{managerID}, r.Subordinates(managerID)...)
	return out
}

// IsSubordinate reports whether userID sits strictly below managerID.
func (r *Resolver) IsSubordinate(managerID, userID uuid.UUID) bool {
	if managerID == userID {
		return false
	}
	seen := make(map[uuid.UUID]bool)
	id := userID
	for {
		parent, ok := r.parent[id]
		if !ok {
			return false
		}
		if parent == managerID {
			return true
		}
		if seen[parent] {
			return false
		}
		seen[parent] = true
		id = parent
	}
}

// ManagerChain returns the chain of managers above userID, nearest
// first, stopping at the tree root or at the first repeated node.
func (r *Resolver) ManagerChain(userID uuid.UUID) []uuid.UUID {
	var chain []uuid.UUID
	seen := map[uuid.UUID]bool{userID: true}
	id := userID
	for {
		parent, ok := r.parent[id]
		if !ok || seen[parent] {
			return chain
		}
		chain = append(chain, parent)
		seen[parent] = true
		id = parent
	}
}

// Roots returns the users that manage others but report to nobody,
// typically the team's state managers.
func (r *Resolver) Roots() []uuid.UUID {
	var roots []uuid.UUID
	for managerID := range r.children {
		if _, hasParent := r.parent[managerID]; !hasParent {
			roots = append(roots, managerID)
		}
	}
	sortIDs(roots)
	return roots
}

// Size returns the number of users known to the resolver.
func (r *Resolver) Size() int {
	all := make(map[uuid.UUID]bool, len(r.parent))
	for id, p := range r.parent {
		all[id] = true
		all[p] = true
	}
	return len(all)
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
