package goal

import "slices"

// Graph is a read-only view of the dependency edges (task -> dependency),
// keyed by task id. It is rebuilt from a repository snapshot for each query.
type Graph struct {
	edges map[string][]string
	order []string
}

func NewGraph(tasks []*Task) *Graph {
	g := &Graph{
		edges: make(map[string][]string, len(tasks)),
		order: make([]string, 0, len(tasks)),
	}
	for _, t := range tasks {
		g.edges[t.ID] = slices.Clone(t.Dependencies)
		g.order = append(g.order, t.ID)
	}
	return g
}

func (g *Graph) Has(id string) bool {
	_, ok := g.edges[id]
	return ok
}

// WouldCreateCycle reports whether adding the edge taskID -> candidateID
// closes a cycle, that is whether taskID is reachable from candidateID.
func (g *Graph) WouldCreateCycle(taskID, candidateID string) bool {
	if taskID == candidateID {
		return true
	}
	visited := map[string]bool{candidateID: true}
	queue := []string{candidateID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range g.edges[id] {
			if dep == taskID {
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// AvailableCandidates returns the ids taskID may legally depend on, in
// repository order.
func (g *Graph) AvailableCandidates(taskID string) []string {
	var out []string
	for _, id := range g.order {
		if id == taskID || g.WouldCreateCycle(taskID, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// ValidateDependencies checks a proposed dependency set for taskID. Only the
// edges not already present can close a cycle, so only those are traversed.
func (g *Graph) ValidateDependencies(taskID string, next []string) error {
	current := g.edges[taskID]
	for _, dep := range next {
		if dep == taskID {
			return cycleError(taskID, dep)
		}
		if !g.Has(dep) {
			return notFoundError("dependency", dep)
		}
		if slices.Contains(current, dep) {
			continue
		}
		if g.WouldCreateCycle(taskID, dep) {
			return cycleError(taskID, dep)
		}
	}
	return nil
}

// Dependents returns the ids of tasks that depend on id, in repository order.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for _, other := range g.order {
		if slices.Contains(g.edges[other], id) {
			out = append(out, other)
		}
	}
	return out
}

// FindCycle returns the ids on one dependency cycle, or nil when the graph
// is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.order))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = visiting
		path = append(path, id)
		for _, dep := range g.edges[id] {
			switch state[dep] {
			case visiting:
				start := slices.Index(path, dep)
				return slices.Clone(path[start:])
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
