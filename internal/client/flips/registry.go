package flips

// Registry keeps the live actors keyed by flip id in insertion order.
// It is not safe for concurrent use; the Orchestrator guards it.
type Registry struct {
	order  []string
	actors map[string]*FlipActor
}

func NewRegistry() *Registry {
	return &Registry{actors: make(map[string]*FlipActor)}
}

// Add registers a and reports false if an actor with the same id exists.
func (r *Registry) Add(a *FlipActor) bool {
	if _, ok := r.actors[a.ID()]; ok {
		return false
	}
	r.actors[a.ID()] = a
	r.order = append(r.order, a.ID())
	return true
}

func (r *Registry) Get(id string) (*FlipActor, bool) {
	a, ok := r.actors[id]
	return a, ok
}

func (r *Registry) Remove(id string) (*FlipActor, bool) {
	a, ok := r.actors[id]
	if !ok {
		return nil, false
	}
	delete(r.actors, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return a, true
}

// List returns the actors in insertion order.
func (r *Registry) List() []*FlipActor {
	out := make([]*FlipActor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.actors[id])
	}
	return out
}
