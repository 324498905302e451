package runtime

import (
	"sync/atomic"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/registry"
	"github.com/aretw0/flowbench/pkg/variables"
)

// node is one actor of the graph together with its wiring.
type node struct {
	spec  domain.ActorSpec
	actor actor.Actor
	in    actor.InputConsumer
	out   actor.OutputProducer

	// vars are the variables referenced by the raw options.
	vars  []string
	dirty atomic.Bool

	next []*node
	prev []*node
}

func (n *node) name() string { return n.spec.Name }

func (n *node) uses(variable string) bool {
	for _, v := range n.vars {
		if v == variable {
			return true
		}
	}
	return false
}

// graph is a built and structurally validated flow.
type graph struct {
	spec        *domain.FlowSpec
	standalones []*node
	nodes       []*node // topological order
	roots       []*node
	edges       [][2]*node
}

func newNode(spec domain.ActorSpec, a actor.Actor) *node {
	n := &node{spec: spec, actor: a, vars: variables.DetectOptions(spec.Options)}
	n.in, _ = a.(actor.InputConsumer)
	n.out, _ = a.(actor.OutputProducer)
	return n
}

// buildGraph instantiates every actor and checks the wiring.
// Shapes are checked later, once actors are set up.
func buildGraph(spec *domain.FlowSpec, reg *registry.Registry, vars variables.Expander) (*graph, error) {
	p := &problems{flow: spec.Name}
	g := &graph{spec: spec}

	if spec.Name == "" {
		p.addf("flow has no name")
	}
	if len(spec.Actors) == 0 {
		p.addf("flow has no actors")
	}
	switch spec.ErrorPolicy {
	case "", domain.ActorsDecide, domain.AlwaysStop:
	default:
		p.addf("unknown error policy '%s'", spec.ErrorPolicy)
	}

	byName := map[string]*node{}
	add := func(as domain.ActorSpec) *node {
		if as.Name == "" {
			p.addf("actor of type '%s' has no name", as.Type)
			return nil
		}
		if _, dup := byName[as.Name]; dup {
			p.addf("duplicate actor name '%s'", as.Name)
			return nil
		}
		a, err := reg.Build(as, vars)
		if err != nil {
			p.addf("%v", err)
			return nil
		}
		a.SetParent(spec.Name)
		n := newNode(as, a)
		byName[as.Name] = n
		return n
	}

	for _, as := range spec.Standalones {
		n := add(as)
		if n == nil {
			continue
		}
		if !actor.IsStandalone(n.actor) {
			p.addf("'%s' is listed as standalone but consumes or produces tokens", as.Name)
			continue
		}
		g.standalones = append(g.standalones, n)
	}

	var declared []*node
	for _, as := range spec.Actors {
		n := add(as)
		if n == nil {
			continue
		}
		if actor.IsStandalone(n.actor) {
			p.addf("'%s' is a standalone actor and must be listed under standalones", as.Name)
			continue
		}
		declared = append(declared, n)
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	connect := func(from, to *node) {
		if from.out == nil {
			p.addf("'%s' produces no output but is connected to '%s'", from.name(), to.name())
			return
		}
		if to.in == nil {
			p.addf("'%s' accepts no input but is connected from '%s'", to.name(), from.name())
			return
		}
		from.next = append(from.next, to)
		to.prev = append(to.prev, from)
		g.edges = append(g.edges, [2]*node{from, to})
	}

	if len(spec.Edges) == 0 {
		for i := 1; i < len(declared); i++ {
			connect(declared[i-1], declared[i])
		}
	} else {
		for _, e := range spec.Edges {
			from, to := byName[e.From], byName[e.To]
			if from == nil || to == nil {
				p.addf("edge '%s' -> '%s' references an unknown actor", e.From, e.To)
				continue
			}
			connect(from, to)
		}
	}

	for _, n := range declared {
		if len(n.prev) > 0 {
			continue
		}
		if n.in != nil {
			p.addf("'%s' expects input but has no upstream actor", n.name())
			continue
		}
		g.roots = append(g.roots, n)
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	order, ok := topoSort(declared)
	if !ok {
		p.addf("flow contains a cycle")
		return nil, p.err()
	}
	g.nodes = order

	if spec.ParallelBranches {
		checkDisjointBranches(g, p)
	}
	return g, p.err()
}

// topoSort orders nodes with Kahn's algorithm; ok is false on cycles.
func topoSort(nodes []*node) ([]*node, bool) {
	indegree := make(map[*node]int, len(nodes))
	for _, n := range nodes {
		indegree[n] += 0
		for _, m := range n.next {
			indegree[m]++
		}
	}

	var queue, order []*node
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range n.next {
			indegree[m]--
			if indegree[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	return order, len(order) == len(nodes)
}

// checkDisjointBranches rejects graphs where two branches of a fan-out share a downstream
// actor, since those branches run concurrently.
func checkDisjointBranches(g *graph, p *problems) {
	for _, n := range g.nodes {
		if len(n.next) < 2 {
			continue
		}
		owner := map[*node]*node{}
		for _, branch := range n.next {
			for _, d := range descendants(branch) {
				if other, seen := owner[d]; seen && other != branch {
					p.addf("branches '%s' and '%s' of '%s' share '%s'; parallel branches must be disjoint",
						other.name(), branch.name(), n.name(), d.name())
					return
				}
				owner[d] = branch
			}
		}
	}
}

func descendants(start *node) []*node {
	seen := map[*node]bool{start: true}
	out := []*node{start}
	for i := 0; i < len(out); i++ {
		for _, m := range out[i].next {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// all returns standalones followed by the pipeline actors in topological order.
func (g *graph) all() []*node {
	out := make([]*node, 0, len(g.standalones)+len(g.nodes))
	out = append(out, g.standalones...)
	return append(out, g.nodes...)
}
