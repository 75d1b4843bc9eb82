package rowmodel

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mholzen/treegrid/pkg/collections"
	"github.com/mholzen/treegrid/pkg/hierarchy"
)

type State int

const (
	Uninitialized State = iota
	ForestBuilt
	RootServed
	Delivering
	Delivered
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ForestBuilt:
		return "forest-built"
	case RootServed:
		return "root-served"
	case Delivering:
		return "delivering"
	case Delivered:
		return "delivered"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Provider answers grid row requests from a forest built once from its source.
type Provider struct {
	source Source
	name   string

	mu     sync.Mutex
	state  State
	forest hierarchy.Forest
}

type Option func(*Provider)

// WithName labels the provider in logs and metrics.
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

func NewProvider(source Source, opts ...Option) *Provider {
	p := &Provider{source: source, name: "default"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Forest returns the forest, or nil before the first root request. Nodes
// already delivered no longer hold their children.
func (p *Provider) Forest() hierarchy.Forest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forest
}

// GetRows answers one grid request. Root requests get a page of roots and then
// trigger delivery of every group's children; any other request fails.
func (p *Provider) GetRows(ctx context.Context, req Request, sink Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !req.IsRoot() {
		slog.Debug("rejecting group request", "provider", p.name, "group_path", req.GroupPath)
		requestsTotal.WithLabelValues(outcomeUnsupported).Inc()
		sink.Fail(ErrUnsupportedRequest)
		return
	}

	if err := p.ensureForest(ctx); err != nil {
		requestsTotal.WithLabelValues(outcomeError).Inc()
		sink.Fail(err)
		return
	}

	lo, hi := PageBounds(req.StartIndex, req.EndIndex, len(p.forest))
	page := slices.Clone(p.forest[lo:hi])
	slog.Debug("serving root page", "provider", p.name, "start", lo, "end", hi, "total", len(p.forest))
	requestsTotal.WithLabelValues(outcomeSuccess).Inc()
	sink.Success(Result{Rows: page, TotalCount: len(p.forest)})

	if p.state < RootServed {
		p.state = RootServed
	}
	p.deliver(sink)
}

func (p *Provider) ensureForest(ctx context.Context) error {
	if p.state >= ForestBuilt {
		return nil
	}
	records, err := p.source.Records(ctx)
	if err != nil {
		return fmt.Errorf("cannot load records: %w", err)
	}
	p.forest = hierarchy.BuildHierarchy(records)
	p.state = ForestBuilt
	slog.Info("forest built", "provider", p.name, "records", len(records), "roots", len(p.forest))
	return nil
}

type frame struct {
	node  *hierarchy.Node
	route []string
}

// deliver walks the whole forest depth-first, pre-order, pushing each group's
// children once and detaching them from the node.
func (p *Provider) deliver(sink Sink) {
	if p.state >= Delivering {
		return
	}
	p.state = Delivering

	var stack collections.Stack[frame]
	for i := len(p.forest) - 1; i >= 0; i-- {
		root := p.forest[i]
		stack.Push(frame{node: root, route: []string{root.ID}})
	}

	pushes := 0
	for !stack.IsEmpty() {
		current, _ := stack.Pop()
		if current.node.Delivered() {
			continue
		}
		children := current.node.DetachChildren()
		if len(children) == 0 {
			continue
		}

		sink.PushChildren(current.route, Result{Rows: slices.Clone(children), TotalCount: len(children)})
		pushes++
		pushesTotal.Inc()
		pushedRowsTotal.Add(float64(len(children)))

		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			route := append(slices.Clone(current.route), child.ID)
			stack.Push(frame{node: child, route: route})
		}
	}

	p.state = Delivered
	slog.Debug("eager delivery complete", "provider", p.name, "pushes", pushes)
}
