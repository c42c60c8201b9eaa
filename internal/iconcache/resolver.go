package iconcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"azsearch/internal/debug"
	"azsearch/internal/devops"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultParallelism bounds concurrent icon downloads for one project.
const DefaultParallelism = 4

// ErrIconNotFound is returned when a project has no icon for the requested
// work item type.
var ErrIconNotFound = errors.New("icon not found")

// Source is the subset of devops.Client the resolver needs.
type Source interface {
	WorkItemTypes(ctx context.Context, project string) ([]devops.WorkItemType, error)
	FetchIcon(ctx context.Context, iconURL string) (string, error)
}

// Resolver returns icon URIs for work item types, filling the store from the
// remote icon set on a miss.
type Resolver struct {
	source      Source
	store       Store
	parallelism int
	group       singleflight.Group

	mu     sync.Mutex
	loaded map[string]map[string]string // project -> type -> URI of the last fetch
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithParallelism caps concurrent icon downloads.
func WithParallelism(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// NewResolver creates a resolver reading through store.
func NewResolver(source Source, store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:      source,
		store:       store,
		parallelism: DefaultParallelism,
		loaded:      make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the icon URI of workItemType in project. A cache hit makes
// no remote call. On a miss the whole icon set of the project is fetched and
// stored; concurrent misses for the same project share that fetch. Once a
// project's set is loaded, types absent from it fail without another fetch
// until Refresh or Clear.
func (r *Resolver) Resolve(ctx context.Context, project, workItemType string) (string, error) {
	key := Key(project, workItemType)
	uri, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		return uri, nil
	}

	icons, ok := r.loadedSet(project)
	if !ok {
		icons, err = r.load(ctx, project)
		if err != nil {
			return "", err
		}
	}
	uri, ok = icons[workItemType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrIconNotFound, key)
	}
	return uri, nil
}

// Refresh re-fetches and stores the icon set of project regardless of what
// is cached, returning the URIs keyed by type name.
func (r *Resolver) Refresh(ctx context.Context, project string) (map[string]string, error) {
	return r.load(ctx, project)
}

// Clear empties the backing store.
func (r *Resolver) Clear(ctx context.Context) error {
	r.mu.Lock()
	clear(r.loaded)
	r.mu.Unlock()
	return r.store.Clear(ctx)
}

func (r *Resolver) loadedSet(project string) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	icons, ok := r.loaded[project]
	return icons, ok
}

// load runs one fetch per project at a time. The fetch outlives the caller
// that started it, so cancelling one waiter does not fail the others.
func (r *Resolver) load(ctx context.Context, project string) (map[string]string, error) {
	ch := r.group.DoChan(project, func() (any, error) {
		icons, err := r.fetch(context.WithoutCancel(ctx), project)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.loaded[project] = icons
		r.mu.Unlock()
		return icons, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			debug.Logf("icon set for %s shared with a concurrent request", project)
		}
		return res.Val.(map[string]string), nil
	}
}

func (r *Resolver) fetch(ctx context.Context, project string) (map[string]string, error) {
	types, err := r.source.WorkItemTypes(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("list work item types of %s: %w", project, err)
	}

	var mu sync.Mutex
	icons := make(map[string]string, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for _, wit := range types {
		if wit.Icon == nil || wit.Icon.URL == "" {
			continue
		}
		g.Go(func() error {
			uri, err := r.source.FetchIcon(gctx, wit.Icon.URL)
			if err != nil {
				return fmt.Errorf("icon for %s: %w", wit.Name, err)
			}
			mu.Lock()
			icons[wit.Name] = uri
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(icons))
	for name, uri := range icons {
		entries[Key(project, name)] = uri
	}
	if err := r.store.SetMany(ctx, entries); err != nil {
		return nil, fmt.Errorf("store icons of %s: %w", project, err)
	}
	debug.Logf("cached %d icons for %s", len(entries), project)
	return icons, nil
}
