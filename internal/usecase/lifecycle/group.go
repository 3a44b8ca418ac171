package lifecycle

import (
	"context"
	"sync"

	"github.com/bnema/zerowrap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/ephemera/internal/domain"
)

// StartAll starts specs concurrently. Containers are returned in the order of
// specs. If any start fails, the containers that did become ready are
// terminated and the first error is returned.
func (o *Orchestrator) StartAll(ctx context.Context, specs ...*domain.ContainerSpec) ([]*Container, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "StartAll",
		zerowrap.FieldCount:   len(specs),
	})
	log := zerowrap.FromCtx(ctx)

	containers := make([]*Container, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			c, err := o.Start(gctx, spec)
			if err != nil {
				return err
			}
			containers[i] = c
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		return containers, nil
	}

	var wg sync.WaitGroup
	for _, c := range containers {
		if c == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if termErr := c.Terminate(context.WithoutCancel(ctx)); termErr != nil {
				log.Warn().Err(termErr).Str(zerowrap.FieldEntityID, c.ID()).Msg("failed to terminate sibling container")
			}
		}()
	}
	wg.Wait()

	return nil, err
}
