package estimation

import (
	"golang.org/x/sync/errgroup"

	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

// Run scores every subject against models, running subjects in parallel
// over a data-parallel worker pool unless disableParallelism is set (which
// forces strictly sequential execution, needed for deterministic
// tie-break tests). Output order always matches the input subject order
// regardless of scheduling.
func Run(pc *preorder.Precomputed, subjects []subject.Subject, models []model.Model, ds model.DistanceScore, disableParallelism bool, log subject.Logger) ([]Result, error) {
	if log == nil {
		log = subject.NoopLogger{}
	}

	results := make([]Result, len(subjects))
	process := func(i int) error {
		s := subjects[i]
		res, err := runOne(pc, s.AltCount(), s.Choices, models, ds)
		if err != nil {
			return err
		}
		res.SubjectName = s.Name
		results[i] = res
		subject.Info(log, "scored subject "+s.Name)
		return nil
	}

	if disableParallelism {
		for i := range subjects {
			if err := process(i); err != nil {
				return nil, err
			}
			log.Progress(i + 1)
		}
		return results, nil
	}

	g := new(errgroup.Group)
	for i := range subjects {
		i := i
		g.Go(func() error { return process(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
