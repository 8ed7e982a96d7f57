package ioharmonize

import (
	"context"
	"errors"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnharmony/pkg/parserpool"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"golang.org/x/sync/errgroup"
)

// names are normalized species and synonym of an entry.
type names struct {
	entry   *taxonomy.Entry
	species string
	synonym string
}

// Normalize replaces species and synonym names of entries with their
// canonical binomials. Names are parsed concurrently by jobsNum workers.
// It returns the number of entries that changed.
func Normalize(
	ctx context.Context,
	pool parserpool.Pool,
	tbl *taxonomy.Table,
	jobsNum int,
) (int, error) {
	jobsNum = max(jobsNum, 1)
	chIn := make(chan *taxonomy.Entry)
	chOut := make(chan names)

	g, ctx := errgroup.WithContext(ctx)
	var wg sync.WaitGroup

	for range jobsNum {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return normWorker(ctx, pool, chIn, chOut)
		})
	}

	var changed int
	g.Go(func() error {
		changed = collectNames(chOut, tbl.Len())
		return nil
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	err := loadEntries(ctx, tbl, chIn)
	close(chIn)
	if err != nil {
		_ = g.Wait()
		return 0, err
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return 0, err
	}
	return changed, nil
}

func loadEntries(
	ctx context.Context,
	tbl *taxonomy.Table,
	chIn chan<- *taxonomy.Entry,
) error {
	for _, e := range tbl.Entries() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chIn <- e:
		}
	}
	return nil
}

func normWorker(
	ctx context.Context,
	pool parserpool.Pool,
	chIn <-chan *taxonomy.Entry,
	chOut chan<- names,
) error {
	for e := range chIn {
		res := names{entry: e}
		res.species, _ = pool.Species(e.OriginalSpecies)
		if e.Synonym != "" {
			res.synonym, _ = pool.Species(e.Synonym)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- res:
		}
	}
	return nil
}

// collectNames is the only goroutine that changes entries.
func collectNames(chOut <-chan names, total int) int {
	bar := pb.Full.Start(total)
	bar.Set("prefix", "Normalizing species: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var res int
	for v := range chOut {
		e := v.entry
		if e.OriginalSpecies != v.species || e.Synonym != v.synonym {
			e.OriginalSpecies = v.species
			e.Synonym = v.synonym
			res++
		}
		bar.Increment()
	}
	return res
}
