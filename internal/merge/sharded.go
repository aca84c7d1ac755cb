package merge

import (
	"runtime"
	"sync"

	"github.com/varmerge/vargt-merge/internal/columnar"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// SiteResult holds one site's merge outcome, tagged with its arrival
// sequence number so callers can restore site order after fan-out.
type SiteResult struct {
	Seq    int
	Site   *variant.Variant
	Merged *variant.Variant
	Err    error

	// Columnar is set when RunSharded was given a columnarFieldIdx >= 0:
	// the dense matrix the handling worker's Operator built for that
	// field while merging this site.
	Columnar *columnar.Int32Matrix
}

// RunSharded shards sites across worker goroutines, each holding its
// own Operator and AlleleMap so concurrent merges never share mutable
// scratch state. If workers is 0, runtime.NumCPU() is used.
// columnarFieldIdx, when >= 0, is forwarded to each worker's Operator as
// ColumnarQueryIdx so each SiteResult of a merged site carries a
// populated Columnar matrix for that field; a site skipped without a
// merged result carries nil.
func RunSharded(sites <-chan *variant.Variant, reg *querycfg.Registry, nonRef string, permissive bool, log Logger, workers int, columnarFieldIdx int) <-chan SiteResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = nopLogger{}
	}

	type seqSite struct {
		seq  int
		site *variant.Variant
	}
	numbered := make(chan seqSite, 2*workers)
	go func() {
		defer close(numbered)
		seq := 0
		for s := range sites {
			numbered <- seqSite{seq: seq, site: s}
			seq++
		}
	}()

	results := make(chan SiteResult, 2*workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			op := NewOperator(reg)
			op.NonRef = nonRef
			op.Permissive = permissive
			op.Log = log
			op.ColumnarQueryIdx = columnarFieldIdx

			for ns := range numbered {
				merged, err := op.Operate(ns.site)
				results <- SiteResult{Seq: ns.seq, Site: ns.site, Merged: merged, Err: err, Columnar: op.Columnar}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in arrival-sequence order,
// buffering out-of-order results until their turn. Blocks until
// results is closed.
func OrderedCollect(results <-chan SiteResult, fn func(SiteResult) error) error {
	pending := make(map[int]SiteResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
