package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

func makeSites(reg *querycfg.Registry, n int) <-chan *variant.Variant {
	ch := make(chan *variant.Variant, n)
	for i := 0; i < n; i++ {
		ch <- &variant.Variant{
			ColumnBegin: int64(i),
			Calls:       []*variant.Call{buildCall(reg, "A", []string{"C"}, nil, nil)},
		}
	}
	close(ch)
	return ch
}

func TestRunSharded_OrderPreservation(t *testing.T) {
	reg := querycfg.Standard()
	sites := makeSites(reg, 200)
	results := RunSharded(sites, reg, "<NON_REF>", false, nil, 8, -1)

	var collected []int
	err := OrderedCollect(results, func(r SiteResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestRunSharded_SingleWorker(t *testing.T) {
	reg := querycfg.Standard()
	sites := makeSites(reg, 50)
	results := RunSharded(sites, reg, "<NON_REF>", false, nil, 1, -1)

	var collected []int
	err := OrderedCollect(results, func(r SiteResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestRunSharded_ColumnarFieldIdxPopulatesResult(t *testing.T) {
	reg := querycfg.Standard()
	plIdx := reg.QueryIdxFor(querycfg.PL)

	sites := make(chan *variant.Variant, 1)
	sites <- &variant.Variant{
		ColumnBegin: 1,
		Calls:       []*variant.Call{buildCall(reg, "A", []string{"C"}, nil, []int32{1, 2, 3})},
	}
	close(sites)

	results := RunSharded(sites, reg, "<NON_REF>", false, nil, 1, plIdx)

	err := OrderedCollect(results, func(r SiteResult) error {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Columnar)
		assert.Equal(t, 1, r.Columnar.NumSamples())
		return nil
	})
	require.NoError(t, err)
}

func TestRunSharded_WorkersDoNotShareAnOperator(t *testing.T) {
	// Each worker owns a private Operator/AlleleMap, so two sites whose
	// samples reuse input allele indices for different merged alleles
	// must not cross-contaminate regardless of which worker handles them.
	reg := querycfg.Standard()
	refIdx := reg.QueryIdxFor(querycfg.REF)

	sites := make(chan *variant.Variant, 2)
	sites <- &variant.Variant{ColumnBegin: 1, Calls: []*variant.Call{buildCall(reg, "A", []string{"C"}, nil, nil)}}
	sites <- &variant.Variant{ColumnBegin: 2, Calls: []*variant.Call{buildCall(reg, "G", []string{"T"}, nil, nil)}}
	close(sites)

	results := RunSharded(sites, reg, "<NON_REF>", false, nil, 4, -1)

	seen := map[int64]string{}
	err := OrderedCollect(results, func(r SiteResult) error {
		require.NoError(t, r.Err)
		seen[r.Merged.ColumnBegin] = r.Merged.Calls[0].Field(refIdx).Strings[0]
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A", seen[1])
	assert.Equal(t, "G", seen[2])
}
