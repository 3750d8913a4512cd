// Package batch converts many independent diagram documents on a worker pool.
//
// Each document is still converted by a single goroutine; the pool only runs
// separate conversions side by side. Inputs with identical bytes are
// converted once and share the resulting diagram, which callers must treat as
// read-only.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/diagram-common/document"
	"github.com/amp-labs/diagram-common/logger"
	"github.com/amp-labs/diagram-common/statediagram"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

// ErrNoInputs is returned when ConvertAll is called with nothing to convert.
var ErrNoInputs = errors.New("no inputs")

// Input is one serialized parser result.
type Input struct {
	Name string
	Data []byte
}

// Result is the outcome of converting one input. Results keep input order.
type Result struct {
	Name    string
	Diagram *statediagram.Diagram
	// ContentHash is the xxh3 hash of the input bytes.
	ContentHash uint64
	// DuplicateOf is the index of an earlier input with identical content, or -1.
	DuplicateOf int
	Err         error
}

// Stats summarizes a batch.
type Stats struct {
	Converted    int64
	Failed       int64
	Deduplicated int64
}

// Options configures a batch run.
type Options struct {
	// Workers bounds the number of concurrent conversions. Zero means GOMAXPROCS.
	Workers int
	// Convert is passed to every conversion.
	Convert []statediagram.Option
}

// ConvertAll parses and converts every input. A failing input does not stop
// the others; its error is reported on its Result. The returned error is only
// set when the batch itself could not run.
func ConvertAll(ctx context.Context, inputs []Input, opts Options) ([]Result, Stats, error) {
	if len(inputs) == 0 {
		return nil, Stats{}, ErrNoInputs
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(inputs))
	firstByHash := make(map[uint64]int, len(inputs))

	var unique []int

	for i, in := range inputs {
		hash := xxh3.Hash(in.Data)
		results[i] = Result{Name: in.Name, ContentHash: hash, DuplicateOf: -1}

		if first, ok := firstByHash[hash]; ok {
			results[i].DuplicateOf = first

			continue
		}

		firstByHash[hash] = i
		unique = append(unique, i)
	}

	var converted, failed atomic.Int64

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, idx := range unique {
		group.Submit(func() {
			res := &results[idx]
			res.Diagram, res.Err = convertOne(ctx, inputs[idx], opts.Convert)

			if res.Err != nil {
				failed.Inc()
			} else {
				converted.Inc()
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, Stats{}, fmt.Errorf("batch interrupted: %w", err)
	}

	var deduplicated int64

	for i := range results {
		if first := results[i].DuplicateOf; first >= 0 {
			results[i].Diagram = results[first].Diagram
			results[i].Err = results[first].Err
			deduplicated++
		}
	}

	stats := Stats{
		Converted:    converted.Load(),
		Failed:       failed.Load(),
		Deduplicated: deduplicated,
	}

	logger.Get(ctx).DebugContext(ctx, "Converted batch",
		"inputs", len(inputs),
		"converted", stats.Converted,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated,
	)

	return results, stats, nil
}

// ReadFiles loads inputs from disk, named by their paths.
func ReadFiles(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // Paths come from the caller
		if err != nil {
			return nil, logger.AnnotateError(fmt.Errorf("failed to read input: %w", err), "input", path)
		}

		inputs = append(inputs, Input{Name: path, Data: data})
	}

	return inputs, nil
}

func convertOne(ctx context.Context, in Input, opts []statediagram.Option) (*statediagram.Diagram, error) {
	ctx = logger.With(ctx, "input", in.Name)

	doc, err := document.Parse(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	d, err := statediagram.Convert(ctx, doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	return d, nil
}
