package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/percolath/core"
)

// Parse reads a topology spec and returns its Constructor with the graph
// options it needs. Forms (case-insensitive):
//
//	cycle:N  path:N  star:N  wheel:N  complete:N
//	grid:RxC  bipartite:AxB
//	sparse:N:P  regular:N:D  messages:N:M[:SELF]
//
// Specs joined by "+" become a DisjointUnion, e.g. "complete:5+path:4".
func Parse(spec string) (Constructor, []core.GraphOption, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	cons := make([]Constructor, 0, len(parts))
	multi := false
	for _, part := range parts {
		c, needsMulti, err := parseOne(strings.TrimSpace(part))
		if err != nil {
			return nil, nil, fmt.Errorf("%q: %w", spec, err)
		}
		cons = append(cons, c)
		multi = multi || needsMulti
	}

	var gopts []core.GraphOption
	if multi {
		gopts = append(gopts, core.WithMultiEdges(), core.WithLoops())
	}
	if len(cons) == 1 {
		return cons[0], gopts, nil
	}

	return DisjointUnion(cons...), gopts, nil
}

// Build parses spec and builds it with a seeded RNG.
func Build(spec string, seed int64) (*core.Graph, error) {
	cons, gopts, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	return BuildGraph(gopts, []BuilderOption{WithSeed(seed)}, cons)
}

func parseOne(part string) (Constructor, bool, error) {
	name, rest, _ := strings.Cut(part, ":")
	args := strings.Split(rest, ":")
	if rest == "" {
		args = nil
	}

	switch name {
	case "cycle", "path", "star", "wheel", "complete":
		n, err := intArgs(args, 1)
		if err != nil {
			return nil, false, err
		}
		return map[string]func(int) Constructor{
			"cycle": Cycle, "path": Path, "star": Star, "wheel": Wheel, "complete": Complete,
		}[name](n[0]), false, nil

	case "grid", "bipartite":
		if len(args) != 1 {
			return nil, false, fmt.Errorf("%s wants AxB: %w", name, ErrUnknownTopology)
		}
		a, b, ok := strings.Cut(args[0], "x")
		if !ok {
			return nil, false, fmt.Errorf("%s wants AxB: %w", name, ErrUnknownTopology)
		}
		dims, err := intArgs([]string{a, b}, 2)
		if err != nil {
			return nil, false, err
		}
		if name == "grid" {
			return Grid(dims[0], dims[1]), false, nil
		}
		return CompleteBipartite(dims[0], dims[1]), false, nil

	case "sparse":
		if len(args) != 2 {
			return nil, false, fmt.Errorf("sparse wants N:P: %w", ErrUnknownTopology)
		}
		n, err := intArgs(args[:1], 1)
		if err != nil {
			return nil, false, err
		}
		p, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, false, fmt.Errorf("sparse p %q: %w", args[1], ErrUnknownTopology)
		}
		return RandomSparse(n[0], p), false, nil

	case "regular":
		nd, err := intArgs(args, 2)
		if err != nil {
			return nil, false, err
		}
		return RandomRegular(nd[0], nd[1]), false, nil

	case "messages":
		if len(args) != 2 && len(args) != 3 {
			return nil, false, fmt.Errorf("messages wants N:M[:SELF]: %w", ErrUnknownTopology)
		}
		nm, err := intArgs(args[:2], 2)
		if err != nil {
			return nil, false, err
		}
		self := 0.0
		if len(args) == 3 {
			if self, err = strconv.ParseFloat(args[2], 64); err != nil {
				return nil, false, fmt.Errorf("messages self ratio %q: %w", args[2], ErrUnknownTopology)
			}
		}
		return Messages(nm[0], nm[1], self), true, nil
	}

	return nil, false, fmt.Errorf("%q: %w", name, ErrUnknownTopology)
}

func intArgs(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("want %d integer argument(s), got %d: %w", want, len(args), ErrUnknownTopology)
	}
	out := make([]int, want)
	for i, a := range args {
		v, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a, ErrUnknownTopology)
		}
		out[i] = v
	}

	return out, nil
}
