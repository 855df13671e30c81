package edgelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/katalvlaran/percolath/core"
	"github.com/katalvlaran/percolath/experiment"
)

var (
	// ErrMissingColumn indicates a configured column absent from the header.
	ErrMissingColumn = errors.New("edgelist: column not found")

	// ErrBadDate indicates a date cell that matches none of the layouts.
	ErrBadDate = errors.New("edgelist: unparseable date")

	// ErrBadMonth indicates a month that is not YYYY-MM.
	ErrBadMonth = errors.New("edgelist: month must be YYYY-MM")
)

// DefaultBucket names the single snapshot produced without bucketing.
const DefaultBucket = "all"

// MonthLayout is the bucket format for dated rows.
const MonthLayout = "2006-01"

// DefaultDateLayouts are tried in order when Options.DateLayouts is empty.
var DefaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Options maps CSV columns onto the graph. Empty column names disable the
// corresponding feature.
type Options struct {
	From string // default "from"
	To   string // default "to"

	Date        string // bucket by the month of this column
	DateLayouts []string
	Bucket      string // bucket by this column verbatim; ignored when Date is set

	// FromAttr and ToAttr hold a per-row vertex attribute (e.g. a job
	// position) stored under AttrKey on the respective endpoint.
	FromAttr string
	ToAttr   string
	AttrKey  string // default "position"

	// Start and End (YYYY-MM, inclusive) restrict dated buckets. With
	// both set, months without rows yield empty snapshots so the result
	// covers the full range.
	Start string
	End   string

	Comma rune // default ','
}

func (o Options) withDefaults() Options {
	if o.From == "" {
		o.From = "from"
	}
	if o.To == "" {
		o.To = "to"
	}
	if o.AttrKey == "" {
		o.AttrKey = "position"
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = DefaultDateLayouts
	}
	if o.Comma == 0 {
		o.Comma = ','
	}

	return o
}

// Load opens path and calls Read.
func Load(path string, opts Options) ([]experiment.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edgelist: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read parses a CSV stream with a header row and returns one snapshot per
// bucket, sorted by bucket name.
func Read(r io.Reader, opts Options) ([]experiment.Snapshot, error) {
	opts = opts.withDefaults()
	if err := checkMonth(opts.Start); err != nil {
		return nil, err
	}
	if err := checkMonth(opts.End); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("edgelist: reading header: %w", err)
	}
	cols, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}

	graphs := make(map[string]*core.Graph)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("edgelist: line %d: %w", line, err)
		}

		bucket, err := cols.bucketOf(record, opts)
		if err != nil {
			return nil, fmt.Errorf("edgelist: line %d: %w", line, err)
		}
		if !inRange(bucket, opts, cols.date >= 0) {
			continue
		}
		g, ok := graphs[bucket]
		if !ok {
			g = newSnapshotGraph()
			graphs[bucket] = g
		}
		if err := cols.addRow(g, record, opts); err != nil {
			return nil, fmt.Errorf("edgelist: line %d: %w", line, err)
		}
	}

	if cols.date >= 0 && opts.Start != "" && opts.End != "" {
		months, err := MonthRange(opts.Start, opts.End)
		if err != nil {
			return nil, err
		}
		for _, m := range months {
			if _, ok := graphs[m]; !ok {
				graphs[m] = newSnapshotGraph()
			}
		}
	}

	names := make([]string, 0, len(graphs))
	for name := range graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]experiment.Snapshot, len(names))
	for i, name := range names {
		out[i] = experiment.Snapshot{Name: name, Graph: graphs[name]}
	}

	return out, nil
}

func newSnapshotGraph() *core.Graph {
	return core.NewGraph(core.WithMultiEdges(), core.WithLoops())
}

// columns holds header positions; -1 marks an unused column.
type columns struct {
	header   []string
	from, to int
	date     int
	bucket   int
	fromAttr int
	toAttr   int
	extra    []int
}

func resolveColumns(header []string, opts Options) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	lookup := func(name string, required bool) (int, error) {
		if name == "" && !required {
			return -1, nil
		}
		i, ok := index[name]
		if !ok {
			return -1, fmt.Errorf("%q: %w", name, ErrMissingColumn)
		}
		return i, nil
	}

	cols := columns{header: header}
	var err error
	if cols.from, err = lookup(opts.From, true); err != nil {
		return cols, err
	}
	if cols.to, err = lookup(opts.To, true); err != nil {
		return cols, err
	}
	if cols.date, err = lookup(opts.Date, false); err != nil {
		return cols, err
	}
	bucketCol := opts.Bucket
	if cols.date >= 0 {
		bucketCol = ""
	}
	if cols.bucket, err = lookup(bucketCol, false); err != nil {
		return cols, err
	}
	if cols.fromAttr, err = lookup(opts.FromAttr, false); err != nil {
		return cols, err
	}
	if cols.toAttr, err = lookup(opts.ToAttr, false); err != nil {
		return cols, err
	}

	used := map[int]bool{cols.from: true, cols.to: true, cols.date: true, cols.bucket: true, cols.fromAttr: true, cols.toAttr: true}
	for i := range header {
		if !used[i] && header[i] != "" {
			cols.extra = append(cols.extra, i)
		}
	}

	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

func (c columns) bucketOf(record []string, opts Options) (string, error) {
	switch {
	case c.date >= 0:
		t, err := parseDate(field(record, c.date), opts.DateLayouts)
		if err != nil {
			return "", err
		}
		return t.Format(MonthLayout), nil
	case c.bucket >= 0:
		if b := field(record, c.bucket); b != "" {
			return b, nil
		}
		return DefaultBucket, nil
	default:
		return DefaultBucket, nil
	}
}

func (c columns) addRow(g *core.Graph, record []string, opts Options) error {
	from, to := field(record, c.from), field(record, c.to)
	if from == "" || to == "" {
		return fmt.Errorf("empty endpoint: %w", core.ErrEmptyVertexID)
	}
	if err := addEndpoint(g, from, field(record, c.fromAttr), c.fromAttr >= 0, opts.AttrKey); err != nil {
		return err
	}
	if err := addEndpoint(g, to, field(record, c.toAttr), c.toAttr >= 0, opts.AttrKey); err != nil {
		return err
	}

	var meta map[string]interface{}
	if len(c.extra) > 0 {
		meta = make(map[string]interface{}, len(c.extra))
		for _, i := range c.extra {
			meta[c.header[i]] = field(record, i)
		}
	}
	_, err := g.AddEdge(from, to, 0, core.WithEdgeMetadata(meta))

	return err
}

func addEndpoint(g *core.Graph, id, attr string, hasAttr bool, key string) error {
	if !hasAttr || attr == "" {
		return g.AddVertex(id)
	}

	return g.AddVertexWithMetadata(id, map[string]interface{}{key: attr})
}

func parseDate(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadDate)
}

func checkMonth(m string) error {
	if m == "" {
		return nil
	}
	if _, err := time.Parse(MonthLayout, m); err != nil {
		return fmt.Errorf("%q: %w", m, ErrBadMonth)
	}

	return nil
}

func inRange(bucket string, opts Options, dated bool) bool {
	if !dated {
		return true
	}
	if opts.Start != "" && bucket < opts.Start {
		return false
	}
	if opts.End != "" && bucket > opts.End {
		return false
	}

	return true
}

// MonthRange lists every month from start to end inclusive as YYYY-MM.
// start after end yields an empty list.
func MonthRange(start, end string) ([]string, error) {
	s, err := time.Parse(MonthLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", start, ErrBadMonth)
	}
	e, err := time.Parse(MonthLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", end, ErrBadMonth)
	}

	var out []string
	for m := s; !m.After(e); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format(MonthLayout))
	}

	return out, nil
}
