package frame

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrColumnNotFound is returned when a lookup names a column the table does not have.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when a column name is already taken.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrLengthMismatch is returned when a column does not match the table's row count.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrColumnKind is returned when a column holds a different kind of value than requested.
	ErrColumnKind = errors.New("unexpected column kind")
)

// DateLayout is the layout used for time cells when a table is written back as text.
const DateLayout = "2006-01-02"

// Kind is the value type held by a Column.
type Kind int

const (
	KindText Kind = iota
	KindTime
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Column is a named, ordered sequence of values of a single Kind.
type Column struct {
	name   string
	kind   Kind
	text   []string
	times  []time.Time
	floats Series
}

// TextColumn creates a text column holding a copy of values.
func TextColumn(name string, values []string) *Column {
	return &Column{name: name, kind: KindText, text: append([]string(nil), values...)}
}

// TimeColumn creates a time column holding a copy of values.
func TimeColumn(name string, values []time.Time) *Column {
	return &Column{name: name, kind: KindTime, times: append([]time.Time(nil), values...)}
}

// FloatColumn creates a float column holding a copy of values.
func FloatColumn(name string, values Series) *Column {
	return &Column{name: name, kind: KindFloat, floats: append(Series(nil), values...)}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.kind {
	case KindTime:
		return len(c.times)
	case KindFloat:
		return len(c.floats)
	default:
		return len(c.text)
	}
}

// Texts returns a copy of the values of a text column.
func (c *Column) Texts() ([]string, error) {
	if c.kind != KindText {
		return nil, fmt.Errorf("%w: %q is %s, not text", ErrColumnKind, c.name, c.kind)
	}
	return append([]string(nil), c.text...), nil
}

// Times returns a copy of the values of a time column.
func (c *Column) Times() ([]time.Time, error) {
	if c.kind != KindTime {
		return nil, fmt.Errorf("%w: %q is %s, not time", ErrColumnKind, c.name, c.kind)
	}
	return append([]time.Time(nil), c.times...), nil
}

// Floats returns a copy of the values of a float column.
func (c *Column) Floats() (Series, error) {
	if c.kind != KindFloat {
		return nil, fmt.Errorf("%w: %q is %s, not float", ErrColumnKind, c.name, c.kind)
	}
	return append(Series(nil), c.floats...), nil
}

// Format renders the value at row i as text. Undefined floats render as "".
func (c *Column) Format(i int) string {
	switch c.kind {
	case KindTime:
		return c.times[i].Format(DateLayout)
	case KindFloat:
		v := c.floats[i]
		if !v.Valid {
			return ""
		}
		return strconv.FormatFloat(v.Float64, 'f', -1, 64)
	default:
		return c.text[i]
	}
}

func (c *Column) clone() *Column {
	out := &Column{name: c.name, kind: c.kind}
	switch c.kind {
	case KindTime:
		out.times = append([]time.Time(nil), c.times...)
	case KindFloat:
		out.floats = append(Series(nil), c.floats...)
	default:
		out.text = append([]string(nil), c.text...)
	}
	return out
}

// pick returns a new column holding the values at rows, in that order.
func (c *Column) pick(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind}
	switch c.kind {
	case KindTime:
		out.times = make([]time.Time, len(rows))
		for i, r := range rows {
			out.times[i] = c.times[r]
		}
	case KindFloat:
		out.floats = make(Series, len(rows))
		for i, r := range rows {
			out.floats[i] = c.floats[r]
		}
	default:
		out.text = make([]string, len(rows))
		for i, r := range rows {
			out.text[i] = c.text[r]
		}
	}
	return out
}

// less orders rows i and j. Undefined floats sort last.
func (c *Column) less(i, j int) bool {
	switch c.kind {
	case KindTime:
		return c.times[i].Before(c.times[j])
	case KindFloat:
		a, b := c.floats[i], c.floats[j]
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		return a.Float64 < b.Float64
	default:
		return c.text[i] < c.text[j]
	}
}

// Table is an ordered collection of named, equal-length columns.
type Table struct {
	columns []*Column
	index   map[string]int
}

// New builds a table from columns. Names must be unique and lengths equal.
func New(columns ...*Column) (*Table, error) {
	t := &Table{columns: make([]*Column, 0, len(columns))}
	for _, c := range columns {
		if t.Has(c.name) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		if len(t.columns) > 0 && c.Len() != t.Len() {
			return nil, fmt.Errorf("%w: %q has %d rows, table has %d", ErrLengthMismatch, c.name, c.Len(), t.Len())
		}
		t.columns = append(t.columns, c)
		t.reindex()
	}
	t.reindex()
	return t, nil
}

// reindex rebuilds the name lookup. When renaming produced duplicate
// names, lookups resolve to the leftmost column.
func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if _, ok := t.index[c.name]; !ok {
			t.index[c.name] = i
		}
	}
}

// Duplicates returns the names carried by more than one column, in order of
// first appearance.
func (t *Table) Duplicates() []string {
	seen := make(map[string]int, len(t.columns))
	var dups []string
	for _, c := range t.columns {
		seen[c.name]++
		if seen[c.name] == 2 {
			dups = append(dups, c.name)
		}
	}
	return dups
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column called name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.columns[i], nil
}

// AddColumn appends c, or replaces the column of the same name in place.
func (t *Table) AddColumn(c *Column) error {
	if len(t.columns) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("%w: %q has %d rows, table has %d", ErrLengthMismatch, c.name, c.Len(), t.Len())
	}
	if i, ok := t.index[c.name]; ok {
		t.columns[i] = c
		return nil
	}
	t.columns = append(t.columns, c)
	t.reindex()
	return nil
}

// Rename changes the name of column from to to.
func (t *Table) Rename(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, from)
	}
	if from == to {
		return nil
	}
	if t.Has(to) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, to)
	}
	t.columns[i].name = to
	t.reindex()
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{columns: make([]*Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}
	out.reindex()
	return out
}

// Select returns a copy of the named columns, in the order given.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c.clone())
	}
	return New(cols...)
}

// Filter returns a copy holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return t.take(rows)
}

func (t *Table) take(rows []int) *Table {
	out := &Table{columns: make([]*Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.pick(rows)
	}
	out.reindex()
	return out
}

// Without returns a copy without the rows whose text cell in column name
// equals value. It is how sentinel observations are dropped.
func (t *Table) Without(name, value string) (*Table, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindText {
		return nil, fmt.Errorf("%w: %q is %s, not text", ErrColumnKind, name, c.kind)
	}
	return t.Filter(func(row int) bool { return c.text[row] != value }), nil
}

// ParseTime converts a text column to a time column in place.
func (t *Table) ParseTime(name, layout string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if c.kind == KindTime {
		return nil
	}
	if c.kind != KindText {
		return fmt.Errorf("%w: %q is %s, not text", ErrColumnKind, name, c.kind)
	}
	times := make([]time.Time, len(c.text))
	for i, s := range c.text {
		ts, err := time.Parse(layout, strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		times[i] = ts
	}
	c.kind, c.times, c.text = KindTime, times, nil
	return nil
}

// ParseFloat converts a text column to a float column in place. Sentinel
// values must be filtered out first; any non-numeric cell is an error.
func (t *Table) ParseFloat(name string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if c.kind == KindFloat {
		return nil
	}
	if c.kind != KindText {
		return fmt.Errorf("%w: %q is %s, not text", ErrColumnKind, name, c.kind)
	}
	floats := make(Series, len(c.text))
	for i, s := range c.text {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		floats[i] = Float(v)
	}
	c.kind, c.floats, c.text = KindFloat, floats, nil
	return nil
}

// SortBy stably sorts all rows ascending by column name, in place.
func (t *Table) SortBy(name string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool { return c.less(rows[i], rows[j]) })
	for i, col := range t.columns {
		t.columns[i] = col.pick(rows)
	}
	return nil
}

// Divide adds (or replaces) column dst holding num / den row by row.
// Rows where either side is undefined or den is zero are undefined.
func (t *Table) Divide(dst, num, den string) error {
	a, err := t.floatColumn(num)
	if err != nil {
		return err
	}
	b, err := t.floatColumn(den)
	if err != nil {
		return err
	}
	out := make(Series, len(a))
	for i := range a {
		if a[i].Valid && b[i].Valid && b[i].Float64 != 0 {
			out[i] = Float(a[i].Float64 / b[i].Float64)
		}
	}
	return t.AddColumn(&Column{name: dst, kind: KindFloat, floats: out})
}

func (t *Table) floatColumn(name string) (Series, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindFloat {
		return nil, fmt.Errorf("%w: %q is %s, not float", ErrColumnKind, name, c.kind)
	}
	return c.floats, nil
}

// DropUndefined returns a copy without the rows where float column name is undefined.
func (t *Table) DropUndefined(name string) (*Table, error) {
	vals, err := t.floatColumn(name)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row int) bool { return vals[row].Valid }), nil
}

// Records returns every row rendered as text, in column order.
func (t *Table) Records() [][]string {
	records := make([][]string, t.Len())
	for r := range records {
		row := make([]string, len(t.columns))
		for i, c := range t.columns {
			row[i] = c.Format(r)
		}
		records[r] = row
	}
	return records
}
