package grove

import (
	"fmt"
	"time"
)

// Mapper grid dimensions. The layout is fixed regardless of granularity.
const (
	GridRows = 6
	GridCols = 6

	// dayRow is the row every event of a day view lands on.
	dayRow = 2
	// hoursPerRow buckets the 24 hours of a day into six rows.
	hoursPerRow = 4
)

// GridCell is a (row, col) position. Derived, never stored on the event.
// Month layouts may produce rows ≥ GridRows; these are not clipped.
type GridCell struct {
	Row, Col int
}

// GridSize is the terrain's tile extent.
type GridSize struct {
	Rows int `mapstructure:"rows" yaml:"rows"`
	Cols int `mapstructure:"cols" yaml:"cols"`
}

// DefaultGridSize is the 6×6 terrain matching the mapper layout.
var DefaultGridSize = GridSize{Rows: GridRows, Cols: GridCols}

// maxGridExtent bounds either grid dimension.
const maxGridExtent = 64

// Validate reports ErrInvalidGrid for non-positive or oversized grids.
func (g GridSize) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 || g.Rows > maxGridExtent || g.Cols > maxGridExtent {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	return nil
}

// MapOptions controls calendar arithmetic.
type MapOptions struct {
	// WeekStart is the first column of a week. The zero value is Sunday.
	WeekStart time.Weekday
	// Location converts timestamps before reading hours and dates. Nil keeps
	// each timestamp's own location.
	Location *time.Location
}

func (o MapOptions) local(t time.Time) time.Time {
	if o.Location != nil {
		return t.In(o.Location)
	}
	return t
}

// dayOfWeek returns t's weekday counted from o.WeekStart, in [0, 6].
func (o MapOptions) dayOfWeek(t time.Time) int {
	return (int(t.Weekday()) - int(o.WeekStart) + 7) % 7
}

// weekdayOfFirst returns the dayOfWeek of the first day of t's month.
func (o MapOptions) weekdayOfFirst(t time.Time) int {
	return o.dayOfWeek(firstOfMonth(t))
}

// MapEvent places ev on the grid. index is the event's position in its
// batch; the day granularity uses it as the column.
//
// Week columns are clamped to 5, so the last two days of a week share a
// column.
func MapEvent(ev EmotionEvent, g Granularity, index int, opts MapOptions) (GridCell, error) {
	if ev.Timestamp.IsZero() {
		return GridCell{}, &MappingError{Index: index, Raw: ev.RawTimestamp, Err: ErrInvalidTimestamp}
	}
	t := opts.local(ev.Timestamp)

	switch g {
	case GranularityDay:
		return GridCell{Row: dayRow, Col: min(index, GridCols-1)}, nil
	case GranularityWeek:
		return GridCell{Row: t.Hour() / hoursPerRow, Col: min(opts.dayOfWeek(t), GridCols-1)}, nil
	case GranularityMonth:
		offset := t.Day() + opts.weekdayOfFirst(t) - 1
		return GridCell{Row: offset / GridCols, Col: offset % GridCols}, nil
	}
	return GridCell{}, &MappingError{Index: index, Raw: ev.RawTimestamp, Err: fmt.Errorf("%w: %d", ErrUnknownGranularity, g)}
}

// MapEvents maps every event in order, stopping at the first failure.
func MapEvents(events []EmotionEvent, g Granularity, opts MapOptions) ([]GridCell, error) {
	cells := make([]GridCell, len(events))
	for i, ev := range events {
		c, err := MapEvent(ev, g, i, opts)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return cells, nil
}

// TileDate returns the calendar date a tile represents for the reference
// date. Month tiles before the first or after the last day wrap into the
// neighbouring months.
func TileDate(ref time.Time, g Granularity, cell GridCell, opts MapOptions) time.Time {
	ref = startOfDay(opts.local(ref))
	switch g {
	case GranularityWeek:
		return WeekStartOf(ref, opts.WeekStart).AddDate(0, 0, cell.Col)
	case GranularityMonth:
		dayNumber := cell.Row*GridCols + cell.Col - opts.weekdayOfFirst(ref) + 1
		return firstOfMonth(ref).AddDate(0, 0, dayNumber-1)
	default:
		return ref
	}
}

// WeekStartOf returns midnight of the week containing t.
func WeekStartOf(t time.Time, weekStart time.Weekday) time.Time {
	d := startOfDay(t)
	back := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// DateRange returns the inclusive window of timestamps visible for ref at
// granularity g. The end is the last millisecond of the window.
func DateRange(ref time.Time, g Granularity, opts MapOptions) (start, end time.Time) {
	ref = opts.local(ref)
	switch g {
	case GranularityWeek:
		start = WeekStartOf(ref, opts.WeekStart)
		end = start.AddDate(0, 0, 7)
	case GranularityMonth:
		start = firstOfMonth(ref)
		end = start.AddDate(0, 1, 0)
	default:
		start = startOfDay(ref)
		end = start.AddDate(0, 0, 1)
	}
	return start, end.Add(-time.Millisecond)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
