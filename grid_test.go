package grove

import (
	"errors"
	"testing"
	"time"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestMapEventWeek(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want GridCell
	}{
		{at(2024, 3, 5, 2), GridCell{Row: 0, Col: 2}},
		{at(2024, 3, 5, 10), GridCell{Row: 2, Col: 2}},
		{at(2024, 3, 5, 22), GridCell{Row: 5, Col: 2}},
		{at(2024, 3, 3, 0), GridCell{Row: 0, Col: 0}},  // Sunday
		{at(2024, 3, 8, 23), GridCell{Row: 5, Col: 5}}, // Friday
		{at(2024, 3, 9, 12), GridCell{Row: 3, Col: 5}}, // Saturday shares Friday's column
	}
	for _, tt := range tests {
		got, err := MapEvent(EmotionEvent{Timestamp: tt.ts}, GranularityWeek, 0, MapOptions{})
		if err != nil {
			t.Fatalf("MapEvent(%v): %v", tt.ts, err)
		}
		if got != tt.want {
			t.Errorf("MapEvent(%v) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

func TestMapEventWeekStart(t *testing.T) {
	// Tuesday is the second column when weeks start on Monday.
	got, err := MapEvent(EmotionEvent{Timestamp: at(2024, 3, 5, 10)}, GranularityWeek, 0, MapOptions{WeekStart: time.Monday})
	if err != nil {
		t.Fatal(err)
	}
	if want := (GridCell{Row: 2, Col: 1}); got != want {
		t.Errorf("cell = %v, want %v", got, want)
	}
}

func TestMapEventDay(t *testing.T) {
	ev := EmotionEvent{Timestamp: at(2024, 3, 5, 10)}
	for _, tt := range []struct {
		index int
		col   int
	}{{0, 0}, {3, 3}, {5, 5}, {7, 5}, {40, 5}} {
		got, err := MapEvent(ev, GranularityDay, tt.index, MapOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if got.Row != 2 || got.Col != tt.col {
			t.Errorf("index %d: cell = %v, want (2, %d)", tt.index, got, tt.col)
		}
	}
}

func TestMapEventMonth(t *testing.T) {
	// June 2024 starts on a Saturday.
	opts := MapOptions{WeekStart: time.Wednesday}
	tests := []struct {
		day  int
		want GridCell
	}{
		{1, GridCell{Row: 0, Col: 3}},
		{3, GridCell{Row: 0, Col: 5}},
		{4, GridCell{Row: 1, Col: 0}},
		{10, GridCell{Row: 2, Col: 0}},
		{30, GridCell{Row: 5, Col: 2}},
	}
	for _, tt := range tests {
		got, err := MapEvent(EmotionEvent{Timestamp: at(2024, 6, tt.day, 9)}, GranularityMonth, 0, opts)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("June %d: cell = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestMapEventMonthOverflowsGrid(t *testing.T) {
	// March 2024 starts on a Friday: the 31st is offset 35, the last cell
	// of the sixth row.
	got, err := MapEvent(EmotionEvent{Timestamp: at(2024, 3, 31, 9)}, GranularityMonth, 0, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if want := (GridCell{Row: 5, Col: 5}); got != want {
		t.Errorf("cell = %v, want %v", got, want)
	}
	got, _ = MapEvent(EmotionEvent{Timestamp: at(2024, 12, 31, 9)}, GranularityMonth, 0, MapOptions{})
	// December 2024 starts on a Sunday: offset 30.
	if want := (GridCell{Row: 5, Col: 0}); got != want {
		t.Errorf("December 31: cell = %v, want %v", got, want)
	}
	// March 2025 starts on a Saturday: offset 36 spills into a seventh row.
	got, _ = MapEvent(EmotionEvent{Timestamp: at(2025, 3, 31, 9)}, GranularityMonth, 0, MapOptions{})
	if want := (GridCell{Row: 6, Col: 0}); got != want {
		t.Errorf("March 31 2025: cell = %v, want %v", got, want)
	}
	got, _ = MapEvent(EmotionEvent{Timestamp: at(2025, 3, 30, 9)}, GranularityMonth, 0, MapOptions{})
	if want := (GridCell{Row: 5, Col: 6}); got != want {
		t.Errorf("March 30 2025: cell = %v, want %v", got, want)
	}
}

func TestMapEventLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got, err := MapEvent(EmotionEvent{Timestamp: at(2024, 3, 5, 22)}, GranularityWeek, 0, MapOptions{Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	// 22:00 UTC is 01:00 Wednesday.
	if want := (GridCell{Row: 0, Col: 3}); got != want {
		t.Errorf("cell = %v, want %v", got, want)
	}
}

func TestMapEventInvalidTimestamp(t *testing.T) {
	_, err := MapEvent(EmotionEvent{RawTimestamp: "soon"}, GranularityWeek, 4, MapOptions{})
	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MappingError", err)
	}
	if me.Index != 4 || me.Raw != "soon" {
		t.Errorf("MappingError = %+v", me)
	}
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("err = %v, want ErrInvalidTimestamp", err)
	}
}

func TestMapEventUnknownGranularity(t *testing.T) {
	_, err := MapEvent(EmotionEvent{Timestamp: at(2024, 3, 5, 2)}, Granularity(9), 0, MapOptions{})
	if !errors.Is(err, ErrUnknownGranularity) {
		t.Errorf("err = %v, want ErrUnknownGranularity", err)
	}
}

func TestMapEventsStopsAtFirstFailure(t *testing.T) {
	events := []EmotionEvent{
		{Timestamp: at(2024, 3, 5, 2)},
		{},
		{},
	}
	cells, err := MapEvents(events, GranularityWeek, MapOptions{})
	if cells != nil {
		t.Errorf("cells = %v, want nil", cells)
	}
	var me *MappingError
	if !errors.As(err, &me) || me.Index != 1 {
		t.Errorf("err = %v, want MappingError at index 1", err)
	}
}

func TestTileDate(t *testing.T) {
	ref := at(2024, 3, 5, 15)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name string
		g    Granularity
		cell GridCell
		want time.Time
	}{
		{"day", GranularityDay, GridCell{Row: 4, Col: 4}, day(3, 5)},
		{"week first column", GranularityWeek, GridCell{Row: 3, Col: 0}, day(3, 3)},
		{"week last column", GranularityWeek, GridCell{Row: 0, Col: 5}, day(3, 8)},
		{"month first day", GranularityMonth, GridCell{Row: 0, Col: 5}, day(3, 1)},
		{"month before first", GranularityMonth, GridCell{Row: 0, Col: 0}, day(2, 25)},
		{"month last cell", GranularityMonth, GridCell{Row: 5, Col: 5}, day(3, 31)},
	}
	for _, tt := range tests {
		got := TileDate(ref, tt.g, tt.cell, MapOptions{})
		if !got.Equal(tt.want) {
			t.Errorf("%s: TileDate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTileDateSharesEventZone(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	opts := MapOptions{Location: est}
	ev, err := DecodeEvents([]byte(`[{"emotion":"joy","createdAt":"2024-03-05T02:00:00Z"}]`))
	if err != nil {
		t.Fatal(err)
	}
	cell, err := MapEvent(ev[0], GranularityWeek, 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	// 02:00 UTC Tuesday is 21:00 Monday in EST.
	if want := (GridCell{Row: 5, Col: 1}); cell != want {
		t.Fatalf("cell = %v, want %v", cell, want)
	}
	for _, ref := range []time.Time{
		time.Date(2024, 3, 5, 12, 0, 0, 0, est),
		time.Date(2024, 3, 5, 17, 0, 0, 0, time.UTC),
	} {
		got := TileDate(ref, GranularityWeek, cell, opts)
		if got.Weekday() != time.Monday || got.Day() != 4 || got.Location() != est {
			t.Errorf("ref %v: tile date = %v, want Monday 2024-03-04 EST", ref, got)
		}
	}
}

func TestTileDateMatchesMapping(t *testing.T) {
	// Every day of a month maps to a cell whose tile date is that day.
	opts := MapOptions{WeekStart: time.Monday}
	for d := 1; d <= 30; d++ {
		ts := at(2024, 9, d, 12)
		cell, err := MapEvent(EmotionEvent{Timestamp: ts}, GranularityMonth, 0, opts)
		if err != nil {
			t.Fatal(err)
		}
		got := TileDate(ts, GranularityMonth, cell, opts)
		if got.Day() != d || got.Month() != time.September {
			t.Errorf("day %d: cell %v has tile date %v", d, cell, got)
		}
	}
}

func TestDateRange(t *testing.T) {
	ref := at(2024, 2, 14, 9)
	tests := []struct {
		g          Granularity
		start, end time.Time
	}{
		{GranularityDay, at(2024, 2, 14, 0), at(2024, 2, 15, 0)},
		{GranularityWeek, at(2024, 2, 11, 0), at(2024, 2, 18, 0)},
		{GranularityMonth, at(2024, 2, 1, 0), at(2024, 3, 1, 0)},
	}
	for _, tt := range tests {
		start, end := DateRange(ref, tt.g, MapOptions{})
		if !start.Equal(tt.start) {
			t.Errorf("%v: start = %v, want %v", tt.g, start, tt.start)
		}
		if want := tt.end.Add(-time.Millisecond); !end.Equal(want) {
			t.Errorf("%v: end = %v, want %v", tt.g, end, want)
		}
	}
}

func TestWeekStartOf(t *testing.T) {
	got := WeekStartOf(at(2024, 3, 3, 18), time.Monday)
	if want := at(2024, 2, 26, 0); !got.Equal(want) {
		t.Errorf("WeekStartOf = %v, want %v", got, want)
	}
}

func TestGridSizeValidate(t *testing.T) {
	for _, g := range []GridSize{{0, 6}, {6, -1}, {65, 6}} {
		if err := g.Validate(); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidGrid", g, err)
		}
	}
	if err := DefaultGridSize.Validate(); err != nil {
		t.Errorf("default grid: %v", err)
	}
}
