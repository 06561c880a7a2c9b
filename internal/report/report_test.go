package report

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func regionRows() []Row {
	return []Row{
		NewRow(Cell{"id", "1"}, Cell{"region", "EU"}, Cell{"state", "Done"}),
		NewRow(Cell{"id", "2"}, Cell{"region", " US "}, Cell{"state", "Active"}),
		NewRow(Cell{"id", "3"}, Cell{"region", "EU"}, Cell{"state", "Active"}),
		NewRow(Cell{"id", "4"}, Cell{"region", "APAC"}, Cell{"state", ""}),
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(Options{
		Headers: []Header{
			{ID: "id", Width: 100},
			{ID: "region", Width: 300},
			{ID: "state", Width: 400},
		},
		Rows:       regionRows(),
		Filterable: []string{"region", "state"},
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry([]Header{{ID: "a", Width: 80}, {ID: " "}, {ID: "b"}, {ID: "a", Width: 10}})
	want := []Column{
		{ID: "a", Width: 80, LastWidth: 80},
		{ID: "b", Width: DefaultWidth},
	}
	if diff := cmp.Diff(want, r.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilterOptionsScenario(t *testing.T) {
	s := newTestSession(t)
	if diff := cmp.Diff([]string{"APAC", "EU", "US"}, s.Options("region")); diff != "" {
		t.Fatalf("region options (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Active", "Done"}, s.Options("state")); diff != "" {
		t.Fatalf("state options exclude empty (-want +got):\n%s", diff)
	}
	if got := s.Options("id"); len(got) != 0 {
		t.Fatalf("non-filterable column has options %v", got)
	}
}

func TestFilterOptionsSortedUnique(t *testing.T) {
	values := []string{"b", "a", "", "c", "a", "B", "  ", "b"}
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = NewRow(Cell{"k", v})
	}
	opts := BuildFilterIndex(rows, []string{"k"}).Options("k")
	for i, v := range opts {
		if v == "" {
			t.Fatalf("empty option at %d", i)
		}
		if i > 0 && opts[i-1] >= v {
			t.Fatalf("options not strictly sorted: %v", opts)
		}
	}
	if diff := cmp.Diff([]string{"B", "a", "b", "c"}, opts); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestResizeScenario(t *testing.T) {
	s := NewSession(Options{
		Headers:    []Header{{ID: "a", Width: 300}, {ID: "b", Width: 500}},
		TableWidth: 800,
	})
	for _, delta := range []int{40, -10} {
		if ok, err := s.Resize("a", delta); err != nil || !ok {
			t.Fatalf("resize %d: ok=%v err=%v", delta, ok, err)
		}
	}
	if got := s.TableWidth(); got != 830 {
		t.Fatalf("table width = %d, want 830", got)
	}
	col, _ := s.Column("a")
	if col.Width != 330 || col.LastWidth != 330 {
		t.Fatalf("column = %+v, want width 330", col)
	}
}

func TestResizeSumOfDeltas(t *testing.T) {
	s := newTestSession(t)
	deltas := []int{25, -30, 60, -5, 12}
	sum := 0
	for _, d := range deltas {
		sum += d
		if _, err := s.Resize("region", d); err != nil {
			t.Fatal(err)
		}
	}
	col, _ := s.Column("region")
	if col.Width != 300+sum {
		t.Fatalf("width = %d, want %d", col.Width, 300+sum)
	}
	if s.TableWidth() != 800+sum {
		t.Fatalf("table = %d, want %d", s.TableWidth(), 800+sum)
	}
	if s.Drift() != 0 {
		t.Fatalf("drift = %d", s.Drift())
	}
}

func TestGestureMinimumWidth(t *testing.T) {
	s := newTestSession(t)
	g, err := s.BeginResize("id", 1000)
	if err != nil {
		t.Fatal(err)
	}
	defer g.End()

	if !g.Move(980) {
		t.Fatal("move to 80 should apply")
	}
	for _, x := range []int{940, 950} {
		if g.Move(x) {
			t.Fatalf("move to x=%d should be dropped", x)
		}
	}
	col, _ := s.Column("id")
	if col.Width != 80 {
		t.Fatalf("width held at %d, want 80", col.Width)
	}
	if !g.Move(951) {
		t.Fatal("move to 51 should apply")
	}
	col, _ = s.Column("id")
	if col.Width != 51 || s.TableWidth() != 751 {
		t.Fatalf("got width %d table %d", col.Width, s.TableWidth())
	}
}

func TestGestureExclusive(t *testing.T) {
	s := newTestSession(t)
	g, err := s.BeginResize("id", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.BeginResize("region", 0); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	g.End()
	g.End()
	if s.ActiveGesture() != nil {
		t.Fatal("gesture not released")
	}
	if g.Move(200) {
		t.Fatal("released gesture must not apply moves")
	}
	if _, err := s.Resize("region", 10); err != nil {
		t.Fatalf("new gesture after release: %v", err)
	}
	if s.ActiveGesture() != nil {
		t.Fatal("Resize must release its gesture")
	}
}

func TestResizeErrors(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Resize("nope", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Toggle("id", false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Resize("id", 10); !errors.Is(err, ErrColumnHidden) {
		t.Fatalf("expected ErrColumnHidden, got %v", err)
	}
}

func TestHideShowRestoresWidth(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Resize("region", 35); err != nil {
		t.Fatal(err)
	}
	before := s.TableWidth()
	if err := s.Toggle("region", false); err != nil {
		t.Fatal(err)
	}
	if got := s.TableWidth(); got != before-335 {
		t.Fatalf("after hide = %d, want %d", got, before-335)
	}
	if err := s.Toggle("region", true); err != nil {
		t.Fatal(err)
	}
	if got := s.TableWidth(); got != before {
		t.Fatalf("after show = %d, want %d", got, before)
	}
	col, _ := s.Column("region")
	if col.Hidden || col.Width != 335 {
		t.Fatalf("column after show = %+v", col)
	}
}

func TestShowFallsBackToDefaultWidth(t *testing.T) {
	s := NewSession(Options{Headers: []Header{{ID: "a"}, {ID: "b", Width: 90}}})
	if s.TableWidth() != DefaultWidth+90 {
		t.Fatalf("seed width = %d", s.TableWidth())
	}
	if err := s.Toggle("a", false); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle("a", true); err != nil {
		t.Fatal(err)
	}
	if s.TableWidth() != DefaultWidth+90 {
		t.Fatalf("after round trip = %d", s.TableWidth())
	}
}

func TestToggleSameStateIsNoop(t *testing.T) {
	s := newTestSession(t)
	if err := s.Toggle("state", true); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle("state", false); err != nil {
		t.Fatal(err)
	}
	want := s.TableWidth()
	if err := s.Toggle("state", false); err != nil {
		t.Fatal(err)
	}
	if s.TableWidth() != want {
		t.Fatalf("double hide moved width to %d", s.TableWidth())
	}
	if err := s.Toggle("ghost", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetFilter(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetFilter("region", "EU"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{true, false, true, false}, s.RowVisibility()); diff != "" {
		t.Fatalf("visibility (-want +got):\n%s", diff)
	}
	if err := s.SetFilter("state", "Active"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{false, false, true, false}, s.RowVisibility()); diff != "" {
		t.Fatalf("visibility (-want +got):\n%s", diff)
	}
	if got := len(s.VisibleRows()); got != 1 {
		t.Fatalf("visible rows = %d", got)
	}
	if err := s.SetFilter("region", ""); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{false, true, true, false}, s.RowVisibility()); diff != "" {
		t.Fatalf("visibility (-want +got):\n%s", diff)
	}
}

func TestSetFilterErrors(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetFilter("id", "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetFilter("region", "LATAM"); !errors.Is(err, ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
	if s.Filter("region") != "" {
		t.Fatal("rejected value must not be stored")
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	s := newTestSession(t)
	_ = s.SetFilter("state", "Active")
	first := s.RowVisibility()
	s.ApplyFilters()
	s.ApplyFilters()
	if diff := cmp.Diff(first, s.RowVisibility()); diff != "" {
		t.Fatalf("recompute changed visibility (-first +again):\n%s", diff)
	}
}

func TestHidingColumnClearsItsFilter(t *testing.T) {
	s := newTestSession(t)
	_ = s.SetFilter("region", "APAC")
	if got := len(s.VisibleRows()); got != 1 {
		t.Fatalf("visible rows = %d, want 1", got)
	}
	if err := s.Toggle("region", false); err != nil {
		t.Fatal(err)
	}
	if got := len(s.VisibleRows()); got != 4 {
		t.Fatalf("hidden column still filters: %d rows shown", got)
	}
	if err := s.Toggle("region", true); err != nil {
		t.Fatal(err)
	}
	if s.Filter("region") != "" {
		t.Fatalf("filter after re-show = %q, want all", s.Filter("region"))
	}
	if got := len(s.VisibleRows()); got != 4 {
		t.Fatalf("visible rows after re-show = %d", got)
	}
}

func TestHiddenColumnIgnoredByRecompute(t *testing.T) {
	cols := NewRegistry([]Header{{ID: "a"}})
	rows := []Row{NewRow(Cell{"a", "x"}), NewRow(Cell{"a", "y"})}
	e := NewFilterEngine(cols, rows, BuildFilterIndex(rows, []string{"a"}))
	if err := e.Set("a", "x"); err != nil {
		t.Fatal(err)
	}
	cols.byID["a"].Hidden = true
	e.Apply()
	if diff := cmp.Diff([]bool{true, true}, e.Visible()); diff != "" {
		t.Fatalf("stale filter on hidden column (-want +got):\n%s", diff)
	}
}

func TestMenuDoesNotMutateState(t *testing.T) {
	s := newTestSession(t)
	_ = s.SetFilter("region", "EU")
	cols, filters, vis := s.Columns(), s.Filters(), s.RowVisibility()
	s.SetMenuOpen(true)
	s.SetMenuOpen(false)
	if diff := cmp.Diff(cols, s.Columns()); diff != "" {
		t.Fatalf("columns changed:\n%s", diff)
	}
	if diff := cmp.Diff(filters, s.Filters()); diff != "" {
		t.Fatalf("filters changed:\n%s", diff)
	}
	if diff := cmp.Diff(vis, s.RowVisibility()); diff != "" {
		t.Fatalf("rows changed:\n%s", diff)
	}
}

func TestHidingColumnEndsItsGesture(t *testing.T) {
	s := newTestSession(t)
	g, err := s.BeginResize("id", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle("id", false); err != nil {
		t.Fatal(err)
	}
	if s.ActiveGesture() != nil {
		t.Fatal("hiding the column should release its gesture")
	}
	if g.Move(190) {
		t.Fatal("move after hide must not apply")
	}
	if s.TableWidth() != 700 || s.Drift() != 0 {
		t.Fatalf("table width %d drift %d", s.TableWidth(), s.Drift())
	}
}

func TestGestureSkipsHiddenColumn(t *testing.T) {
	columns := NewRegistry([]Header{{ID: "a", Width: 100}, {ID: "b", Width: 200}})
	table := &TableWidth{}
	table.set(columns.visibleSum())
	r := NewResizer(columns, table)
	g, err := r.Begin("a", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer g.End()

	col, _ := columns.lookup("a")
	col.Hidden = true
	if g.Move(40) {
		t.Fatal("hidden column must not be resized")
	}
	if col.Width != 100 || table.Value() != 300 {
		t.Fatalf("width %d table %d", col.Width, table.Value())
	}
}
