package render

const (
	DefaultColumns = 3

	EmptyTitle    = "No Events Available"
	EmptySubtitle = "SCANNING FOR NEW DROPS..."

	NoTicketsTitle = "You haven't minted any tickets yet."
)

var columnClasses = map[int]string{
	1: "grid-cols-1",
	2: "grid-cols-1 md:grid-cols-2",
	3: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3",
	4: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3 xl:grid-cols-4",
}

// EmptyState is shown instead of cards when the grid has none
type EmptyState struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// GridView lays out a set of cards
type GridView struct {
	Columns int         `json:"columns"`
	Layout  string      `json:"layout"`
	Cards   []CardView  `json:"cards"`
	Empty   *EmptyState `json:"empty,omitempty"`
}

// ColumnLayout returns the responsive class for 1-4 columns. Any other
// count falls back to DefaultColumns.
func ColumnLayout(columns int) (int, string) {
	if class, ok := columnClasses[columns]; ok {
		return columns, class
	}
	return DefaultColumns, columnClasses[DefaultColumns]
}

// Grid builds the grid view, with the empty state when there are no cards
func Grid(cards []CardView, columns int) GridView {
	n, layout := ColumnLayout(columns)

	view := GridView{
		Columns: n,
		Layout:  layout,
		Cards:   cards,
	}
	if view.Cards == nil {
		view.Cards = []CardView{}
	}
	if len(view.Cards) == 0 {
		view.Empty = &EmptyState{Title: EmptyTitle, Subtitle: EmptySubtitle}
	}
	return view
}

// TicketGrid builds the minted-tickets grid, which has its own empty state
func TicketGrid(cards []CardView, columns int) GridView {
	view := Grid(cards, columns)
	if view.Empty != nil {
		view.Empty = &EmptyState{Title: NoTicketsTitle}
	}
	return view
}
