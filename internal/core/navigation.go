package core

// NavigationState is the per-session drill-down position. It is a plain
// value: handlers receive the current state and store the returned one, so
// the machine can be exercised without an HTTP harness.
//
// Deeper levels always carry every ancestor key they need to re-filter the
// full record set; clearing happens only on Back.
type NavigationState struct {
	Level          Level
	SelectedMonth  string
	SelectedBranch string
	Quarter        string
	Product        string
}

// NewNavigation returns the session-start state: monthly view, no scope
// keys, filters wide open.
func NewNavigation() NavigationState {
	return NavigationState{
		Level:   LevelMonthly,
		Quarter: FilterAll,
		Product: FilterAll,
	}
}

// SelectMonth drills from the monthly view into one month's branches.
// Requested from any other level, or with an empty month, the transition
// is refused with ErrScopeMissing and the state is returned unchanged.
func (n NavigationState) SelectMonth(month string) (NavigationState, error) {
	if n.Level != LevelMonthly || month == "" {
		return n, ErrScopeMissing
	}
	n.Level = LevelBranch
	n.SelectedMonth = month
	return n, nil
}

// SelectBranch drills from the branch view into one branch's relationship
// managers. Requires the month scope already set.
func (n NavigationState) SelectBranch(branch string) (NavigationState, error) {
	if n.Level != LevelBranch || n.SelectedMonth == "" || branch == "" {
		return n, ErrScopeMissing
	}
	n.Level = LevelRM
	n.SelectedBranch = branch
	return n, nil
}

// Back moves one level up, clearing the scope key that defined the level
// being left. At the monthly view it is a no-op.
func (n NavigationState) Back() NavigationState {
	switch n.Level {
	case LevelRM:
		n.Level = LevelBranch
		n.SelectedBranch = ""
	case LevelBranch:
		n.Level = LevelMonthly
		n.SelectedMonth = ""
	}
	return n
}

// WithFilters replaces the quarter/product selections. Filter changes
// never change the level; cached aggregates keyed on the old combination
// simply miss afterwards.
func (n NavigationState) WithFilters(quarter, product string) NavigationState {
	if quarter == "" {
		quarter = FilterAll
	}
	if product == "" {
		product = FilterAll
	}
	n.Quarter = quarter
	n.Product = product
	return n
}

// Filters returns the equality filters for the aggregator.
func (n NavigationState) Filters() Filters {
	return Filters{Quarter: n.Quarter, Product: n.Product}
}

// Scope returns the ancestor keys the current level needs.
func (n NavigationState) Scope() Scope {
	return Scope{Month: n.SelectedMonth, Branch: n.SelectedBranch}
}

// Valid reports whether the state honors the hierarchy invariant: every
// level deeper than monthly carries all of its ancestor keys.
func (n NavigationState) Valid() bool {
	switch n.Level {
	case LevelMonthly:
		return true
	case LevelBranch:
		return n.SelectedMonth != ""
	case LevelRM:
		return n.SelectedMonth != "" && n.SelectedBranch != ""
	}
	return false
}
