package domain

import "fmt"

// DashboardView selects which dashboard sub-view is rendered. The set is
// closed so a missing case is a compile-time concern, not a silent default.
type DashboardView string

const (
	ViewHome      DashboardView = "home"
	ViewMap       DashboardView = "map"
	ViewFavorite  DashboardView = "favorite"
	ViewAddCourts DashboardView = "addcourts"
)

// ParseDashboardView maps a raw view name onto the closed view set.
func ParseDashboardView(s string) (DashboardView, error) {
	switch DashboardView(s) {
	case ViewHome, ViewMap, ViewFavorite, ViewAddCourts:
		return DashboardView(s), nil
	case "":
		return ViewHome, nil
	}
	return "", fmt.Errorf("unknown dashboard view %q", s)
}
