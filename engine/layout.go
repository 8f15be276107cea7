/*
layout.go - Visual row packing for overlapping projects

PURPOSE:
  Assigns each project in a group the smallest row index that keeps it
  non-overlapping with every project already on that row, so the group can
  be drawn without visual overlap in the minimum number of lanes.

ALGORITHM:
  Greedy first-fit over intervals sorted by start date (ID breaks ties, so
  the packing is stable under insertion order). A row is reusable when its
  current end date is strictly before the candidate's start. For interval
  graphs this greedy coloring is optimal: an overlap clique of N projects
  uses exactly N rows, N disjoint projects use 1.

  Continuous projects use their synthetic far-future end, so they hold
  their row for the whole horizon.
*/
package engine

import "sort"

// RowLayout is the packing result for one group.
type RowLayout struct {
	Rows     map[ProjectID]int
	RowCount int
}

// LayoutRows packs the projects of a group into visual rows. Recompute
// whenever group membership or any project's date range changes.
func LayoutRows(projects []Project) RowLayout {
	ordered := append([]Project(nil), projects...)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].ID < ordered[j].ID
	})

	layout := RowLayout{Rows: make(map[ProjectID]int, len(ordered))}
	var rowEnds []Date
	for _, p := range ordered {
		window := p.Window()
		assigned := -1
		for row, end := range rowEnds {
			if end.Before(window.Start) {
				assigned = row
				break
			}
		}
		if assigned == -1 {
			rowEnds = append(rowEnds, window.End)
			assigned = len(rowEnds) - 1
		} else {
			rowEnds[assigned] = window.End
		}
		layout.Rows[p.ID] = assigned
	}
	layout.RowCount = len(rowEnds)
	return layout
}
