// Package floor describes the dining room layout used to label dine-in tables.
package floor

import "strconv"

// Table is a numbered table with its display name.
type Table struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Group is a named area of the dining room.
type Group struct {
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

// Layout returns the table groups in display order.
func Layout() []Group {
	groups := []Group{
		{Name: "Main Hall"},
		{Name: "Side Hall"},
		{Name: "Round Table", Tables: []Table{{ID: 16, Name: "Round Table"}}},
		{Name: "Garden"},
	}
	for i := 1; i <= 8; i++ {
		groups[0].Tables = append(groups[0].Tables, Table{ID: i, Name: "MH" + strconv.Itoa(i)})
	}
	for i := 9; i <= 15; i++ {
		groups[1].Tables = append(groups[1].Tables, Table{ID: i, Name: "SH" + strconv.Itoa(i)})
	}
	for i := 1; i <= 9; i++ {
		groups[3].Tables = append(groups[3].Tables, Table{ID: i + 16, Name: "Garden" + strconv.Itoa(i)})
	}
	return groups
}

var labels = func() map[int]string {
	m := make(map[int]string)
	for _, g := range Layout() {
		for _, t := range g.Tables {
			m[t.ID] = t.Name
		}
	}
	return m
}()

// Label returns the display name of a table, or "Table N" for tables
// outside the layout.
func Label(table int) string {
	if name, ok := labels[table]; ok {
		return name
	}
	return "Table " + strconv.Itoa(table)
}
