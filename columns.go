package headtable

import (
	"fmt"
	"slices"
)

// ColumnsFor returns the columns of table as perceived by requester.
// Pass an empty requester to get the columns as perceived by the user.
//
// Plugins providing the features columnOrder, columnVisibility
// and columnWidth each reshape the column list.
// The first of those plugins in that order provides the columns
// for the user and for plugins without any of those roles.
// Plugins having a role see the columns one step earlier in the chain:
// a columnOrder plugin sees the columns of the columnVisibility plugin,
// columnVisibility and columnWidth plugins see the raw columns.
//
// ColumnsFor panics if requester is not a plugin of table.
func ColumnsFor(table *Table, requester string) []*Column {
	var (
		visibility, hasVisibility = table.PluginWithFeature(FeatureColumnVisibility)
		reordering, hasReordering = table.PluginWithFeature(FeatureColumnOrder)
		sizing, hasSizing         = table.PluginWithFeature(FeatureColumnWidth)
	)
	if requester != "" {
		if !table.HasPlugin(requester) {
			panic(fmt.Errorf("%w: [%s] requested columns from the table, but the plugin, %s, is not used in this table", ErrPluginNotRegistered, requester, requester))
		}
		switch {
		case hasSizing && sizing.Name() == requester:
			return table.Columns()
		case hasVisibility && visibility.Name() == requester:
			return table.Columns()
		case hasReordering && reordering.Name() == requester:
			if hasVisibility {
				return providedColumns(visibility)
			}
			return table.Columns()
		}
	}
	switch {
	case hasReordering:
		return providedColumns(reordering)
	case hasVisibility:
		return providedColumns(visibility)
	case hasSizing:
		return providedColumns(sizing)
	}
	return table.Columns()
}

func providedColumns(p Plugin) []*Column {
	provider, ok := p.(ColumnsProvider)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNoColumns, p.Name()))
	}
	return provider.Columns()
}

func mustColumnIndex(columns []*Column, column *Column) int {
	index := slices.Index(columns, column)
	if index < 0 {
		panic(fmt.Errorf("%w: %s", ErrColumnNotInTable, column))
	}
	return index
}

// NextColumn returns the column following column
// in the columns perceived by requester
// or nil if column is the last one.
// It panics if column is not one of the perceived columns.
func NextColumn(column *Column, requester string) *Column {
	columns := ColumnsFor(column.table, requester)
	index := mustColumnIndex(columns, column)
	if index+1 >= len(columns) {
		return nil
	}
	return columns[index+1]
}

// PreviousColumn returns the column preceding column
// in the columns perceived by requester
// or nil if column is the first one.
// It panics if column is not one of the perceived columns.
func PreviousColumn(column *Column, requester string) *Column {
	columns := ColumnsFor(column.table, requester)
	index := mustColumnIndex(columns, column)
	if index == 0 {
		return nil
	}
	return columns[index-1]
}

// ColumnsBefore returns the columns preceding column
// in the columns perceived by requester.
// It panics if column is not one of the perceived columns.
func ColumnsBefore(column *Column, requester string) []*Column {
	columns := ColumnsFor(column.table, requester)
	index := mustColumnIndex(columns, column)
	return slices.Clone(columns[:index])
}

// ColumnsAfter returns the columns following column
// in the columns perceived by requester.
// It panics if column is not one of the perceived columns.
func ColumnsAfter(column *Column, requester string) []*Column {
	columns := ColumnsFor(column.table, requester)
	index := mustColumnIndex(columns, column)
	return slices.Clone(columns[index+1:])
}
