// Package series provides the (time, flow) sample table shared by every
// transformation in this module.
//
// A [Series] holds two equally long columns. Time is non-decreasing: index 0
// is the earliest sample and index n-1 the latest. Spacing is treated as
// locally uniform wherever a step size is needed.
//
// Transformations never mutate their input. Helpers such as [Series.Copy],
// [Series.Slice] and [Split] return new tables; [Series.WithFlow] is the one
// shallow-copy helper, sharing the time column and replacing flow.
//
// # Partitions
//
// [Split] cuts a series into contiguous partitions that cover it exactly
// once:
//
//	parts, err := series.Split(s, 4)
//
// Every partition has n/p samples; the last one additionally absorbs the
// remainder n%p.
//
// # CSV
//
// Tabular input is addressed by column name:
//
//	s, err := series.LoadCSV("flow.csv", series.DefaultCSVOptions())
package series
