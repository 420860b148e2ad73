// Package layout computes deterministic tile placement for result images.
//
// Layouts are pure data: every tile is a [Block] in canvas pixel
// coordinates with the origin at the top-left corner and y growing
// downwards. The compositor in package render only draws what a layout
// says; it makes no placement decisions of its own.
//
// # Single-person layout
//
// [Engine.Single] sorts moves by number and items by color system, then by
// color, then moves-first, then number ([Engine.SortItems]). Each non-empty
// color system becomes one row. Within a row, each color contributes its
// moves (double width) followed by its items, and a fixed gap separates
// consecutive colors.
//
// # Compatibility layout
//
// [Engine.Compat] takes the four category rows (joint, person 1 synergy,
// person 2 synergy, both have). Each non-empty row gets a label line and
// its moves are wrapped into lines of at most [CompatGeometry.MaxPerLine]
// tiles following the global color priority ([Engine.WrapRow]). Empty rows
// take no space.
//
// # Canvas size
//
// Width is the widest row or line including side padding, floored at the
// geometry's MinWidth. Height is the header plus the sum of all non-empty
// rows and their gaps.
package layout
