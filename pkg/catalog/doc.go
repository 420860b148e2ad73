// Package catalog holds the immutable reference tables that map numbers to
// items and moves.
//
// # Tables
//
// Four CSV tables make up a catalog:
//
//   - item_list.csv: one row per number (1-60). A row may name a pair
//     number and the move that activates when both numbers are present.
//   - hissatsuwaza_list.csv: one row per move ("hissatsu").
//   - meaning_of_color.csv: color systems and per-color meanings. Blank
//     system cells inherit the value of the row above.
//   - how_to_action.csv: static action descriptions.
//
// [Load] reads all four from a directory and fails fast with a
// SCHEMA_MISMATCH error if a required column is missing or a numeric cell
// does not parse. Optional cells that are blank decode to nil, never zero.
//
// # Images
//
// Image paths are resolved lazily through an [ImageProber]. The default
// [DirProber] probes {root}/item/{no}{ext} for items and
// {root}/Hissatsuwaza/{no}_h{ext} for moves, trying the extensions in
// [Extensions] order. A missing image resolves to the empty string.
//
// # Concurrency
//
// A [Catalog] is built once with [New] and never mutated afterwards, so it
// is safe for concurrent use without locking.
package catalog
