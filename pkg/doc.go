// Package pkg holds the libraries behind mydungeon.
//
// # Overview
//
// mydungeon turns a birth date and time into a "My Dungeon" result image:
// the numbers the divination site returns are resolved against the item
// and hissatsu tables, grouped by color system, and drawn as tiles. Two
// people can be compared, in which case the hissatsu moves are sorted by
// who can trigger them.
//
// The packages by stage:
//
//	[fetch]     number sequence for a birth date and time (rod, HTTP, cache)
//	   ↓
//	[catalog]   item, hissatsu, color and action tables
//	   ↓
//	[classify]  activated moves and compatibility categories
//	   ↓
//	[layout]    block placement for single and compatibility images
//	   ↓
//	[render]    PNG drawing with CJK fonts from [fonts]
//	   ↓
//	[storage]   result images on disk or in MongoDB GridFS
//
// [pipeline] runs the stages for one request and [server] exposes the
// pipeline over HTTP. Supporting packages are [palette], [errors],
// [cache], [httputil], [observability] and [buildinfo].
//
// # Quick Start
//
//	cat, _ := catalog.Open("database/csv", "database/images")
//	r, _ := render.New()
//	store, _ := storage.NewFileStore("output")
//	runner := pipeline.NewRunner(cat, fetch.NewRodFetcher(fetch.DefaultRodConfig(), nil), r, store, nil)
//	resp, err := runner.Diagnose(ctx, pipeline.DiagnoseRequest{
//	    Birthdate: "1991-09-16",
//	    Birthtime: "13:50",
//	})
package pkg
