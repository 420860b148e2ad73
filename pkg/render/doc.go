// Package render draws result images from precomputed layouts.
//
// # Overview
//
// A [Renderer] takes a [layout.SingleLayout] or [layout.CompatLayout] and
// paints it onto an RGB canvas with [github.com/fogleman/gg]:
//
//   - a centered header (title, names, birth data)
//   - one tile per layout block, scaled with Lanczos resampling
//   - a placeholder where a tile image is missing or unreadable
//   - in compatibility images, a label above each category row
//
// The renderer never decides placement; every coordinate comes from the
// layout. Rendering is deterministic given the layout, header and the
// bytes returned by the [ImageLoader].
//
// # Fonts
//
// Faces are built per render from a shared [fonts.Font], so one Renderer
// can serve concurrent requests.
//
//	r, err := render.New(render.WithLogger(logger))
//	img, err := r.RenderSingle(l, render.Header{Birthdate: "1991-09-16", Birthtime: "13:50"})
//	data, err := render.EncodePNG(img)
package render
