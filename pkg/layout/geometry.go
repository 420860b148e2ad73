package layout

// SingleGeometry holds the pixel constants of the single-person image.
type SingleGeometry struct {
	ItemWidth    int `json:"item_width" toml:"item_width"`
	MoveWidth    int `json:"move_width" toml:"move_width"`
	TileHeight   int `json:"tile_height" toml:"tile_height"`
	ColorGap     int `json:"color_gap" toml:"color_gap"`
	RowGap       int `json:"row_gap" toml:"row_gap"`
	InfoHeight   int `json:"info_height" toml:"info_height"`
	HeaderHeight int `json:"header_height" toml:"header_height"`
	SidePadding  int `json:"side_padding" toml:"side_padding"`
	MinWidth     int `json:"min_width" toml:"min_width"`
}

// DefaultSingle returns the standard single-person geometry. Moves are
// exactly twice as wide as items.
func DefaultSingle() SingleGeometry {
	return SingleGeometry{
		ItemWidth:    188,
		MoveWidth:    376,
		TileHeight:   250,
		ColorGap:     30,
		RowGap:       40,
		InfoHeight:   0,
		HeaderHeight: 100,
		SidePadding:  20,
		MinWidth:     800,
	}
}

// CompatGeometry holds the pixel constants of the compatibility image.
type CompatGeometry struct {
	TileWidth    int `json:"tile_width" toml:"tile_width"`
	TileHeight   int `json:"tile_height" toml:"tile_height"`
	MaxPerLine   int `json:"max_per_line" toml:"max_per_line"`
	RowGap       int `json:"row_gap" toml:"row_gap"`
	LineGap      int `json:"line_gap" toml:"line_gap"`
	HeaderHeight int `json:"header_height" toml:"header_height"`
	SidePadding  int `json:"side_padding" toml:"side_padding"`
	LabelHeight  int `json:"label_height" toml:"label_height"`
	MinWidth     int `json:"min_width" toml:"min_width"`
}

// DefaultCompat returns the standard compatibility geometry.
func DefaultCompat() CompatGeometry {
	return CompatGeometry{
		TileWidth:    376,
		TileHeight:   250,
		MaxPerLine:   4,
		RowGap:       40,
		LineGap:      20,
		HeaderHeight: 150,
		SidePadding:  20,
		LabelHeight:  30,
		MinWidth:     800,
	}
}
