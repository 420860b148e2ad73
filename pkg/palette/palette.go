// Package palette defines the closed set of tile colors and their
// partition into color systems.
//
// Every record in the item and move tables carries one of seven colors.
// The colors are partitioned into four disjoint groups ("systems"), which
// drive both the vertical row order of the single-person image and the
// left-to-right order inside each row:
//
//	赤系 (red)    : 赤, 桃
//	緑系 (green)  : 緑, 黄緑
//	青系 (blue)   : 青, 水
//	黄系 (yellow) : 黄
//
// Colors are stored as the exact strings found in the source tables so that
// records can be compared without translation.
package palette

import "slices"

// Color is a tile color as written in the source tables.
type Color string

// The seven known colors, in global priority order.
const (
	Red         Color = "赤"
	Pink        Color = "桃"
	Green       Color = "緑"
	YellowGreen Color = "黄緑"
	Blue        Color = "青"
	Aqua        Color = "水"
	Yellow      Color = "黄"
)

// Group is a color system name as written in the color meaning table.
type Group string

// The four color systems, in row priority order.
const (
	GroupRed    Group = "赤系"
	GroupGreen  Group = "緑系"
	GroupBlue   Group = "青系"
	GroupYellow Group = "黄系"
)

var groups = []Group{GroupRed, GroupGreen, GroupBlue, GroupYellow}

var members = map[Group][]Color{
	GroupRed:    {Red, Pink},
	GroupGreen:  {Green, YellowGreen},
	GroupBlue:   {Blue, Aqua},
	GroupYellow: {Yellow},
}

var priority = []Color{Red, Pink, Green, YellowGreen, Blue, Aqua, Yellow}

// Groups returns the color systems in row priority order.
func Groups() []Group { return slices.Clone(groups) }

// Colors returns the member colors of g in left-to-right order.
// Unknown groups have no members.
func Colors(g Group) []Color { return slices.Clone(members[g]) }

// Priority returns all seven colors in global priority order, which is the
// concatenation of every group's members in group order.
func Priority() []Color { return slices.Clone(priority) }

// Default is the color substituted for unknown colors.
func Default() Color { return priority[0] }

// DefaultGroup is the group substituted for unknown colors.
func DefaultGroup() Group { return groups[0] }

// Known reports whether c is one of the seven table colors.
func (c Color) Known() bool {
	_, ok := GroupOf(c)
	return ok
}

// GroupOf returns the group that contains c. The second result is false
// when c is not a known color, in which case the first group is returned.
func GroupOf(c Color) (Group, bool) {
	for _, g := range groups {
		if slices.Contains(members[g], c) {
			return g, true
		}
	}
	return DefaultGroup(), false
}

// Normalize maps unknown colors to Default. The second result reports
// whether c was known.
func Normalize(c Color) (Color, bool) {
	if c.Known() {
		return c, true
	}
	return Default(), false
}

// IndexInGroup returns the left-to-right position of c within its group,
// or -1 if c is unknown.
func IndexInGroup(c Color) int {
	g, ok := GroupOf(c)
	if !ok {
		return -1
	}
	return slices.Index(members[g], c)
}

// Rank returns the position of c in the global priority order, or -1 if c
// is unknown.
func Rank(c Color) int { return slices.Index(priority, c) }

// GroupRank returns the position of g in the row priority order, or -1 if
// g is unknown.
func GroupRank(g Group) int { return slices.Index(groups, g) }
