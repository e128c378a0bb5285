package game

import "github.com/avolkmar/blockfall/constants"

// layouts are rows of block HP values, 0 = gap. Column count times
// BlockWidth should not exceed FieldWidth.
var layouts = [][][]int{
	// level 1: plain wall
	{
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	},
	// level 2: checker with a hard core
	{
		{1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0, 1},
		{0, 1, 0, 1, 0, 1, 0, 2, 2, 0, 1, 0, 1, 0, 1, 0},
		{1, 0, 1, 0, 1, 0, 2, 3, 3, 2, 0, 1, 0, 1, 0, 1},
		{0, 1, 0, 1, 0, 1, 0, 2, 2, 0, 1, 0, 1, 0, 1, 0},
		{1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0, 1},
	},
	// level 3: fortress
	{
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		{2, 0, 2, 0, 2, 0, 2, 0, 0, 2, 0, 2, 0, 2, 0, 2},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{2, 0, 2, 0, 2, 0, 2, 0, 0, 2, 0, 2, 0, 2, 0, 2},
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
	},
}

const (
	blockTopMargin = 30.0
)

// BuildLevel constructs the block field for a level. Levels past the
// defined layouts cycle with HP scaled up.
func BuildLevel(level int) []*Block {
	if level < 1 {
		level = 1
	}
	layout := layouts[(level-1)%len(layouts)]
	hpBonus := (level - 1) / len(layouts)

	var blocks []*Block
	for row, cols := range layout {
		for col, hp := range cols {
			if hp == 0 {
				continue
			}
			blocks = append(blocks, &Block{
				X:      float64(col) * constants.BlockWidth,
				Y:      blockTopMargin + float64(row)*constants.BlockHeight,
				Width:  constants.BlockWidth,
				Height: constants.BlockHeight,
				HP:     hp + hpBonus,
				MaxHP:  hp + hpBonus,
				Active: true,
			})
		}
	}
	return blocks
}
