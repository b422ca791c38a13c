package layout

import (
	"fmt"
	"strings"
)

// turtleSource is the classic 144-tile turtle in layout-file form. Each
// character is half a tile; '#' marks a tile's top-left corner. Layers are
// listed bottom first: 87 base tiles (with the three wing tiles), then 36, 16,
// 4 and the single cap tile resting on the middle of the 2x2.
const turtleSource = `
NAME: Turtle
..#.#.#.#.#.#.#.#.#.#.#.#.....
..............................
......#.#.#.#.#.#.#.#.........
..............................
....#.#.#.#.#.#.#.#.#.#.......
..............................
..#.#.#.#.#.#.#.#.#.#.#.#.....
#.........................#.#.
..#.#.#.#.#.#.#.#.#.#.#.#.....
..............................
....#.#.#.#.#.#.#.#.#.#.......
..............................
......#.#.#.#.#.#.#.#.........
..............................
..#.#.#.#.#.#.#.#.#.#.#.#.....
..............................
---
..............................
..............................
........#.#.#.#.#.#...........
..............................
........#.#.#.#.#.#...........
..............................
........#.#.#.#.#.#...........
..............................
........#.#.#.#.#.#...........
..............................
........#.#.#.#.#.#...........
..............................
........#.#.#.#.#.#...........
..............................
..............................
..............................
---
..............................
..............................
..............................
..............................
..........#.#.#.#.............
..............................
..........#.#.#.#.............
..............................
..........#.#.#.#.............
..............................
..........#.#.#.#.............
..............................
..............................
..............................
..............................
..............................
---
..............................
..............................
..............................
..............................
..............................
..............................
............#.#...............
..............................
............#.#...............
..............................
..............................
..............................
..............................
..............................
..............................
..............................
---
..............................
..............................
..............................
..............................
..............................
..............................
..............................
.............#................
..............................
..............................
..............................
..............................
..............................
..............................
..............................
..............................
`

var turtle = mustParse("turtle", turtleSource)

// Turtle returns the standard preset.
func Turtle() Preset {
	return Preset{Title: turtle.Title, Slots: turtle.slots(0)}
}

func mustParse(name, src string) Preset {
	p, err := ParsePreset(name, src)
	if err != nil {
		// Built-in layouts are code; a bad one is a bug.
		panic("built-in layout " + name + " failed to parse: " + err.Error())
	}
	return p
}

// Lookup resolves a layout name: "formula", "turtle", or the title of one of
// the extra presets (case-insensitive).
func Lookup(name string, extra []Preset) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "formula":
		return Formula{}, nil
	case "turtle", "standard":
		return Turtle(), nil
	}
	for _, p := range extra {
		if strings.EqualFold(p.Title, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown layout %q", name)
}
