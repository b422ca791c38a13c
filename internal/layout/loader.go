package layout

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// anchor marks the top-left half-cell of a tile in a layout file.
const anchor = '#'

var separatorRe = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)

type cell struct{ row, col int }

// LoadPresets loads layouts from a list of paths (files or directories).
// Each file holds one layout.
func LoadPresets(paths []string) ([]Preset, error) {
	var presets []Preset

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if !info.IsDir() {
			p, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			presets = append(presets, p)
			continue
		}

		files, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
		}
		for _, entry := range files {
			if entry.IsDir() {
				continue
			}
			p, err := loadFile(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			presets = append(presets, p)
		}
	}

	return presets, nil
}

func loadFile(path string) (Preset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var contentBuilder strings.Builder
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		contentBuilder.WriteString(scanner.Text() + "\n")
	}
	if err := scanner.Err(); err != nil {
		return Preset{}, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := ParsePreset(name, contentBuilder.String())
	if err != nil {
		return Preset{}, fmt.Errorf("layout file %s: %w", path, err)
	}
	return p, nil
}

// ParsePreset parses layout text. Sections separated by a line of three or
// more dashes are layers, bottom first. An optional "NAME: x" line at the top
// overrides name. The result is centered on the origin by its base layer.
func ParsePreset(name, content string) (Preset, error) {
	p := Preset{Title: name}

	layer := 0
	for i, part := range separatorRe.Split(content, -1) {
		if i == 0 {
			part = strings.TrimLeft(part, "\r\n")
			first, rest, _ := strings.Cut(part, "\n")
			if title, ok := strings.CutPrefix(strings.TrimSpace(first), "NAME:"); ok {
				p.Title = strings.TrimSpace(title)
				part = rest
			}
		}

		slots, err := parseLayer(layer, part)
		if err != nil {
			return Preset{}, err
		}
		// Blank sections do not count as layers.
		if len(slots) > 0 {
			p.Slots = append(p.Slots, slots...)
			layer++
		}
	}

	if len(p.Slots) == 0 {
		return Preset{}, ErrEmptyLayout
	}
	if p.Title == "" {
		return Preset{}, fmt.Errorf("layout has an empty NAME")
	}
	center(p.Slots)
	return p, nil
}

func parseLayer(z int, part string) ([]Slot, error) {
	lines := strings.Split(strings.Trim(part, "\r\n"), "\n")
	occupied := mapset.New[cell]()

	var slots []Slot
	for row, line := range lines {
		for col, r := range []rune(strings.TrimRight(line, "\r")) {
			if r != anchor {
				continue
			}
			covers := []cell{{row, col}, {row, col + 1}, {row + 1, col}, {row + 1, col + 1}}
			for _, c := range covers {
				if occupied.Has(c) {
					return nil, fmt.Errorf("layer %d: tile at row %d col %d overlaps another tile", z, row, col)
				}
			}
			for _, c := range covers {
				occupied.Put(c)
			}
			slots = append(slots, Slot{
				X:      float64(col) * TileWidth / 2,
				Y:      float64(row) * TileHeight / 2,
				Layer:  z,
				Width:  TileWidth,
				Height: TileHeight,
			})
		}
	}
	return slots, nil
}

// center shifts slots so the bounding box of the base layer is centered on
// the origin.
func center(slots []Slot) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range slots {
		if s.Layer != 0 {
			continue
		}
		minX, minY = math.Min(minX, s.X), math.Min(minY, s.Y)
		maxX, maxY = math.Max(maxX, s.Right()), math.Max(maxY, s.Bottom())
	}

	dx := OriginX - (minX+maxX)/2
	dy := OriginY - (minY+maxY)/2
	for i := range slots {
		slots[i].X += dx
		slots[i].Y += dy
	}
}
