package board

import "fmt"

// Face is the symbol two tiles must share to match.
type Face int

// Suit groups the palette into three runs of nine.
type Suit int

const (
	Characters Suit = iota
	Bamboo
	Circles
)

// FaceCount is the size of the palette.
const FaceCount = 27

// Palette lists every face in deal order: characters 1-9, bamboo 1-9,
// circles 1-9.
var Palette = func() [FaceCount]Face {
	var p [FaceCount]Face
	for i := range p {
		p[i] = Face(i)
	}
	return p
}()

// U+1F007..U+1F00F characters, U+1F010..U+1F018 bamboo, U+1F019..U+1F021 circles.
const glyphBase = rune(0x1F007)

var (
	suitNames  = [...]string{"char", "bamboo", "circle"}
	suitLetter = [...]string{"m", "s", "p"}
)

func (f Face) Suit() Suit { return Suit(int(f) / 9) }
func (f Face) Rank() int  { return int(f)%9 + 1 }

func (f Face) Valid() bool { return f >= 0 && f < FaceCount }

// String returns the stable face id, e.g. "bamboo-3".
func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return fmt.Sprintf("%s-%d", suitNames[f.Suit()], f.Rank())
}

// Short returns a two-character label in mahjong notation, e.g. "3s".
func (f Face) Short() string {
	if !f.Valid() {
		return "??"
	}
	return fmt.Sprintf("%d%s", f.Rank(), suitLetter[f.Suit()])
}

// Glyph returns the Unicode mahjong tile for the face.
func (f Face) Glyph() rune {
	if !f.Valid() {
		return '?'
	}
	return glyphBase + rune(f)
}
