package doc

// Pos points into the document by (block, offset) in grapheme clusters.
type Pos struct {
	Block  int
	Offset int
}

// Range is a half-open selection in document coordinates: [From, To).
type Range struct {
	From Pos
	To   Pos
}

// Caret returns the empty range at p.
func Caret(p Pos) Range {
	return Range{From: p, To: p}
}

func ComparePos(a, b Pos) int {
	if a.Block < b.Block {
		return -1
	}
	if a.Block > b.Block {
		return 1
	}
	if a.Offset < b.Offset {
		return -1
	}
	if a.Offset > b.Offset {
		return 1
	}
	return 0
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.From, r.To) <= 0 {
		return r
	}
	return Range{From: r.To, To: r.From}
}

func (r Range) IsEmpty() bool {
	return r.From == r.To
}

// Contains reports whether p lies within r, boundaries included.
func (r Range) Contains(p Pos) bool {
	r = NormalizeRange(r)
	return ComparePos(r.From, p) <= 0 && ComparePos(p, r.To) <= 0
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos clamps p into document bounds described by blockCount and blockLen.
func ClampPos(p Pos, blockCount int, blockLen func(block int) int) Pos {
	if blockCount <= 0 {
		return Pos{}
	}
	block := clampInt(p.Block, 0, blockCount-1)
	maxOff := 0
	if blockLen != nil {
		maxOff = blockLen(block)
	}
	return Pos{Block: block, Offset: clampInt(p.Offset, 0, maxOff)}
}

func ClampRange(r Range, blockCount int, blockLen func(block int) int) Range {
	return Range{
		From: ClampPos(r.From, blockCount, blockLen),
		To:   ClampPos(r.To, blockCount, blockLen),
	}
}
