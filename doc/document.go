package doc

type Options struct {
	HistoryLimit int // default: 1000
}

// Document is the document state: blocks, selection and history.
type Document struct {
	schema *Schema
	blocks []Block

	sel         Range
	storedMarks *Marks

	version uint64
	txCount int

	opt  Options
	hist historyState

	subs          []subscriber
	nextSub       int
	lastChange    Change
	hasLastChange bool

	notifying bool
	pending   []Event
}

// New returns a document over blocks. An empty block list yields a single
// empty paragraph. Blocks without an ID get a fresh one.
func New(schema *Schema, blocks []Block, opt Options) *Document {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	if schema == nil {
		schema = NewSchema()
	}
	d := &Document{
		schema: schema,
		blocks: normalizeBlocks(cloneBlocks(blocks)),
		opt:    opt,
	}
	return d
}

func normalizeBlocks(blocks []Block) []Block {
	if len(blocks) == 0 {
		return []Block{{ID: NewID(), Type: Paragraph}}
	}
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = NewID()
		}
		if blocks[i].Type == Image {
			blocks[i].Runs = nil
			if blocks[i].Media == nil {
				blocks[i].Media = &MediaAttrs{}
			}
			continue
		}
		blocks[i].Media = nil
		blocks[i].Runs = normalizeRuns(blocks[i].Runs)
		if blocks[i].Type == Heading {
			blocks[i].Level = clampInt(blocks[i].Level, 1, MaxHeadingLevel)
		} else {
			blocks[i].Level = 0
		}
		if !blocks[i].Alignable() {
			blocks[i].Align = ""
		}
	}
	return blocks
}

func (d *Document) Schema() *Schema { return d.schema }

func (d *Document) Version() uint64 { return d.version }

// TxCount returns the number of committed transactions that changed content.
func (d *Document) TxCount() int { return d.txCount }

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.blocks) }

// Blocks returns a deep copy of the blocks.
func (d *Document) Blocks() []Block { return cloneBlocks(d.blocks) }

// Block returns a copy of block i.
func (d *Document) Block(i int) (Block, bool) {
	if i < 0 || i >= len(d.blocks) {
		return Block{}, false
	}
	return d.blocks[i].clone(), true
}

// BlockByID returns the index and a copy of the block with id.
func (d *Document) BlockByID(id string) (int, Block, bool) {
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			return i, d.blocks[i].clone(), true
		}
	}
	return -1, Block{}, false
}

// Selection returns the normalized selection. An empty range is a caret.
func (d *Document) Selection() Range { return d.sel }

// Cursor returns the head of the selection.
func (d *Document) Cursor() Pos { return d.sel.To }

// SetSelection moves the selection as its own transaction.
func (d *Document) SetSelection(r Range) bool {
	return d.Transact("select", func(tx *Tx) { tx.SetSelection(r) })
}

// SelectNode selects the image block at index i.
func (d *Document) SelectNode(i int) bool {
	b, ok := d.Block(i)
	if !ok || b.Type != Image {
		return false
	}
	return d.SetSelection(Range{From: Pos{Block: i}, To: Pos{Block: i, Offset: 1}})
}

// SelectedNode returns the ID of the image block covered exactly by the
// selection.
func (d *Document) SelectedNode() (string, bool) {
	r := d.sel
	if r.From.Block != r.To.Block || r.From.Offset != 0 || r.To.Offset != 1 {
		return "", false
	}
	b := d.blocks[r.From.Block]
	if b.Type != Image {
		return "", false
	}
	return b.ID, true
}

// Transact runs fn against a working copy of the document and commits the
// result atomically. It reports whether anything changed.
func (d *Document) Transact(label string, fn func(tx *Tx)) bool {
	tx := &Tx{
		schema:      d.schema,
		blocks:      cloneBlocks(d.blocks),
		sel:         d.sel,
		storedMarks: d.storedMarks,
	}
	fn(tx)

	tx.sel = NormalizeRange(ClampRange(tx.sel, len(tx.blocks), tx.blockLen))
	docChanged := tx.dirty && !blocksEqual(d.blocks, tx.blocks)
	selChanged := tx.sel != d.sel
	if !docChanged && !selChanged {
		if tx.storedSet {
			d.storedMarks = tx.storedMarks
		}
		return false
	}

	prev := d.snapshot()
	change := Change{
		Label:           label,
		VersionBefore:   d.version,
		SelectionBefore: d.sel,
		DocChanged:      docChanged,
	}

	if docChanged {
		d.blocks = tx.blocks
		d.recordUndo(prev)
		d.txCount++
	}
	d.sel = tx.sel
	switch {
	case tx.storedSet:
		d.storedMarks = tx.storedMarks
	case selChanged || docChanged:
		d.storedMarks = nil
	}
	d.version++

	change.VersionAfter = d.version
	change.SelectionAfter = d.sel
	d.commitChange(change)
	return true
}

// StoredMarks returns the marks pending for the next insertion at the caret.
func (d *Document) StoredMarks() (Marks, bool) {
	if d.storedMarks == nil {
		return Marks{}, false
	}
	return d.storedMarks.Clone(), true
}

func (d *Document) blockLen(i int) int {
	if i < 0 || i >= len(d.blocks) {
		return 0
	}
	return d.blocks[i].Len()
}
