package doc

type docSnapshot struct {
	blocks []Block
	sel    Range
}

type historyState struct {
	undo []docSnapshot
	redo []docSnapshot
}

func (d *Document) snapshot() docSnapshot {
	return docSnapshot{
		blocks: cloneBlocks(d.blocks),
		sel:    d.sel,
	}
}

func (d *Document) restore(s docSnapshot) {
	d.blocks = cloneBlocks(s.blocks)
	d.sel = NormalizeRange(ClampRange(s.sel, len(d.blocks), d.blockLen))
	d.storedMarks = nil
}

func (d *Document) recordUndo(prev docSnapshot) {
	limit := d.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	d.hist.undo = append(d.hist.undo, prev)
	if len(d.hist.undo) > limit {
		d.hist.undo = d.hist.undo[len(d.hist.undo)-limit:]
	}
	d.hist.redo = nil
}

func (d *Document) CanUndo() bool { return len(d.hist.undo) > 0 }

func (d *Document) CanRedo() bool { return len(d.hist.redo) > 0 }

func (d *Document) Undo() bool {
	if len(d.hist.undo) == 0 {
		return false
	}

	cur := d.snapshot()
	i := len(d.hist.undo) - 1
	prev := d.hist.undo[i]
	d.hist.undo = d.hist.undo[:i]
	d.hist.redo = append(d.hist.redo, cur)

	d.restoreAndCommit("undo", cur, prev)
	return true
}

func (d *Document) Redo() bool {
	if len(d.hist.redo) == 0 {
		return false
	}

	cur := d.snapshot()
	i := len(d.hist.redo) - 1
	next := d.hist.redo[i]
	d.hist.redo = d.hist.redo[:i]

	limit := d.opt.HistoryLimit
	if limit > 0 {
		d.hist.undo = append(d.hist.undo, cur)
		if len(d.hist.undo) > limit {
			d.hist.undo = d.hist.undo[len(d.hist.undo)-limit:]
		}
	}

	d.restoreAndCommit("redo", cur, next)
	return true
}

func (d *Document) restoreAndCommit(label string, cur, target docSnapshot) {
	change := Change{
		Label:           label,
		VersionBefore:   d.version,
		SelectionBefore: cur.sel,
		DocChanged:      !blocksEqual(cur.blocks, target.blocks),
	}
	d.restore(target)
	d.version++
	if change.DocChanged {
		d.txCount++
	}
	change.VersionAfter = d.version
	change.SelectionAfter = d.sel
	d.commitChange(change)
}
