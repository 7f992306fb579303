package netsrv

import (
	"sync"

	setv0 "gopkg.in/fatih/set.v0"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

// orphanBuffer is the ordered sequence of blocks whose parents are
// unknown (spec §3 "Orphan buffer"), shared by every worker in the pool
// and guarded by its own mutex, taken only within handleNewBlock (spec
// §5).
type orphanBuffer struct {
	mu     sync.Mutex
	blocks []*chaintypes.Block
}

func newOrphanBuffer() *orphanBuffer {
	return &orphanBuffer{}
}

func (o *orphanBuffer) append(b *chaintypes.Block) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blocks = append(o.blocks, b)
}

func (o *orphanBuffer) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.blocks)
}

// resolve repeatedly scans the buffer for a block whose parent equals
// the current cursor hash, in the exact loop shape spec §4.6 describes:
// a full pass that finds no child terminates the loop, and every block
// seen along the way — whether or not its execution+insert turns out to
// be valid — has its index marked and removed once the loop ends.
// process is called once per discovered child and returns whether the
// child was accepted (inserted); either way the cursor advances to the
// child's hash, which is exactly the spec-documented bug where an
// invalid child can still seed further orphan lookups (spec §9 "Invalid
// block children").
func (o *orphanBuffer) resolve(cursor common.Hash, process func(child *chaintypes.Block) bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	marked := setv0.New()
	for {
		idx, child, found := o.findChild(cursor, marked)
		if !found {
			break
		}
		process(child)
		marked.Add(idx)
		cursor = child.Hash()
	}

	o.removeMarked(marked)
}

func (o *orphanBuffer) findChild(parent common.Hash, marked *setv0.Set) (int, *chaintypes.Block, bool) {
	for i, b := range o.blocks {
		if marked.Has(i) {
			continue
		}
		if b.Header.Parent == parent {
			return i, b, true
		}
	}
	return -1, nil, false
}

func (o *orphanBuffer) removeMarked(marked *setv0.Set) {
	if marked.Size() == 0 {
		return
	}
	kept := o.blocks[:0]
	for i, b := range o.blocks {
		if !marked.Has(i) {
			kept = append(kept, b)
		}
	}
	o.blocks = kept
}
