// Package texsync moves exported face bitmaps into GPU texture slots.
//
// Each slot runs Clean -> ExportPending -> DecodePending -> ReadyToUpload -> Clean.
// Decodes run in the background; uploads happen in Service, on the render
// goroutine, and only as a complete batch.
package texsync

import (
	"bytes"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/engine/texture"
	"github.com/Faultbox/facepaint/internal/face"
)

// SlotState is the sync state of one texture slot.
type SlotState int

const (
	Clean SlotState = iota
	ExportPending
	DecodePending
	ReadyToUpload
)

func (s SlotState) String() string {
	switch s {
	case Clean:
		return "clean"
	case ExportPending:
		return "export-pending"
	case DecodePending:
		return "decode-pending"
	case ReadyToUpload:
		return "ready"
	default:
		return fmt.Sprintf("slot-state(%d)", int(s))
	}
}

// Uploader receives decoded images. The GL cube renderer implements it.
type Uploader interface {
	Upload(id face.ID, img *image.RGBA)
}

// Decoder is the asynchronous decode service used by the pipeline.
type Decoder interface {
	Submit(req texture.Request) error
	Drain() []texture.Result
}

type slot struct {
	state SlotState
	gen   uint64
	batch uint64 // export request the newest generation belongs to
	data  []byte // bitmap waiting to be submitted
	last  []byte // bitmap of the newest request, to skip unchanged exports
	ready *image.RGBA
}

// Stats counts pipeline activity since creation.
type Stats struct {
	Requested int
	Skipped   int
	Stale     int
	Failed    int
	Uploaded  int
	Batches   int
}

// Pipeline tracks the six slots. It is driven from a single goroutine.
type Pipeline struct {
	slots [face.Count]slot
	batch uint64
	dec   Decoder
	log   *zap.Logger
	stats Stats
}

// New creates a pipeline with every slot Clean.
func New(dec Decoder, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{dec: dec, log: log}
}

// RequestExport queues the given face bitmaps for upload. Nil entries and
// bitmaps identical to the slot's previous request are skipped. A request on
// a slot that is still decoding supersedes the earlier one.
func (p *Pipeline) RequestExport(bitmaps [face.Count][]byte) {
	p.batch++
	for _, id := range face.IDs() {
		p.request(id, bitmaps[id])
	}
}

// RequestSlot queues one face bitmap, with the same rules as RequestExport.
func (p *Pipeline) RequestSlot(id face.ID, data []byte) {
	if !id.Valid() {
		return
	}
	p.batch++
	p.request(id, data)
}

func (p *Pipeline) request(id face.ID, data []byte) {
	if data == nil {
		return
	}
	s := &p.slots[id]
	if s.last != nil && bytes.Equal(s.last, data) {
		p.stats.Skipped++
		return
	}
	s.gen++
	s.batch = p.batch
	s.state = ExportPending
	s.data = data
	s.last = data
	s.ready = nil
	p.stats.Requested++
	p.log.Debug("export requested", zap.Stringer("face", id), zap.Uint64("gen", s.gen))
}

// Service advances every slot and uploads every finished batch. A batch is
// the set of slots queued by one request; it uploads once none of its slots
// is still decoding. A slot that is requested again moves to the newer batch
// and no longer holds back the older one. Call Service once per frame before
// drawing. It returns the number of slots uploaded.
func (p *Pipeline) Service(up Uploader) int {
	p.submit()
	p.collect()
	return p.upload(up)
}

func (p *Pipeline) submit() {
	for _, id := range face.IDs() {
		s := &p.slots[id]
		if s.state != ExportPending {
			continue
		}
		err := p.dec.Submit(texture.Request{Key: int(id), Gen: s.gen, Data: s.data})
		s.data = nil
		if err != nil {
			p.fail(id, err)
			continue
		}
		s.state = DecodePending
	}
}

func (p *Pipeline) collect() {
	for _, r := range p.dec.Drain() {
		id := face.ID(r.Key)
		if !id.Valid() {
			continue
		}
		s := &p.slots[id]
		if r.Gen != s.gen || s.state != DecodePending {
			p.stats.Stale++
			p.log.Debug("stale decode dropped",
				zap.Stringer("face", id), zap.Uint64("gen", r.Gen), zap.Uint64("want", s.gen))
			continue
		}
		if r.Err != nil {
			p.fail(id, r.Err)
			continue
		}
		s.ready = r.Image
		s.state = ReadyToUpload
	}
}

// fail returns the slot to Clean. The GPU keeps its previous texture and the
// next export of the same bitmap is not skipped.
func (p *Pipeline) fail(id face.ID, err error) {
	s := &p.slots[id]
	s.state = Clean
	s.ready = nil
	s.last = nil
	p.stats.Failed++
	p.log.Warn("texture decode failed, keeping previous texture",
		zap.Stringer("face", id), zap.Uint64("gen", s.gen), zap.Error(err))
}

func (p *Pipeline) upload(up Uploader) int {
	waiting := make(map[uint64]bool)
	for i := range p.slots {
		switch p.slots[i].state {
		case ExportPending, DecodePending:
			waiting[p.slots[i].batch] = true
		}
	}

	uploaded := 0
	batches := make(map[uint64]bool)
	for _, id := range face.IDs() {
		s := &p.slots[id]
		if s.state != ReadyToUpload || waiting[s.batch] {
			continue
		}
		up.Upload(id, s.ready)
		s.ready = nil
		s.state = Clean
		batches[s.batch] = true
		uploaded++
	}
	if uploaded == 0 {
		return 0
	}
	p.stats.Uploaded += uploaded
	p.stats.Batches += len(batches)
	p.log.Debug("texture batch uploaded", zap.Int("slots", uploaded), zap.Int("batches", len(batches)))
	return uploaded
}

// State returns the state of slot id.
func (p *Pipeline) State(id face.ID) SlotState {
	if !id.Valid() {
		return Clean
	}
	return p.slots[id].state
}

// Generation returns the newest request number of slot id.
func (p *Pipeline) Generation(id face.ID) uint64 {
	if !id.Valid() {
		return 0
	}
	return p.slots[id].gen
}

// Pending reports whether any slot is not Clean.
func (p *Pipeline) Pending() bool {
	for i := range p.slots {
		if p.slots[i].state != Clean {
			return true
		}
	}
	return false
}

// Stats returns activity counters.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Forget clears the remembered bitmaps so the next export uploads every face.
func (p *Pipeline) Forget() {
	for i := range p.slots {
		p.slots[i].last = nil
	}
}
