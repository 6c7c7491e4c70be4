package texsync

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/Faultbox/facepaint/internal/curve"
	"github.com/Faultbox/facepaint/internal/engine/texture"
	"github.com/Faultbox/facepaint/internal/face"
)

// fakeDecoder completes requests only when the test says so.
type fakeDecoder struct {
	submitted []texture.Request
	done      []texture.Result
	submitErr error
}

func (d *fakeDecoder) Submit(req texture.Request) error {
	if d.submitErr != nil {
		return d.submitErr
	}
	d.submitted = append(d.submitted, req)
	return nil
}

func (d *fakeDecoder) Drain() []texture.Result {
	out := d.done
	d.done = nil
	return out
}

// complete queues a finished decode whose image width encodes the generation.
func (d *fakeDecoder) complete(key int, gen uint64, err error) {
	r := texture.Result{Key: key, Gen: gen, Err: err}
	if err == nil {
		r.Image = image.NewRGBA(image.Rect(0, 0, int(gen), 1))
	}
	d.done = append(d.done, r)
}

type upload struct {
	id    face.ID
	width int
}

type fakeUploader struct {
	uploads []upload
}

func (u *fakeUploader) Upload(id face.ID, img *image.RGBA) {
	u.uploads = append(u.uploads, upload{id: id, width: img.Rect.Dx()})
}

func sixBitmaps(tag byte) [face.Count][]byte {
	var out [face.Count][]byte
	for i := range out {
		out[i] = []byte{tag, byte(i)}
	}
	return out
}

func TestBatchWaitsForAllDecodes(t *testing.T) {
	dec := &fakeDecoder{}
	p := New(dec, nil)
	up := &fakeUploader{}

	p.RequestExport(sixBitmaps(1))
	for _, id := range face.IDs() {
		if p.State(id) != ExportPending {
			t.Fatalf("%v state = %v, want export-pending", id, p.State(id))
		}
	}

	if n := p.Service(up); n != 0 {
		t.Fatalf("uploaded %d before any decode finished", n)
	}
	if len(dec.submitted) != face.Count {
		t.Fatalf("submitted %d decodes, want %d", len(dec.submitted), face.Count)
	}
	for _, id := range face.IDs() {
		if p.State(id) != DecodePending {
			t.Errorf("%v state = %v, want decode-pending", id, p.State(id))
		}
	}

	for key := 0; key < face.Count-1; key++ {
		dec.complete(key, 1, nil)
	}
	if n := p.Service(up); n != 0 {
		t.Fatalf("uploaded %d with one decode outstanding", n)
	}
	if p.State(face.Front) != ReadyToUpload || p.State(face.Left) != DecodePending {
		t.Errorf("states front=%v left=%v", p.State(face.Front), p.State(face.Left))
	}

	dec.complete(int(face.Left), 1, nil)
	if n := p.Service(up); n != face.Count {
		t.Fatalf("uploaded %d, want %d in one batch", n, face.Count)
	}
	if len(up.uploads) != face.Count {
		t.Fatalf("uploader saw %d uploads", len(up.uploads))
	}
	for i, u := range up.uploads {
		if u.id != face.ID(i) {
			t.Errorf("upload %d went to %v", i, u.id)
		}
	}
	if p.Pending() {
		t.Error("pipeline still pending after batch")
	}
	if st := p.Stats(); st.Batches != 1 || st.Uploaded != 6 {
		t.Errorf("stats = %+v", st)
	}
}

func TestBusySlotDoesNotHoldBackOlderBatch(t *testing.T) {
	dec := &fakeDecoder{}
	p := New(dec, nil)
	up := &fakeUploader{}

	var bm [face.Count][]byte
	bm[face.Front] = []byte("front")
	bm[face.Back] = []byte("back-1")
	p.RequestExport(bm)
	p.Service(up)
	dec.complete(int(face.Front), 1, nil)

	// Back is exported again every frame and each decode lands one frame late.
	for gen := 2; gen <= 100; gen++ {
		var next [face.Count][]byte
		next[face.Back] = []byte{byte(gen)}
		p.RequestExport(next)
		dec.complete(int(face.Back), uint64(gen-1), nil)
		p.Service(up)
	}

	if p.State(face.Front) != Clean {
		t.Fatalf("front state = %v, want clean", p.State(face.Front))
	}
	if len(up.uploads) != 1 || up.uploads[0].id != face.Front {
		t.Fatalf("uploads = %+v, want front only", up.uploads)
	}
	if p.State(face.Back) != DecodePending {
		t.Errorf("back state = %v, want decode-pending", p.State(face.Back))
	}

	dec.complete(int(face.Back), 100, nil)
	if n := p.Service(up); n != 1 {
		t.Fatalf("uploaded %d, want 1", n)
	}
	if last := up.uploads[len(up.uploads)-1]; last.id != face.Back || last.width != 100 {
		t.Errorf("last upload = %+v, want back generation 100", last)
	}
}

func TestNewestExportWins(t *testing.T) {
	dec := &fakeDecoder{}
	p := New(dec, nil)
	up := &fakeUploader{}

	var first, second [face.Count][]byte
	first[face.Top] = []byte("v1")
	second[face.Top] = []byte("v2")

	p.RequestExport(first)
	p.Service(up)
	p.RequestExport(second)
	if p.State(face.Top) != ExportPending || p.Generation(face.Top) != 2 {
		t.Fatalf("state %v gen %d after second request", p.State(face.Top), p.Generation(face.Top))
	}

	// The first decode finishes late; it must be dropped.
	dec.complete(int(face.Top), 1, nil)
	if n := p.Service(up); n != 0 {
		t.Fatalf("stale result uploaded")
	}
	if p.Stats().Stale != 1 {
		t.Errorf("stale = %d, want 1", p.Stats().Stale)
	}
	if got := string(dec.submitted[len(dec.submitted)-1].Data); got != "v2" {
		t.Errorf("latest submission = %q, want v2", got)
	}

	dec.complete(int(face.Top), 2, nil)
	if n := p.Service(up); n != 1 {
		t.Fatalf("uploaded %d, want 1", n)
	}
	if up.uploads[0].id != face.Top || up.uploads[0].width != 2 {
		t.Errorf("upload = %+v, want generation 2 on top", up.uploads[0])
	}
}

func TestFailedDecodeKeepsLastGood(t *testing.T) {
	dec := &fakeDecoder{}
	p := New(dec, nil)
	up := &fakeUploader{}

	var bm [face.Count][]byte
	bm[face.Front] = []byte("good")
	bm[face.Back] = []byte("bad")
	p.RequestExport(bm)
	p.Service(up)

	dec.complete(int(face.Front), 1, nil)
	dec.complete(int(face.Back), 1, errors.New("corrupt"))
	if n := p.Service(up); n != 1 {
		t.Fatalf("uploaded %d, want 1", n)
	}
	if up.uploads[0].id != face.Front {
		t.Errorf("uploaded %v, want front", up.uploads[0].id)
	}
	if p.State(face.Back) != Clean {
		t.Errorf("failed slot state = %v, want clean", p.State(face.Back))
	}

	// The same bitmap may be retried after a failure.
	p.RequestExport(bm)
	if p.State(face.Back) != ExportPending {
		t.Errorf("retry of failed bitmap skipped")
	}
	if p.State(face.Front) != Clean {
		t.Errorf("unchanged bitmap re-requested")
	}
}

func TestSubmitFailure(t *testing.T) {
	dec := &fakeDecoder{submitErr: texture.ErrDecoderClosed}
	p := New(dec, nil)
	p.RequestSlot(face.Right, []byte("x"))
	if n := p.Service(&fakeUploader{}); n != 0 {
		t.Errorf("uploaded %d", n)
	}
	if p.State(face.Right) != Clean || p.Stats().Failed != 1 {
		t.Errorf("state %v stats %+v", p.State(face.Right), p.Stats())
	}
}

func TestSkipsUnchangedAndNil(t *testing.T) {
	dec := &fakeDecoder{}
	p := New(dec, nil)

	p.RequestExport(sixBitmaps(7))
	p.Service(&fakeUploader{})
	for key := 0; key < face.Count; key++ {
		dec.complete(key, 1, nil)
	}
	p.Service(&fakeUploader{})

	p.RequestExport(sixBitmaps(7))
	if p.Pending() {
		t.Error("identical export should not queue work")
	}
	if p.Stats().Skipped != face.Count {
		t.Errorf("skipped = %d, want %d", p.Stats().Skipped, face.Count)
	}

	p.Forget()
	p.RequestExport(sixBitmaps(7))
	if !p.Pending() {
		t.Error("export after Forget should queue every slot")
	}

	p.RequestSlot(face.None, []byte("x"))
	if p.State(face.None) != Clean {
		t.Error("invalid slot changed state")
	}
}

// End to end with a real board and decoder: after the startup export only the
// face that was drawn on is uploaded again.
func TestOnlyEditedFaceReuploads(t *testing.T) {
	opts := face.DefaultOptions()
	opts.Size = 32
	board := face.NewBoard(opts, nil)

	dec := texture.NewDecoder(texture.DecoderOptions{}, nil)
	defer dec.Close()
	p := New(dec, nil)

	export := func() []upload {
		t.Helper()
		bm, err := board.Bitmaps()
		if err != nil {
			t.Fatalf("Bitmaps: %v", err)
		}
		p.RequestExport(bm)
		up := &fakeUploader{}
		deadline := time.Now().Add(5 * time.Second)
		for p.Pending() && time.Now().Before(deadline) {
			p.Service(up)
			time.Sleep(time.Millisecond)
		}
		if p.Pending() {
			t.Fatal("pipeline did not settle")
		}
		return up.uploads
	}

	if got := export(); len(got) != face.Count {
		t.Fatalf("startup export uploaded %d slots, want %d", len(got), face.Count)
	}

	board.SetStrokeWidth(4)
	board.SetStrokeColor(gg.Black)
	board.PointerDown(face.Top, curve.Point{X: 0, Y: 0})
	board.PointerDown(face.Top, curve.Point{X: 0, Y: 0})
	board.PointerMove(face.Top, curve.Point{X: 10, Y: 0})
	board.PointerMove(face.Top, curve.Point{X: 10, Y: 10})
	board.PointerUp(face.Top)

	got := export()
	if len(got) != 1 || got[0].id != face.Top {
		t.Fatalf("uploads = %+v, want only top", got)
	}
	if got[0].width != 32 {
		t.Errorf("uploaded width %d, want 32", got[0].width)
	}
}
