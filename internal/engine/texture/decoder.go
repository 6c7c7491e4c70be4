package texture

import (
	"errors"
	"image"
	"sync"

	"go.uber.org/zap"
)

// ErrDecoderClosed is returned by Submit after Close.
var ErrDecoderClosed = errors.New("decoder closed")

// Request is one bitmap to decode. Key and Gen are opaque to the decoder and
// come back unchanged in the Result.
type Request struct {
	Key  int
	Gen  uint64
	Data []byte
}

// Result is a finished decode.
type Result struct {
	Key   int
	Gen   uint64
	Image *image.RGBA
	Err   error
}

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	Workers int // Concurrent decodes; 0 means 2
	Buffer  int // Completion queue length; 0 means 32
	MaxSize int // Longest side after decode; 0 keeps the original size
}

// Decoder decodes bitmaps on background goroutines. Completions are queued
// and collected by the owner with Drain, so results are only ever consumed on
// the owner's goroutine.
type Decoder struct {
	opts    DecoderOptions
	results chan Result
	sem     chan struct{}
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDecoder creates a Decoder.
func NewDecoder(opts DecoderOptions, log *zap.Logger) *Decoder {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 32
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{
		opts:    opts,
		results: make(chan Result, opts.Buffer),
		sem:     make(chan struct{}, opts.Workers),
		log:     log,
	}
}

// Submit starts decoding req. It never blocks on the decode itself.
func (d *Decoder) Submit(req Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDecoderClosed
	}

	d.wg.Add(1)
	go d.run(req)
	return nil
}

func (d *Decoder) run(req Request) {
	defer d.wg.Done()

	d.sem <- struct{}{}
	img, err := Decode(req.Data)
	<-d.sem

	if err == nil {
		img = Fit(img, d.opts.MaxSize)
		d.log.Debug("bitmap decoded",
			zap.Int("key", req.Key),
			zap.Uint64("gen", req.Gen),
			zap.Int("width", img.Rect.Dx()),
			zap.Int("height", img.Rect.Dy()))
	}
	d.results <- Result{Key: req.Key, Gen: req.Gen, Image: img, Err: err}
}

// Drain returns every completion available now without waiting.
func (d *Decoder) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-d.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Wait blocks until every submitted decode has completed and returns all
// completions. Intended for tests and shutdown.
func (d *Decoder) Wait() []Result {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var out []Result
	for {
		select {
		case r := <-d.results:
			out = append(out, r)
		case <-done:
			return append(out, d.Drain()...)
		}
	}
}

// Close rejects further submissions and waits for in-flight decodes.
// Their results are discarded.
func (d *Decoder) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Wait()
}
