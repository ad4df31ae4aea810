// Package fanout duplicates one byte stream into several independent readers.
//
// Every byte written to a Writer is delivered, in order, to each of its readers. Readers are
// buffered by a bounded queue of chunks: a Write blocks until every attached reader has room for
// the chunk, so the producer never gets more than Depth chunks ahead of the slowest reader.
// A reader that is closed before the end of the stream is detached and stops slowing the others.
package fanout

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Default buffering of each reader.
const (
	DefaultChunkSize = 256 * 1024
	DefaultDepth     = 8
)

// ErrNoReader is returned by Write when every reader has been detached.
var ErrNoReader = errors.New("fanout: all readers are closed")

// Options tunes the buffering of a Writer.
type Options struct {
	// ChunkSize is the maximum size of a queued chunk.
	ChunkSize int
	// Depth is the number of chunks each reader may queue.
	Depth int
}

func (o *Options) setDefaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Depth <= 0 {
		o.Depth = DefaultDepth
	}
}

// Writer is the single producer side of the fan-out.
type Writer struct {
	ctx     context.Context
	opts    Options
	readers []*Reader
	mutex   sync.Mutex
	closed  bool
	written int64
}

// New returns a writer feeding one reader per name. Names are only used to identify readers.
func New(ctx context.Context, names []string, opts Options) (*Writer, []*Reader) {
	opts.setDefaults()
	w := &Writer{ctx: ctx, opts: opts}
	for _, n := range names {
		w.readers = append(w.readers, &Reader{
			name:     n,
			chunks:   make(chan []byte, opts.Depth),
			detached: make(chan struct{}),
		})
	}
	return w, append([]*Reader(nil), w.readers...)
}

// Write delivers p to every attached reader. It blocks while the slowest reader's queue is full.
func (w *Writer) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}

	var n int
	for len(p) > 0 {
		size := len(p)
		if size > w.opts.ChunkSize {
			size = w.opts.ChunkSize
		}
		// The chunk is shared by every reader and never modified afterwards
		chunk := make([]byte, size)
		copy(chunk, p[:size])

		if err := w.dispatch(chunk); err != nil {
			return n, err
		}
		n += size
		atomic.AddInt64(&w.written, int64(size))
		p = p[size:]
	}
	return n, nil
}

func (w *Writer) dispatch(chunk []byte) error {
	var delivered int
	for _, r := range w.readers {
		if r.isDetached() {
			continue
		}
		select {
		case r.chunks <- chunk:
			delivered++
		case <-r.detached:
		case <-w.ctx.Done():
			return w.ctx.Err()
		}
	}
	if delivered == 0 {
		return ErrNoReader
	}
	return nil
}

// Written returns the number of bytes accepted by the writer.
func (w *Writer) Written() int64 {
	return atomic.LoadInt64(&w.written)
}

// Close ends the stream. Readers return io.EOF once their queue is drained.
func (w *Writer) Close() error {
	return w.CloseWithError(nil)
}

// CloseWithError ends the stream. Readers return err once their queue is drained, or io.EOF if err is nil.
func (w *Writer) CloseWithError(err error) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	for _, r := range w.readers {
		r.writeErr = err
		close(r.chunks)
	}
	return nil
}

// Reader is one output of the fan-out.
type Reader struct {
	name       string
	chunks     chan []byte
	current    []byte
	writeErr   error
	detached   chan struct{}
	detachOnce sync.Once
	closeErr   error
	read       int64
}

// Name returns the name given to the reader.
func (r *Reader) Name() string { return r.name }

// BytesRead returns the number of bytes consumed from the reader.
func (r *Reader) BytesRead() int64 { return atomic.LoadInt64(&r.read) }

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.isDetached() && len(r.current) == 0 {
		return 0, r.detachError()
	}
	if len(r.current) == 0 {
		select {
		case chunk, ok := <-r.chunks:
			if !ok {
				if r.writeErr != nil {
					return 0, r.writeErr
				}
				return 0, io.EOF
			}
			r.current = chunk
		case <-r.detached:
			return 0, r.detachError()
		}
	}
	n := copy(p, r.current)
	r.current = r.current[n:]
	atomic.AddInt64(&r.read, int64(n))
	return n, nil
}

// Close detaches the reader from the writer.
func (r *Reader) Close() error {
	return r.CloseWithError(nil)
}

// CloseWithError detaches the reader from the writer. Subsequent reads return err, or io.ErrClosedPipe.
func (r *Reader) CloseWithError(err error) error {
	r.detachOnce.Do(func() {
		if err == nil {
			err = io.ErrClosedPipe
		}
		r.closeErr = err
		close(r.detached)
	})
	return nil
}

func (r *Reader) isDetached() bool {
	select {
	case <-r.detached:
		return true
	default:
		return false
	}
}

func (r *Reader) detachError() error {
	return r.closeErr
}
