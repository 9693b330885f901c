// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"log/slog"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// DataSource presents a decoded stream as PCM frames.
//
// A DataSource is not safe for concurrent use. Close must not race with any
// other method.
type DataSource interface {
	// ReadFrames decodes up to frameCount frames into dst, interleaved in the
	// negotiated sample format. It returns the number of frames written.
	// frameCount must be positive and dst must hold frameCount frames.
	// When no frame could be produced the error is io.EOF.
	ReadFrames(dst []byte, frameCount int) (int, error)

	// SeekToFrame moves the decode position to an absolute frame index.
	SeekToFrame(frame int64) error

	// Format reports the negotiated output format. On error the returned
	// Format is the zero value.
	Format() (Format, error)

	// Cursor reports the absolute frame index of the next frame to be read.
	Cursor() (int64, error)

	// Length reports the total number of frames in the stream.
	Length() (int64, error)

	// Close releases the decoder. It never closes a caller supplied Stream.
	Close() error
}

// Backend is the construction surface a decoding front-end selects between.
// Teardown of whatever a Backend returns is DataSource.Close.
type Backend interface {
	// Name is the registry key, e.g. "vorbis".
	Name() string
	// MIMETypes lists the content types this backend decodes.
	MIMETypes() []string

	Init(s Stream, cfg *Config) (DataSource, error)
	InitFile(path string, cfg *Config) (DataSource, error)
	InitMemory(data []byte, cfg *Config) (DataSource, error)
}

// Registry for backends by format key (e.g., "vorbis", "mp3").
type Registry struct {
	backends map[string]Backend
	order    []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		mtx:      &sync.Mutex{},
	}
}

// Register adds b under its Name. Registering the same name again replaces
// the previous backend but keeps its detection priority.
func (r *Registry) Register(b Backend) {
	if b == nil {
		slog.Warn("attempted to register nil backend")
		return
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	name := b.Name()
	if _, ok := r.backends[name]; !ok {
		r.order = append(r.order, name)
	}

	r.backends[name] = b

	slog.Debug("backend registered", "name", name, "total_backends", len(r.backends))
}

func (r *Registry) Get(name string) (Backend, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	b, ok := r.backends[name]
	return b, ok
}

// Names returns registered backend names in registration order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Detect sniffs header and returns the first registered backend whose MIME
// types match the detected content type or one of its parents.
func (r *Registry) Detect(header []byte) (Backend, error) {
	if len(header) == 0 {
		return nil, ErrInvalidArgs
	}

	mtype := mimetype.Detect(header)

	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, name := range r.order {
		b := r.backends[name]

		for m := mtype; m != nil; m = m.Parent() {
			for _, want := range b.MIMETypes() {
				if m.Is(want) {
					slog.Debug("backend detected", "backend", name, "mime", mtype.String())
					return b, nil
				}
			}
		}
	}

	slog.Debug("no backend for content", "mime", mtype.String())

	return nil, ErrUnsupportedFormat
}
