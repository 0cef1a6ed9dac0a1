package keygen

import "github.com/dmitrymomot/cachekit/pkg/monitor"

// Option configures the key generator.
type Option func(*options)

type options struct {
	recorder      monitor.Recorder
	hashThreshold int
	chunkSize     int
}

func defaultOptions() *options {
	return &options{
		recorder:      monitor.NopRecorder{},
		hashThreshold: 1000,
		chunkSize:     64 << 10,
	}
}

// WithHashThreshold sets the payload length (in bytes) at which the key
// switches from embedding the payload verbatim to embedding its digest.
// Payloads strictly shorter than the threshold are embedded.
// Default: 1000.
func WithHashThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.hashThreshold = n
		}
	}
}

// WithChunkSize sets the buffer size used to feed the hash incrementally.
// Default: 64 KiB.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithRecorder sets the performance recorder that receives key-generation
// timings. Absence of a recorder never changes key output.
// Default: no-op.
func WithRecorder(r monitor.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}
