package keygen

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// questionOption is the options key isolated into its own component for
// question-answering operations.
const questionOption = "question"

// Generator builds deterministic, collision-resistant cache keys from an
// operation name, an input payload, and an options map.
//
// Generators are stateless and safe for concurrent use: the same inputs
// always produce the same key, with no randomness or wall-clock input in
// the digest path.
type Generator struct {
	opts *options
}

// New creates a key generator.
//
// Example:
//
//	kg := keygen.New(
//	    keygen.WithHashThreshold(1000),
//	    keygen.WithRecorder(mon),
//	)
//	key := kg.Key("summarize", text, map[string]any{"lang": "en"})
func New(opts ...Option) *Generator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Generator{opts: o}
}

// Key generates a cache key of the form
//
//	{operation}:{payload}:{options}[:{question}]
//
// Payloads shorter than the hash threshold are embedded verbatim (whitespace
// normalized) for debuggability; longer payloads are replaced by a streaming
// SHA-256 digest so peak memory stays bounded. Options are serialized in
// canonical sorted-key order, so semantically identical maps always produce
// identical keys regardless of insertion order.
//
// For the "qa" operation, a "question" option becomes a separate key
// component subject to the same hash-or-embed rule, so two questions over
// identical text never collide.
func (g *Generator) Key(operation, payload string, options map[string]any) string {
	start := time.Now()

	var question string
	hasQuestion := false
	if operation == "qa" {
		if q, ok := options[questionOption]; ok {
			question, hasQuestion = stringify(q), true
			options = withoutKey(options, questionOption)
		}
	}

	var b strings.Builder
	b.WriteString(operation)
	b.WriteByte(':')
	b.WriteString(g.component(payload))
	b.WriteByte(':')
	b.WriteString(string(canonicalize(options)))
	if hasQuestion {
		b.WriteByte(':')
		b.WriteString(g.component(question))
	}
	key := b.String()

	g.opts.recorder.Record(monitor.CategoryKeyGeneration, time.Since(start), monitor.Context{
		TextLength: len(payload),
	})

	return key
}

// component applies the hash-or-embed rule to one key component.
func (g *Generator) component(text string) string {
	if len(text) < g.opts.hashThreshold {
		return normalize(text)
	}
	return "sha256:" + g.digest(text)
}

// digest hashes text incrementally in fixed-size chunks so multi-megabyte
// payloads never require a second full-size buffer.
func (g *Generator) digest(text string) string {
	h := sha256.New()
	buf := make([]byte, g.opts.chunkSize)
	_, _ = io.CopyBuffer(onlyWriter{h}, strings.NewReader(text), buf)
	return hex.EncodeToString(h.Sum(nil))
}

// onlyWriter hides any ReadFrom method so io.CopyBuffer honors the
// provided chunk buffer.
type onlyWriter struct {
	w io.Writer
}

func (o onlyWriter) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// normalize collapses runs of whitespace so trivially reformatted payloads
// share a key. Empty and whitespace-only payloads normalize to "".
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func withoutKey(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}
