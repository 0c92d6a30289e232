package volcano

import (
	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// SerializeMode identifies which output shape the serializer chose.
type SerializeMode string

const (
	// ModeFull copies the dataset into a single flat record list.
	ModeFull SerializeMode = "full"
	// ModeChunked still yields a flat list but builds it in fixed-size
	// chunks so the between-chunk hook can bound peak memory.
	ModeChunked SerializeMode = "chunked"
	// ModeStreamed wraps the chunks in a row-range-tagged envelope.
	ModeStreamed SerializeMode = "streamed"
)

// Chunk is one slice of a streamed response, tagged with the half-open row
// range it covers.
type Chunk struct {
	StartRow int             `json:"start_row"`
	EndRow   int             `json:"end_row"`
	Data     volcano.Dataset `json:"data"`
}

// SerializeResult holds the wire-ready records.  Exactly one of Data or
// Chunks is populated depending on Mode.
type SerializeResult struct {
	Mode   SerializeMode
	Data   volcano.Dataset
	Chunks []Chunk
}

// Rows returns the total record count across whichever shape was produced.
func (r *SerializeResult) Rows() int {
	if r.Mode == ModeStreamed {
		n := 0
		for _, c := range r.Chunks {
			n += len(c.Data)
		}
		return n
	}
	return len(r.Data)
}

// Serializer converts datasets into wire records, switching shape by size.
// It is purely mechanical; memory-pressure handling lives in the resource
// governor that wraps it.
type Serializer struct {
	chunkThreshold  int
	chunkSize       int
	streamThreshold int
}

// NewSerializer creates a Serializer with the given size thresholds.
func NewSerializer(chunkThreshold, chunkSize, streamThreshold int) *Serializer {
	return &Serializer{
		chunkThreshold:  chunkThreshold,
		chunkSize:       chunkSize,
		streamThreshold: streamThreshold,
	}
}

// ModeFor returns the output shape used for a dataset of n rows.
func (s *Serializer) ModeFor(n int) SerializeMode {
	switch {
	case n > s.streamThreshold:
		return ModeStreamed
	case n > s.chunkThreshold:
		return ModeChunked
	default:
		return ModeFull
	}
}

// Serialize converts ds into records.  In the chunked and streamed modes the
// betweenChunks hook, when non-nil, runs after every chunk; a hook error
// aborts serialization and is returned unchanged, letting the caller shrink
// the dataset and retry.
func (s *Serializer) Serialize(ds volcano.Dataset, betweenChunks func() error) (*SerializeResult, error) {
	mode := s.ModeFor(len(ds))

	if mode == ModeFull {
		out := make(volcano.Dataset, len(ds))
		copy(out, ds)
		return &SerializeResult{Mode: mode, Data: out}, nil
	}

	if mode == ModeChunked {
		out := make(volcano.Dataset, 0, len(ds))
		for start := 0; start < len(ds); start += s.chunkSize {
			end := start + s.chunkSize
			if end > len(ds) {
				end = len(ds)
			}
			out = append(out, ds[start:end]...)
			if err := s.runHook(betweenChunks, end, len(ds)); err != nil {
				return nil, err
			}
		}
		return &SerializeResult{Mode: mode, Data: out}, nil
	}

	chunks := make([]Chunk, 0, (len(ds)+s.chunkSize-1)/s.chunkSize)
	for start := 0; start < len(ds); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(ds) {
			end = len(ds)
		}
		data := make(volcano.Dataset, end-start)
		copy(data, ds[start:end])
		chunks = append(chunks, Chunk{StartRow: start, EndRow: end, Data: data})
		if err := s.runHook(betweenChunks, end, len(ds)); err != nil {
			return nil, err
		}
	}
	return &SerializeResult{Mode: ModeStreamed, Chunks: chunks}, nil
}

// runHook invokes the between-chunk hook except after the final chunk, where
// there is nothing left to protect.
func (s *Serializer) runHook(hook func() error, end, total int) error {
	if hook == nil || end >= total {
		return nil
	}
	return hook()
}
