// Package processor defines the contract every media-processing unit
// implements, and the static descriptor the registry and HTTP surface
// serve to clients.
package processor

import (
	"context"

	"github.com/maauso/mediajob-server/internal/options"
)

// ProgressFunc is invoked by a Processor any number of times during
// Process, with percent in [0,100]. The processor MUST await its return
// before proceeding, so that event ordering holds.
type ProgressFunc func(ctx context.Context, percent float64, message string) error

// Processor is a named unit of media work with a declared input type and
// options schema. Implementations are black boxes beyond the contract:
// internal option semantics (filter graphs, quality tiers, permission
// bitmasks) are the processor's own business.
type Processor interface {
	// Descriptor returns the static, serializable description of this
	// processor.
	Descriptor() Descriptor

	// Process runs the unit of work. inputPath is the first submitted
	// file (the only one, for single-file processors); inputPaths carries
	// every submitted file in submission order. outputDir is a private
	// scratch directory the processor may fill freely — the returned
	// result path must lie within it. options has already passed
	// structural (dimension) validation; the processor still owns its own
	// semantic validation and must fail with a descriptive error (the
	// manager surfaces this as a Failed job) on bad values.
	Process(ctx context.Context, inputPath, outputDir string, onProgress ProgressFunc, opts map[string]any, inputPaths []string) (resultPath string, err error)
}

// Descriptor is the static description of a processor, served verbatim
// (plus the field ordering in options_schema) by GET /processors.
type Descriptor struct {
	ID                   string        `json:"id"`
	Label                string        `json:"label"`
	Description          string        `json:"description"`
	AcceptedExtensions   []string      `json:"accepted_extensions"`
	AcceptsMultipleFiles bool          `json:"accepts_multiple_files"`
	OptionsSchema        []options.Def `json:"options_schema"`
}

// AcceptsExtension reports whether ext (lowercase, with leading dot) is
// in the descriptor's accepted set.
func (d Descriptor) AcceptsExtension(ext string) bool {
	for _, e := range d.AcceptedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
