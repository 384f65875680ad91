package processors

import (
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/bgremove"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
	"github.com/maauso/mediajob-server/internal/registry"
)

// Engines bundles every external-tool engine the catalog's processors
// are built on, so bootstrap wiring only has to pass one value.
type Engines struct {
	FFmpeg        *ffmpegengine.Engine
	Image         *imageengine.Engine
	PDF           *pdfengine.Engine
	BgRemove      *bgremove.Engine
	FramePoolSize int
}

// Register builds every catalog processor against engines and adds it
// to reg. Call once at startup.
func Register(reg *registry.Registry, engines Engines) error {
	procs := []processor.Processor{
		NewVideoConvert(engines.FFmpeg),
		NewVideoTrim(engines.FFmpeg),
		NewVideoCompress(engines.FFmpeg),
		NewVideoToGIF(engines.FFmpeg),
		NewVideoThumbnail(engines.FFmpeg),
		NewVideoBgRemove(engines.FFmpeg, engines.BgRemove, engines.FramePoolSize),

		NewAudioExtract(engines.FFmpeg),
		NewAudioConvert(engines.FFmpeg),
		NewAudioTrim(engines.FFmpeg),

		NewImageConvert(engines.Image),
		NewImageCompress(engines.Image),
		NewImageWatermark(engines.Image),
		NewImageToPDF(engines.Image),
		NewImageBgRemove(engines.BgRemove),

		NewPdfMerge(engines.PDF),
		NewPdfSplit(engines.PDF),
		NewPdfCompress(engines.PDF),
		NewPdfRotate(engines.PDF),
		NewPdfProtect(engines.PDF),
		NewPdfUnlock(engines.PDF),
		NewPdfWatermark(engines.PDF, engines.Image),
		NewPdfPageNumbers(engines.PDF, engines.Image),
		NewPdfToImage(engines.PDF),
		NewPdfExtractText(engines.PDF),
	}

	for _, p := range procs {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}
