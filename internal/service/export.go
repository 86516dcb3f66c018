package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"slidegen/internal/domain"
	"slidegen/internal/layout"
	"slidegen/internal/render"
)

// Export renders the deck with every given renderer and writes one
// timestamped file per format into outDir. It returns format -> path for
// the files written. Layout overflow is surfaced as a warning, never as
// truncated content.
func Export(
	d *domain.SlideDeck,
	engine *layout.Engine,
	renderers []render.Renderer,
	outDir, baseName string,
	log zerolog.Logger,
) (map[string]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	for i, t := range d.Topics {
		if engine.Plan(t).Overflow {
			log.Warn().Int("slide", i+1).Str("title", t.Title).
				Msg("slide content overflows the surface; consider raising max bullets or splitting")
		}
	}

	stamp := d.Meta.GeneratedAt.Format("20060102_150405")
	out := make(map[string]string, len(renderers))
	for _, r := range renderers {
		data, err := r.Render(d, engine)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", r.Format(), err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", baseName, stamp, r.Format()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		log.Info().Str("path", path).Int("bytes", len(data)).Msg("wrote deck")
		out[r.Format()] = path
	}
	return out, nil
}
