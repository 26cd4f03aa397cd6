package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gekko3d/seascape"
)

// dumpRenderer stands in for a GPU backend. It writes each billboard texture
// as a PNG whenever its revision changes and logs frame statistics.
type dumpRenderer struct {
	dir    string
	logger seascape.Logger
	dumped map[seascape.AssetId]uint32
}

func newDumpRenderer(dir string, logger seascape.Logger) *dumpRenderer {
	return &dumpRenderer{dir: dir, logger: logger, dumped: map[seascape.AssetId]uint32{}}
}

func (r *dumpRenderer) Render(frame *seascape.Frame) error {
	if r.dir != "" {
		for _, b := range frame.Billboards {
			id := b.Billboard.Texture
			tex, err := frame.Assets.Texture(id)
			if err != nil {
				return err
			}
			if rev, ok := r.dumped[id]; ok && rev == tex.Revision {
				continue
			}
			if err := writeTexturePNG(filepath.Join(r.dir, tex.Label+".png"), tex); err != nil {
				return err
			}
			r.dumped[id] = tex.Revision
		}
	}
	if r.logger.DebugEnabled() && frame.Index%300 == 1 {
		r.logger.Debugf("Frame %d: camera %v, %d billboards, %d models",
			frame.Index, frame.Camera.Position, len(frame.Billboards), len(frame.Models))
	}
	return nil
}

func (r *dumpRenderer) Resize(width, height int) {
	r.logger.Infof("Viewport resized to %dx%d", width, height)
}

func writeTexturePNG(path string, tex seascape.TextureAsset) error {
	if tex.Format != seascape.TextureFormatRGBA8Unorm {
		return fmt.Errorf("texture %s: unsupported format %#x", tex.Label, tex.Format)
	}
	img := &image.NRGBA{
		Pix:    tex.Texels,
		Stride: int(tex.Width) * 4,
		Rect:   image.Rect(0, 0, int(tex.Width), int(tex.Height)),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
