package seascape

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/google/uuid"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

// TextureAsset holds non-premultiplied RGBA8 texels.
type TextureAsset struct {
	Label  string
	Texels []uint8
	Width  uint32
	Height uint32
	Format TextureFormat
	// Revision counts UpdateTexture calls. Renderers re-upload when it changes.
	Revision uint32
}

// ModelRequest names an object file and its material library inside Dir.
type ModelRequest struct {
	Dir      string
	Object   string
	Material string
}

func (r ModelRequest) String() string {
	return path.Join(r.Dir, r.Object)
}

// ModelAsset carries the raw model files for the renderer to parse.
type ModelAsset struct {
	Name     string
	Object   []byte
	Material []byte
}

type ModelResult struct {
	Request ModelRequest
	Model   ModelAsset
	Err     error
}

type ModelLoader interface {
	Load(ctx context.Context, req ModelRequest) (ModelAsset, error)
}

// FileModelLoader reads model files from FS, or from the request's Dir on
// disk when FS is nil. The material library is read before the object.
type FileModelLoader struct {
	FS fs.FS
}

func (l FileModelLoader) Load(ctx context.Context, req ModelRequest) (ModelAsset, error) {
	fsys, dir := l.FS, req.Dir
	if fsys == nil {
		fsys, dir = os.DirFS(req.Dir), "."
	}

	var material []byte
	if req.Material != "" {
		data, err := fs.ReadFile(fsys, path.Join(dir, req.Material))
		if err != nil {
			return ModelAsset{}, fmt.Errorf("failed to read material %q: %w", req.Material, err)
		}
		material = data
	}
	if err := ctx.Err(); err != nil {
		return ModelAsset{}, err
	}

	object, err := fs.ReadFile(fsys, path.Join(dir, req.Object))
	if err != nil {
		return ModelAsset{}, fmt.Errorf("failed to read object %q: %w", req.Object, err)
	}

	return ModelAsset{
		Name:     req.Object,
		Object:   object,
		Material: material,
	}, nil
}

type AssetServer struct {
	textures map[AssetId]TextureAsset
	models   map[AssetId]ModelAsset
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[AssetId]TextureAsset),
		models:   make(map[AssetId]ModelAsset),
	}
}

func (server *AssetServer) CreateTexture(label string, texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		Label:  label,
		Texels: texels,
		Width:  texWidth,
		Height: texHeight,
		Format: format,
	}

	return id
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, error) {
	tex, ok := server.textures[id]
	if !ok {
		return TextureAsset{}, fmt.Errorf("texture %s: %w", id, ErrAssetNotFound)
	}
	return tex, nil
}

// UpdateTexture swaps the texels of an existing texture and bumps its revision.
func (server *AssetServer) UpdateTexture(id AssetId, texels []uint8, texWidth uint32, texHeight uint32) error {
	tex, ok := server.textures[id]
	if !ok {
		return fmt.Errorf("texture %s: %w", id, ErrAssetNotFound)
	}
	tex.Texels = texels
	tex.Width = texWidth
	tex.Height = texHeight
	tex.Revision++
	server.textures[id] = tex
	return nil
}

func (server *AssetServer) AddModel(model ModelAsset) AssetId {
	id := makeAssetId()
	server.models[id] = model
	return id
}

func (server *AssetServer) Model(id AssetId) (ModelAsset, error) {
	m, ok := server.models[id]
	if !ok {
		return ModelAsset{}, fmt.Errorf("model %s: %w", id, ErrAssetNotFound)
	}
	return m, nil
}

// LoadModelAsync loads req on its own goroutine. The returned channel yields
// exactly one result and is then closed. The caller registers the model.
func (server *AssetServer) LoadModelAsync(ctx context.Context, loader ModelLoader, req ModelRequest) <-chan ModelResult {
	results := make(chan ModelResult, 1)
	go func() {
		defer close(results)
		model, err := loader.Load(ctx, req)
		results <- ModelResult{Request: req, Model: model, Err: err}
	}()
	return results
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
