package forge

import (
	"os"

	"github.com/google/uuid"
)

type AssetId string

// AssetServer owns mesh and material data; entities reference assets
// through small copyable handles.
type AssetServer struct {
	meshes    map[AssetId]MeshAsset
	materials map[AssetId]MaterialAsset
}

type AssetServerModule struct{}

type Mesh struct {
	assetId AssetId
}

type Material struct {
	assetId AssetId
}

type MeshAsset struct {
	version  uint
	vertices []GizmoVertex
	indices  []uint16
}

type MaterialAsset struct {
	version       uint
	shaderName    string
	shaderListing string
	vertexType    any
}

func (server *AssetServer) LoadMesh(vertices []GizmoVertex, indexes []uint16) Mesh {
	id := makeAssetId()

	server.meshes[id] = MeshAsset{
		version:  0,
		vertices: vertices,
		indices:  indexes,
	}

	return Mesh{
		assetId: id,
	}
}

func (server *AssetServer) GetMesh(m Mesh) (MeshAsset, bool) {
	asset, ok := server.meshes[m.assetId]
	return asset, ok
}

func (server *AssetServer) LoadMaterial(filename string, vertexType any) Material {
	shaderData, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}
	return server.LoadMaterialSource(filename, string(shaderData), vertexType)
}

// LoadMaterialSource registers a material from an in-memory shader
// listing, used for built-in shaders.
func (server *AssetServer) LoadMaterialSource(name, listing string, vertexType any) Material {
	id := makeAssetId()

	server.materials[id] = MaterialAsset{
		version:       0,
		shaderName:    name,
		shaderListing: listing,
		vertexType:    vertexType,
	}

	return Material{
		assetId: id,
	}
}

func (server *AssetServer) GetMaterial(m Material) (MaterialAsset, bool) {
	asset, ok := server.materials[m.assetId]
	return asset, ok
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(&AssetServer{
		meshes:    make(map[AssetId]MeshAsset),
		materials: make(map[AssetId]MaterialAsset),
	})
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
