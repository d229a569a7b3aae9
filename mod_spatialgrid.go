package forge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABBComponent struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// SpatialHashGrid is a broadphase index over entity AABBs, rebuilt
// every frame. Queries return candidates; callers do the narrow test.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]EntityId
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]EntityId),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(id EntityId, aabb AABBComponent) {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())
	minZ, maxZ := grid.getCellIndex(aabb.Min.Z()), grid.getCellIndex(aabb.Max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := grid.hashKey(x, y, z)
				grid.cells[key] = append(grid.cells[key], id)
			}
		}
	}
}

func (grid *SpatialHashGrid) QueryAABB(aabb AABBComponent) []EntityId {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())
	minZ, maxZ := grid.getCellIndex(aabb.Min.Z()), grid.getCellIndex(aabb.Max.Z())

	unique := make(map[EntityId]struct{})
	var results []EntityId

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := grid.hashKey(x, y, z)
				for _, id := range grid.cells[key] {
					if _, ok := unique[id]; !ok {
						unique[id] = struct{}{}
						results = append(results, id)
					}
				}
			}
		}
	}
	return results
}

// QueryRay walks the cells along a ray up to maxDist and returns the
// candidate entities, deduplicated, in walk order.
func (grid *SpatialHashGrid) QueryRay(origin, dir mgl32.Vec3, maxDist float32) []EntityId {
	d := dir.Normalize()
	step := grid.cellSize * 0.5

	unique := make(map[EntityId]struct{})
	var results []EntityId

	for t := float32(0); t <= maxDist; t += step {
		p := origin.Add(d.Mul(t))
		key := grid.hashKey(
			grid.getCellIndex(p.X()),
			grid.getCellIndex(p.Y()),
			grid.getCellIndex(p.Z()),
		)
		for _, id := range grid.cells[key] {
			if _, ok := unique[id]; !ok {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	}
	return results
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}

type SpatialGridModule struct {
	CellSize float32
}

func (m SpatialGridModule) Install(app *App, cmd *Commands) {
	if m.CellSize == 0 {
		m.CellSize = 2.0
	}
	cmd.AddResources(NewSpatialHashGrid(m.CellSize))

	app.UseSystem(
		System(UpdateAABBsSystem).InStage(PreUpdate).RunAlways(),
	).UseSystem(
		System(UpdateSpatialGridSystem).InStage(PreUpdate).RunAlways(),
	)
}

func UpdateAABBsSystem(cmd *Commands) {
	MakeQuery3[TransformComponent, ColliderComponent, AABBComponent](cmd).Map(func(id EntityId, tr *TransformComponent, col *ColliderComponent, aabb *AABBComponent) bool {
		scale := tr.Scale
		scaleX := float32(math.Abs(float64(scale.X())))
		scaleY := float32(math.Abs(float64(scale.Y())))
		scaleZ := float32(math.Abs(float64(scale.Z())))

		halfExtents := mgl32.Vec3{
			col.AABBHalfExtents.X() * scaleX,
			col.AABBHalfExtents.Y() * scaleY,
			col.AABBHalfExtents.Z() * scaleZ,
		}

		aabb.Min = tr.Position.Sub(halfExtents)
		aabb.Max = tr.Position.Add(halfExtents)
		return true
	})
}

func UpdateSpatialGridSystem(cmd *Commands, grid *SpatialHashGrid) {
	grid.Clear()

	MakeQuery1[AABBComponent](cmd).Map(func(id EntityId, aabb *AABBComponent) bool {
		grid.Insert(id, *aabb)
		return true
	})
}
