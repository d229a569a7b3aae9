package forge

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type GizmoMode int

const (
	GizmoModeTranslate GizmoMode = iota
	GizmoModeRotate
	GizmoModeScale
)

type GizmoOrientation int

const (
	GizmoOrientationGlobal GizmoOrientation = iota
	GizmoOrientationLocal
)

type GizmoState int

const (
	GizmoStateInactive GizmoState = iota
	GizmoStateHoveringAxis
	GizmoStateHoveringPlane
	GizmoStateDraggingAxis
	GizmoStateDraggingPlane
)

// Event payload indexes for gizmo enter/leave/activate events: axes
// are 0..2, planes 3..5.
func GizmoIndexAxis(axis int) int   { return axis }
func GizmoIndexPlane(plane int) int { return 3 + plane }

// GizmoRig is the per-camera gizmo entity group: a root holding the
// world transform and three axis children holding mesh and material.
type GizmoRig struct {
	CameraEntity EntityId
	RootEntity   EntityId
	AxisEntities [3]EntityId
	builtMode    GizmoMode
	meshesBuilt  bool
}

// GizmoRigComponent tags a rig root so picking and scene persistence
// skip it.
type GizmoRigComponent struct {
	Camera EntityId
}

// GizmoInteraction is the editor-wide gizmo state machine. The drag
// snapshot fields are written once on press and only read until
// release.
type GizmoInteraction struct {
	Mode        GizmoMode
	Orientation GizmoOrientation
	State       GizmoState

	SelectedEntity EntityId
	FocusedCamera  EntityId
	FocusedAxis    int
	FocusedPlane   int

	// rigOrder keeps camera registration order so hover resolution is
	// deterministic when viewports overlap.
	rigs     map[EntityId]*GizmoRig
	rigOrder []EntityId

	// Drag snapshot, all in the target's parent-local space
	originalLocalPosition mgl32.Vec3
	originalLocalRotation mgl32.Quat
	originalLocalScale    mgl32.Vec3
	originalWorldMatrix   mgl32.Mat4
	dragParentInv         mgl32.Mat4
	dragTargetParented    bool

	dragAxisOrigin  mgl32.Vec3
	dragAxisDir     mgl32.Vec3
	dragAxisStartS  float32
	dragPlaneNormal mgl32.Vec3
	dragPlaneOffset float32
	axisOffsetPoint mgl32.Vec3
}

var gizmoAxisColors = [3][4]float32{
	{0.9, 0.2, 0.2, 1},
	{0.2, 0.9, 0.2, 1},
	{0.2, 0.4, 0.9, 1},
}

var gizmoHighlightColor = [4]float32{1, 1, 0.2, 1}

type GizmoModule struct {
	SizeOnScreenPixels  float32
	AxisDetectionRadius float32
}

func (m GizmoModule) Install(app *App, cmd *Commands) {
	if m.SizeOnScreenPixels == 0 {
		m.SizeOnScreenPixels = GizmoSizeOnScreenPixels
	}
	if m.AxisDetectionRadius == 0 {
		m.AxisDetectionRadius = gizmoAxisDetectionRadius
	}

	gz := &GizmoInteraction{
		Mode:          GizmoModeTranslate,
		Orientation:   GizmoOrientationGlobal,
		State:         GizmoStateInactive,
		FocusedAxis:   -1,
		FocusedPlane:  -1,
		rigs:          make(map[EntityId]*GizmoRig),
		dragParentInv: mgl32.Ident4(),
	}
	cmd.AddResources(gz, &gizmoConfig{
		sizeOnScreenPixels:  m.SizeOnScreenPixels,
		axisDetectionRadius: m.AxisDetectionRadius,
	})

	if bus, ok := GetResource[EventBus](app); ok {
		bus.Subscribe(EventMouseMove, func(ev Event) {
			gz.handleMouseMove(cmd, bus, m.AxisDetectionRadius, ev.X, ev.Y)
		})
		bus.Subscribe(EventMouseButtonPress, func(ev Event) {
			if ev.Button == MouseButtonLeft {
				gz.handleMousePress(cmd, bus, ev.X, ev.Y)
			}
		})
		bus.Subscribe(EventMouseButtonRelease, func(ev Event) {
			if ev.Button == MouseButtonLeft {
				gz.handleMouseRelease(cmd, bus)
			}
		})
		bus.Subscribe(EventEntitySelected, func(ev Event) {
			gz.handleSelectionChanged(cmd, ev.Entity)
		})
		bus.Subscribe(EventEntityDeselected, func(ev Event) {
			gz.handleSelectionChanged(cmd, NoEntity)
		})
	}

	app.UseSystem(
		System(gizmoRigSystem).
			InStage(Prelude).
			RunAlways(),
	)
	app.UseSystem(
		System(gizmoSyncSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

// gizmoConfig is the installed module configuration, visible to the
// rig and sync systems.
type gizmoConfig struct {
	sizeOnScreenPixels  float32
	axisDetectionRadius float32
}

// gizmoRigSystem lazily creates one rig per camera and rebuilds rig
// meshes when the mode changes. Rigs for dead cameras are torn down.
func gizmoRigSystem(cmd *Commands, gz *GizmoInteraction, assets *AssetServer) {
	log := cmd.app.Logger()

	var newCameras []EntityId
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		if _, ok := gz.rigs[eid]; ok {
			return true
		}

		rig := &GizmoRig{CameraEntity: eid}
		rig.RootEntity = cmd.AddEntity(
			IdentityTransform(),
			GizmoRigComponent{Camera: eid},
		)
		for axis := 0; axis < 3; axis++ {
			rig.AxisEntities[axis] = cmd.AddEntity(
				IdentityTransform(),
				IdentityLocalTransform(),
				Parent{Entity: rig.RootEntity},
				GizmoRigComponent{Camera: eid},
				MeshComponent{Visible: false},
				MaterialComponent{
					Color:          gizmoAxisColors[axis],
					HighlightColor: gizmoHighlightColor,
				},
			)
		}
		gz.rigs[eid] = rig
		newCameras = append(newCameras, eid)
		log.Debugf("gizmo rig created for camera %v", eid)
		return true
	})
	if len(newCameras) > 0 {
		// Queries iterate archetype maps in arbitrary order; entity ids
		// come from a monotonic counter, so id order is registration
		// order.
		slices.Sort(newCameras)
		gz.rigOrder = append(gz.rigOrder, newCameras...)
	}

	for camEid, rig := range gz.rigs {
		if !cmd.EntityExists(camEid) {
			cmd.RemoveEntity(rig.RootEntity)
			for _, axisEid := range rig.AxisEntities {
				cmd.RemoveEntity(axisEid)
			}
			delete(gz.rigs, camEid)
			gz.rigOrder = slices.DeleteFunc(gz.rigOrder, func(id EntityId) bool {
				return id == camEid
			})
			continue
		}

		if !rig.meshesBuilt || rig.builtMode != gz.Mode {
			rebuildRigMeshes(cmd, assets, rig, gz.Mode)
		}
	}
}

func rebuildRigMeshes(cmd *Commands, assets *AssetServer, rig *GizmoRig, mode GizmoMode) {
	for axis := 0; axis < 3; axis++ {
		mesh, ok := GetComponent[MeshComponent](cmd, rig.AxisEntities[axis])
		if !ok {
			// Rig entities still pending creation; retry next frame
			return
		}

		var verts []GizmoVertex
		switch mode {
		case GizmoModeTranslate:
			verts = TranslationAxisEntityVertices(axis)
		case GizmoModeRotate:
			verts = RotationAxisEntityVertices(axis)
		case GizmoModeScale:
			verts = ScaleAxisEntityVertices(axis)
		}

		mesh.Mesh = assets.LoadMesh(verts, nil)
	}
	rig.builtMode = mode
	rig.meshesBuilt = true
}

// gizmoSyncSystem places, scales and shows rigs every frame. The rig
// follows the selected entity's world position at a screen-constant
// size; its rotation follows the orientation setting.
func gizmoSyncSystem(cmd *Commands, gz *GizmoInteraction, cfg *gizmoConfig) {
	if gz.SelectedEntity != NoEntity && !cmd.EntityExists(gz.SelectedEntity) {
		gz.handleSelectionChanged(cmd, NoEntity)
	}

	visible := gz.SelectedEntity != NoEntity

	var target TransformComponent
	if visible {
		tr, ok := getTransform(cmd, gz.SelectedEntity)
		if !ok {
			gz.handleSelectionChanged(cmd, NoEntity)
			visible = false
		} else {
			target = tr
		}
	}

	for camEid, rig := range gz.rigs {
		setRigVisible(cmd, rig, visible)
		if !visible {
			continue
		}

		cam, ok := GetComponent[CameraComponent](cmd, camEid)
		if !ok {
			continue
		}
		root, ok := GetComponent[TransformComponent](cmd, rig.RootEntity)
		if !ok {
			continue
		}

		root.Position = target.Position
		root.Rotation = gz.rigRotation(&target)

		s := ScreenConstantScale(cam.ViewMatrix(), target.Position, cam.Fov, cfg.sizeOnScreenPixels, cam.Viewport[3])
		root.Scale = mgl32.Vec3{s, s, s}
		root.Dirty = true

		// The axis children carry identity local transforms, so their
		// world placement is just the root's. The hierarchy pass for
		// this frame already ran, write them here so renderers see the
		// current placement.
		for _, axisEid := range rig.AxisEntities {
			child, ok := GetComponent[TransformComponent](cmd, axisEid)
			if !ok {
				continue
			}
			child.Position = root.Position
			child.Rotation = root.Rotation
			child.Scale = root.Scale
			child.Dirty = true
		}
	}
}

// rigRotation resolves the rig's world rotation for the current
// orientation. During a drag the orientation axes are frozen at their
// press-time values.
func (gz *GizmoInteraction) rigRotation(target *TransformComponent) mgl32.Quat {
	if gz.Orientation == GizmoOrientationGlobal {
		return mgl32.QuatIdent()
	}
	if gz.State == GizmoStateDraggingAxis || gz.State == GizmoStateDraggingPlane {
		m := gz.originalWorldMatrix
		return mgl32.Mat4ToQuat(orthonormalizedRotation(m)).Normalize()
	}
	return target.Rotation
}

func orthonormalizedRotation(m mgl32.Mat4) mgl32.Mat4 {
	x := m.Col(0).Vec3().Normalize()
	y := m.Col(1).Vec3().Normalize()
	z := m.Col(2).Vec3().Normalize()
	return mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
}

func setRigVisible(cmd *Commands, rig *GizmoRig, visible bool) {
	for _, eid := range rig.AxisEntities {
		if mesh, ok := GetComponent[MeshComponent](cmd, eid); ok {
			mesh.Visible = visible
		}
	}
}

// setRigHighlight highlights axis or plane sub-ranges on the rig's
// axis entity materials; axis == -1 and plane == -1 clears.
func setRigHighlight(cmd *Commands, rig *GizmoRig, axis, plane int) {
	for i, eid := range rig.AxisEntities {
		mat, ok := GetComponent[MaterialComponent](cmd, eid)
		if !ok {
			continue
		}

		switch {
		case i == axis:
			mat.Highlighted = true
			mat.HighlightStart = GizmoEntityAxisStart
			mat.HighlightEnd = GizmoEntityAxisEnd
		case i == plane:
			mat.Highlighted = true
			mat.HighlightStart = GizmoEntityPlaneStart
			mat.HighlightEnd = GizmoEntityPlaneEnd
		default:
			mat.Highlighted = false
			mat.HighlightStart = 0
			mat.HighlightEnd = 0
		}
	}
}

func (gz *GizmoInteraction) clearHighlights(cmd *Commands) {
	for _, rig := range gz.rigs {
		setRigHighlight(cmd, rig, -1, -1)
	}
}

// handleSelectionChanged resets the interaction for a new selection
// target, aborting any hover or drag in progress.
func (gz *GizmoInteraction) handleSelectionChanged(cmd *Commands, selected EntityId) {
	gz.SelectedEntity = selected
	gz.State = GizmoStateInactive
	gz.FocusedCamera = NoEntity
	gz.FocusedAxis = -1
	gz.FocusedPlane = -1
	gz.clearHighlights(cmd)

	if selected == NoEntity {
		for _, rig := range gz.rigs {
			setRigVisible(cmd, rig, false)
		}
	}
}

type gizmoHit struct {
	axis  int // -1 when the hit is a plane
	plane int // -1 when the hit is an axis
	t     float32
}

// hitTestRig casts a pixel ray against one rig in gizmo-local space.
// Axis hits win over plane hits; among hits of the same kind the
// smallest ray t wins.
func (gz *GizmoInteraction) hitTestRig(cmd *Commands, rig *GizmoRig, cam *CameraComponent, radius, x, y float32) (gizmoHit, bool) {
	origin, dir, ok := CameraPixelRay(cam, x, y)
	if !ok {
		return gizmoHit{}, false
	}

	root, ok := GetComponent[TransformComponent](cmd, rig.RootEntity)
	if !ok {
		return gizmoHit{}, false
	}

	inv := root.Matrix().Inv()
	lo := inv.Mul4x1(origin.Vec4(1)).Vec3()
	ld := inv.Mul4x1(dir.Vec4(0)).Vec3()

	best := gizmoHit{axis: -1, plane: -1, t: float32(math.Inf(1))}
	found := false

	switch gz.Mode {
	case GizmoModeTranslate, GizmoModeScale:
		for axis := 0; axis < 3; axis++ {
			a, b := GizmoAxisSegment(axis)
			if hit, t := IntersectRayCapsule(lo, ld, a, b, radius); hit && t < best.t {
				best = gizmoHit{axis: axis, plane: -1, t: t}
				found = true
			}
		}
	case GizmoModeRotate:
		for ring := 0; ring < 3; ring++ {
			normal := GizmoPlaneNormal(ring)
			hit, t := IntersectRayPlane(lo, ld, normal, 0)
			if !hit {
				continue
			}
			p := RayPoint(lo, ld, t)
			if math32Abs(p.Len()-gizmoRingRadius) < radius && t < best.t {
				best = gizmoHit{axis: ring, plane: -1, t: t}
				found = true
			}
		}
	}

	if found {
		return best, true
	}

	if gz.Mode == GizmoModeTranslate {
		for plane := 0; plane < 3; plane++ {
			normal := GizmoPlaneNormal(plane)
			hit, t := IntersectRayPlane(lo, ld, normal, 0)
			if !hit {
				continue
			}
			if GizmoPlaneContains(plane, RayPoint(lo, ld, t)) && t < best.t {
				best = gizmoHit{axis: -1, plane: plane, t: t}
				found = true
			}
		}
	}

	return best, found
}

func math32Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (gz *GizmoInteraction) handleMouseMove(cmd *Commands, bus *EventBus, radius, x, y float32) {
	if gz.SelectedEntity != NoEntity && !cmd.EntityExists(gz.SelectedEntity) {
		gz.handleSelectionChanged(cmd, NoEntity)
		return
	}

	switch gz.State {
	case GizmoStateInactive, GizmoStateHoveringAxis, GizmoStateHoveringPlane:
		gz.updateHover(cmd, bus, radius, x, y)
	case GizmoStateDraggingAxis:
		gz.updateAxisDrag(cmd, x, y)
	case GizmoStateDraggingPlane:
		gz.updatePlaneDrag(cmd, x, y)
	}
}

func (gz *GizmoInteraction) updateHover(cmd *Commands, bus *EventBus, radius, x, y float32) {
	prevState := gz.State
	prevIndex := gz.focusIndex()

	var hit gizmoHit
	var hitCamera EntityId
	found := false

	if gz.SelectedEntity != NoEntity {
		// First camera in registration order whose viewport contains
		// the pixel wins.
		for _, camEid := range gz.rigOrder {
			cam, ok := GetComponent[CameraComponent](cmd, camEid)
			if !ok || !cam.ContainsPixel(x, y) {
				continue
			}
			if h, ok := gz.hitTestRig(cmd, gz.rigs[camEid], cam, radius, x, y); ok {
				hit = h
				hitCamera = camEid
				found = true
				break
			}
		}
	}

	if !found {
		if prevState != GizmoStateInactive {
			gz.State = GizmoStateInactive
			gz.FocusedCamera = NoEntity
			gz.FocusedAxis = -1
			gz.FocusedPlane = -1
			gz.clearHighlights(cmd)
			bus.Publish(Event{Type: EventMouseLeaveGizmo, Index: prevIndex})
		}
		return
	}

	if gz.FocusedCamera != hitCamera {
		// Hover moved to another camera's rig, drop the old one's
		// highlight.
		gz.clearHighlights(cmd)
	}
	gz.FocusedCamera = hitCamera
	gz.FocusedAxis = hit.axis
	gz.FocusedPlane = hit.plane
	if hit.axis >= 0 {
		gz.State = GizmoStateHoveringAxis
	} else {
		gz.State = GizmoStateHoveringPlane
	}

	if rig, ok := gz.rigs[hitCamera]; ok {
		setRigHighlight(cmd, rig, hit.axis, hit.plane)
	}

	newIndex := gz.focusIndex()
	if prevState == GizmoStateInactive {
		bus.Publish(Event{Type: EventMouseEnterGizmo, Index: newIndex})
	} else if newIndex != prevIndex {
		bus.Publish(Event{Type: EventMouseLeaveGizmo, Index: prevIndex})
		bus.Publish(Event{Type: EventMouseEnterGizmo, Index: newIndex})
	}
}

func (gz *GizmoInteraction) focusIndex() int {
	if gz.FocusedAxis >= 0 {
		return GizmoIndexAxis(gz.FocusedAxis)
	}
	if gz.FocusedPlane >= 0 {
		return GizmoIndexPlane(gz.FocusedPlane)
	}
	return -1
}

// orientationAxisWorld returns orientation axis i in world space. For
// local orientation the axes come from the drag snapshot's world
// matrix, so they stay fixed for the whole drag.
func (gz *GizmoInteraction) orientationAxisWorld(axis int) mgl32.Vec3 {
	if gz.Orientation == GizmoOrientationGlobal {
		return gizmoAxisDirs[axis]
	}
	return gz.originalWorldMatrix.Col(axis).Vec3().Normalize()
}

func (gz *GizmoInteraction) handleMousePress(cmd *Commands, bus *EventBus, x, y float32) {
	switch gz.State {
	case GizmoStateHoveringAxis, GizmoStateHoveringPlane:
		// begin drag below
	case GizmoStateInactive, GizmoStateDraggingAxis, GizmoStateDraggingPlane:
		return
	}

	if gz.SelectedEntity == NoEntity || !cmd.EntityExists(gz.SelectedEntity) {
		gz.handleSelectionChanged(cmd, NoEntity)
		return
	}
	cam, ok := GetComponent[CameraComponent](cmd, gz.FocusedCamera)
	if !ok {
		gz.handleSelectionChanged(cmd, gz.SelectedEntity)
		return
	}

	if !gz.snapshotDragTarget(cmd) {
		gz.handleSelectionChanged(cmd, NoEntity)
		return
	}

	origin, dir := CameraPixelRayUnbounded(cam, x, y)
	lo := gz.dragParentInv.Mul4x1(origin.Vec4(1)).Vec3()
	ld := gz.dragParentInv.Mul4x1(dir.Vec4(0)).Vec3()

	if gz.State == GizmoStateHoveringAxis {
		axisWorld := gz.orientationAxisWorld(gz.FocusedAxis)
		if gz.Mode == GizmoModeRotate {
			// Ring i spins around its plane normal
			axisWorld = gz.orientationPlaneNormalWorld(gz.FocusedAxis)
		}

		gz.dragAxisOrigin = gz.originalLocalPosition
		gz.dragAxisDir = gz.dragParentInv.Mul4x1(axisWorld.Vec4(0)).Vec3().Normalize()

		if gz.Mode == GizmoModeRotate {
			gz.dragPlaneNormal = gz.dragAxisDir
			gz.dragPlaneOffset = gz.dragPlaneNormal.Dot(gz.dragAxisOrigin)
			if hit, t := IntersectRayPlane(lo, ld, gz.dragPlaneNormal, gz.dragPlaneOffset); hit {
				gz.axisOffsetPoint = RayPoint(lo, ld, t)
			} else {
				gz.axisOffsetPoint = gz.dragAxisOrigin
			}
		} else {
			_, s, _ := RayRayNearestPoint(lo, ld, gz.dragAxisOrigin, gz.dragAxisDir)
			gz.dragAxisStartS = s
			gz.axisOffsetPoint = gz.dragAxisOrigin.Add(gz.dragAxisDir.Mul(s))
		}

		gz.State = GizmoStateDraggingAxis
	} else {
		normalWorld := gz.orientationPlaneNormalWorld(gz.FocusedPlane)
		gz.dragPlaneNormal = gz.dragParentInv.Mul4x1(normalWorld.Vec4(0)).Vec3().Normalize()
		gz.dragPlaneOffset = gz.dragPlaneNormal.Dot(gz.originalLocalPosition)

		if hit, t := IntersectRayPlane(lo, ld, gz.dragPlaneNormal, gz.dragPlaneOffset); hit {
			gz.axisOffsetPoint = RayPoint(lo, ld, t)
		} else {
			gz.axisOffsetPoint = gz.originalLocalPosition
		}

		gz.State = GizmoStateDraggingPlane
	}

	bus.Publish(Event{Type: EventGizmoActivated, Entity: gz.SelectedEntity, Index: gz.focusIndex()})
}

func (gz *GizmoInteraction) orientationPlaneNormalWorld(plane int) mgl32.Vec3 {
	span := gizmoPlaneSpan[plane]
	u := gz.orientationAxisWorld(span[0])
	v := gz.orientationAxisWorld(span[1])
	return u.Cross(v).Normalize()
}

// snapshotDragTarget captures the target's transform at press time.
// Everything the drag math reads afterwards comes from this snapshot.
func (gz *GizmoInteraction) snapshotDragTarget(cmd *Commands) bool {
	world, ok := getTransform(cmd, gz.SelectedEntity)
	if !ok {
		return false
	}
	gz.originalWorldMatrix = world.Matrix()

	parentEid, parented := getParent(cmd, gz.SelectedEntity)
	if parented {
		local, okLocal := getLocalTransform(cmd, gz.SelectedEntity)
		parentWorld, okParent := getTransform(cmd, parentEid)
		if okLocal && okParent {
			gz.dragTargetParented = true
			gz.originalLocalPosition = local.Position
			gz.originalLocalRotation = local.Rotation
			gz.originalLocalScale = local.Scale
			gz.dragParentInv = parentWorld.Matrix().Inv()
			return true
		}
	}

	gz.dragTargetParented = false
	gz.originalLocalPosition = world.Position
	gz.originalLocalRotation = world.Rotation
	gz.originalLocalScale = world.Scale
	gz.dragParentInv = mgl32.Ident4()
	return true
}

// dragRay converts the current mouse position to a ray in the drag's
// parent-local space, skipping viewport clipping so the drag keeps
// tracking outside the viewport.
func (gz *GizmoInteraction) dragRay(cmd *Commands, x, y float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	cam, ok := GetComponent[CameraComponent](cmd, gz.FocusedCamera)
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}

	origin, dir := CameraPixelRayUnbounded(cam, x, y)
	lo := gz.dragParentInv.Mul4x1(origin.Vec4(1)).Vec3()
	ld := gz.dragParentInv.Mul4x1(dir.Vec4(0)).Vec3()
	return lo, ld, true
}

func (gz *GizmoInteraction) updateAxisDrag(cmd *Commands, x, y float32) {
	if !cmd.EntityExists(gz.SelectedEntity) {
		gz.handleSelectionChanged(cmd, NoEntity)
		return
	}
	lo, ld, ok := gz.dragRay(cmd, x, y)
	if !ok {
		gz.handleSelectionChanged(cmd, gz.SelectedEntity)
		return
	}

	switch gz.Mode {
	case GizmoModeTranslate:
		_, s, _ := RayRayNearestPoint(lo, ld, gz.dragAxisOrigin, gz.dragAxisDir)
		point := gz.dragAxisOrigin.Add(gz.dragAxisDir.Mul(s))
		delta := point.Sub(gz.axisOffsetPoint)
		gz.writeTargetPosition(cmd, gz.originalLocalPosition.Add(delta))

	case GizmoModeRotate:
		hit, t := IntersectRayPlane(lo, ld, gz.dragPlaneNormal, gz.dragPlaneOffset)
		if !hit {
			return
		}
		point := RayPoint(lo, ld, t)

		startVec := gz.axisOffsetPoint.Sub(gz.dragAxisOrigin)
		curVec := point.Sub(gz.dragAxisOrigin)
		if startVec.Len() < 1e-6 || curVec.Len() < 1e-6 {
			return
		}

		angle := angleBetweenOnPlane(startVec, curVec, gz.dragPlaneNormal)
		rot := mgl32.QuatRotate(angle, gz.dragPlaneNormal)
		gz.writeTargetRotation(cmd, rot.Mul(gz.originalLocalRotation).Normalize())

	case GizmoModeScale:
		_, s, _ := RayRayNearestPoint(lo, ld, gz.dragAxisOrigin, gz.dragAxisDir)
		delta := s - gz.dragAxisStartS
		scale := gz.originalLocalScale
		scale[gz.FocusedAxis] += delta
		gz.writeTargetScale(cmd, scale)
	}
}

func (gz *GizmoInteraction) updatePlaneDrag(cmd *Commands, x, y float32) {
	if !cmd.EntityExists(gz.SelectedEntity) {
		gz.handleSelectionChanged(cmd, NoEntity)
		return
	}
	lo, ld, ok := gz.dragRay(cmd, x, y)
	if !ok {
		gz.handleSelectionChanged(cmd, gz.SelectedEntity)
		return
	}

	hit, t := IntersectRayPlane(lo, ld, gz.dragPlaneNormal, gz.dragPlaneOffset)
	if !hit {
		return
	}
	point := RayPoint(lo, ld, t)
	delta := point.Sub(gz.axisOffsetPoint)
	gz.writeTargetPosition(cmd, gz.originalLocalPosition.Add(delta))
}

// angleBetweenOnPlane returns the signed angle from a to b around n.
func angleBetweenOnPlane(a, b, n mgl32.Vec3) float32 {
	an := a.Normalize()
	bn := b.Normalize()
	cosA := mgl32.Clamp(an.Dot(bn), -1, 1)
	angle := float32(math.Acos(float64(cosA)))
	if an.Cross(bn).Dot(n) < 0 {
		angle = -angle
	}
	return angle
}

func (gz *GizmoInteraction) writeTargetPosition(cmd *Commands, pos mgl32.Vec3) {
	if gz.dragTargetParented {
		if local, ok := GetComponent[LocalTransformComponent](cmd, gz.SelectedEntity); ok {
			local.Position = pos
		}
		return
	}
	if world, ok := GetComponent[TransformComponent](cmd, gz.SelectedEntity); ok {
		world.Position = pos
		world.Dirty = true
	}
}

func (gz *GizmoInteraction) writeTargetRotation(cmd *Commands, rot mgl32.Quat) {
	if gz.dragTargetParented {
		if local, ok := GetComponent[LocalTransformComponent](cmd, gz.SelectedEntity); ok {
			local.Rotation = rot
		}
		return
	}
	if world, ok := GetComponent[TransformComponent](cmd, gz.SelectedEntity); ok {
		world.Rotation = rot
		world.Dirty = true
	}
}

func (gz *GizmoInteraction) writeTargetScale(cmd *Commands, scale mgl32.Vec3) {
	if gz.dragTargetParented {
		if local, ok := GetComponent[LocalTransformComponent](cmd, gz.SelectedEntity); ok {
			local.Scale = scale
		}
		return
	}
	if world, ok := GetComponent[TransformComponent](cmd, gz.SelectedEntity); ok {
		world.Scale = scale
		world.Dirty = true
	}
}

func (gz *GizmoInteraction) handleMouseRelease(cmd *Commands, bus *EventBus) {
	switch gz.State {
	case GizmoStateDraggingAxis, GizmoStateDraggingPlane:
		// end drag below
	case GizmoStateInactive, GizmoStateHoveringAxis, GizmoStateHoveringPlane:
		return
	}

	index := gz.focusIndex()
	gz.State = GizmoStateInactive
	gz.FocusedCamera = NoEntity
	gz.FocusedAxis = -1
	gz.FocusedPlane = -1
	gz.clearHighlights(cmd)

	bus.Publish(Event{Type: EventGizmoDeactivated, Entity: gz.SelectedEntity, Index: index})
	bus.Publish(Event{Type: EventMouseLeaveGizmo, Index: index})
}

// IsBusy reports whether the gizmo currently owns the mouse, so
// selection picking can yield to it.
func (gz *GizmoInteraction) IsBusy() bool {
	return gz.State != GizmoStateInactive
}
