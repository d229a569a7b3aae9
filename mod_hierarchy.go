package forge

type HierarchyModule struct{}

func (m HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

// TransformHierarchySystem derives world transforms from local ones.
// Roots keep their world transform authoritative; parented entities
// compose their local transform with the parent's world transform.
func TransformHierarchySystem(cmd *Commands) {
	// Roots that carry both: local is authoritative, sync world from it.
	MakeQuery2[LocalTransformComponent, TransformComponent](cmd).WithoutTypes(Parent{}).Map(
		func(eid EntityId, local *LocalTransformComponent, world *TransformComponent) bool {
			world.Position = local.Position
			world.Rotation = local.Rotation
			world.Scale = local.Scale
			world.Dirty = true
			return true
		})

	// Children. Propagate components directly to preserve scale signs and
	// avoid Mat4-to-quaternion decomposition errors. A few passes handle
	// chains deeper than one level; order within a pass is unspecified.
	for pass := 0; pass < 4; pass++ {
		MakeQuery3[LocalTransformComponent, Parent, TransformComponent](cmd).Map(
			func(eid EntityId, local *LocalTransformComponent, parent *Parent, world *TransformComponent) bool {
				parentWorld, ok := getTransform(cmd, parent.Entity)
				if !ok {
					return true
				}

				// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
				scaledLocalPos := mulVec3(local.Position, parentWorld.Scale)
				world.Position = parentWorld.Position.Add(parentWorld.Rotation.Rotate(scaledLocalPos))

				// WorldRot = ParentRot * LocalRot
				world.Rotation = parentWorld.Rotation.Mul(local.Rotation).Normalize()

				// WorldScale = ParentScale * LocalScale
				world.Scale = mulVec3(parentWorld.Scale, local.Scale)

				world.Dirty = true
				return true
			})
	}
}
