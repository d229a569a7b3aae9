package forge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PixelToViewportNdc converts a window pixel (origin bottom-left) to
// normalized device coordinates within the camera's viewport rect.
// Returns false when the pixel lies outside the rect.
func PixelToViewportNdc(x, y float32, viewport [4]float32) (mgl32.Vec2, bool) {
	if viewport[2] <= 0 || viewport[3] <= 0 {
		return mgl32.Vec2{}, false
	}
	if x < viewport[0] || x > viewport[0]+viewport[2] ||
		y < viewport[1] || y > viewport[1]+viewport[3] {
		return mgl32.Vec2{}, false
	}

	nx := 2*((x-viewport[0])/viewport[2]) - 1
	ny := 2*((y-viewport[1])/viewport[3]) - 1
	return mgl32.Vec2{nx, ny}, true
}

// ViewportNdcToWorldRay unprojects an NDC point into a world-space ray
// through the camera. The origin is taken from the camera world
// matrix's translation column, which holds for perspective cameras.
func ViewportNdcToWorldRay(ndc mgl32.Vec2, cameraWorld, invProjection mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	clip := mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1}
	eye := invProjection.Mul4x1(clip)
	// Forward direction, not a point
	eye = mgl32.Vec4{eye.X(), eye.Y(), -1, 0}

	world := cameraWorld.Mul4x1(eye)
	dir := world.Vec3().Normalize()
	origin := cameraWorld.Col(3).Vec3()
	return origin, dir
}

// CameraPixelRay builds a world ray through a window pixel. Returns
// false when the pixel lies outside the camera's viewport.
func CameraPixelRay(cam *CameraComponent, x, y float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	ndc, ok := PixelToViewportNdc(x, y, cam.Viewport)
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}

	origin, dir := ViewportNdcToWorldRay(ndc, cam.WorldMatrix(), cam.ProjectionMatrix().Inv())
	return origin, dir, true
}

// CameraPixelRayUnbounded skips the viewport bounds check so a drag can
// keep tracking the cursor after it leaves the viewport rect.
func CameraPixelRayUnbounded(cam *CameraComponent, x, y float32) (mgl32.Vec3, mgl32.Vec3) {
	nx := 2*((x-cam.Viewport[0])/cam.Viewport[2]) - 1
	ny := 2*((y-cam.Viewport[1])/cam.Viewport[3]) - 1
	return ViewportNdcToWorldRay(mgl32.Vec2{nx, ny}, cam.WorldMatrix(), cam.ProjectionMatrix().Inv())
}

const minScreenScaleDepth = 1e-4

// ScreenConstantScale returns the world-space scale factor that keeps
// an object of unit world size at targetPixels of screen height. The
// depth is floored so objects at or behind the eye plane don't
// collapse the scale to zero.
func ScreenConstantScale(view mgl32.Mat4, worldPos mgl32.Vec3, fov, targetPixels, viewportHeight float32) float32 {
	if viewportHeight <= 0 {
		return 1
	}

	viewPos := view.Mul4x1(worldPos.Vec4(1))
	depth := float32(math.Abs(float64(viewPos.Z())))
	if depth < minScreenScaleDepth {
		depth = minScreenScaleDepth
	}

	worldPerPixel := 2 * depth * float32(math.Tan(float64(fov)/2)) / viewportHeight
	return worldPerPixel * targetPixels
}
