package forge

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent is a perspective camera rendering into a viewport
// rectangle. ViewportNorm is (x, y, w, h) in normalized window
// coordinates; Viewport is the derived rectangle in pixels, origin at
// the bottom-left of the window.
type CameraComponent struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3

	Yaw   float32
	Pitch float32

	Fov    float32 // radians
	Aspect float32
	Near   float32
	Far    float32

	ViewportNorm [4]float32
	Viewport     [4]float32
}

func (c *CameraComponent) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.LookAt, c.Up)
}

func (c *CameraComponent) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

func (c *CameraComponent) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// WorldMatrix is the camera's model matrix: the inverse of the view.
func (c *CameraComponent) WorldMatrix() mgl32.Mat4 {
	return c.ViewMatrix().Inv()
}

// ContainsPixel reports whether a window pixel (origin bottom-left)
// falls inside the camera's viewport rectangle.
func (c *CameraComponent) ContainsPixel(x, y float32) bool {
	return x >= c.Viewport[0] && x <= c.Viewport[0]+c.Viewport[2] &&
		y >= c.Viewport[1] && y <= c.Viewport[1]+c.Viewport[3]
}

// ScreenSize is the current framebuffer size in pixels.
type ScreenSize struct {
	Width  float32
	Height float32
}

type CameraModule struct {
	InitialWidth  float32
	InitialHeight float32
}

func (m CameraModule) Install(app *App, cmd *Commands) {
	size := &ScreenSize{Width: m.InitialWidth, Height: m.InitialHeight}
	cmd.AddResources(size)

	if bus, ok := GetResource[EventBus](app); ok {
		bus.Subscribe(EventWindowFramebufferSize, func(ev Event) {
			size.Width = ev.Width
			size.Height = ev.Height
		})
	}

	app.UseSystem(
		System(cameraViewportSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

// cameraViewportSystem keeps each camera's pixel viewport and aspect in
// sync with the framebuffer size.
func cameraViewportSystem(cmd *Commands, size *ScreenSize) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}

	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		if cam.ViewportNorm[2] == 0 || cam.ViewportNorm[3] == 0 {
			cam.ViewportNorm = [4]float32{0, 0, 1, 1}
		}

		cam.Viewport = [4]float32{
			cam.ViewportNorm[0] * size.Width,
			cam.ViewportNorm[1] * size.Height,
			cam.ViewportNorm[2] * size.Width,
			cam.ViewportNorm[3] * size.Height,
		}

		if cam.Viewport[3] > 0 {
			cam.Aspect = cam.Viewport[2] / cam.Viewport[3]
		}
		return true
	})
}

// GetResource looks up a registered resource by type.
func GetResource[T any](app *App) (*T, bool) {
	var t T
	r, ok := app.resources[reflect.TypeOf(t)]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}
