package forge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraViewportSystem(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	cmd.AddResources(&ScreenSize{Width: 800, Height: 600})

	cam := cmd.AddEntity(CameraComponent{
		Position:     mgl32.Vec3{0, 0, 10},
		LookAt:       mgl32.Vec3{0, 0, 0},
		Up:           mgl32.Vec3{0, 1, 0},
		Fov:          mgl32.DegToRad(60),
		Near:         0.1,
		Far:          100,
		ViewportNorm: [4]float32{0.5, 0, 0.5, 1},
	})
	app.FlushCommands()

	size, _ := GetResource[ScreenSize](app)
	cameraViewportSystem(cmd, size)

	c, ok := GetComponent[CameraComponent](cmd, cam)
	if !ok {
		t.Fatal("Camera component missing")
	}
	if c.Viewport != [4]float32{400, 0, 400, 600} {
		t.Errorf("Viewport: expected (400,0,400,600), got %v", c.Viewport)
	}
	if !almostEqual(c.Aspect, 400.0/600.0, 1e-6) {
		t.Errorf("Aspect: expected %v, got %v", 400.0/600.0, c.Aspect)
	}
}

func TestCameraViewportSystem_DefaultsToFullWindow(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	cmd.AddResources(&ScreenSize{Width: 1280, Height: 720})

	cam := cmd.AddEntity(CameraComponent{
		Fov:  mgl32.DegToRad(60),
		Near: 0.1,
		Far:  100,
	})
	app.FlushCommands()

	size, _ := GetResource[ScreenSize](app)
	cameraViewportSystem(cmd, size)

	c, _ := GetComponent[CameraComponent](cmd, cam)
	if c.ViewportNorm != [4]float32{0, 0, 1, 1} {
		t.Errorf("Expected full-window norm viewport, got %v", c.ViewportNorm)
	}
	if c.Viewport != [4]float32{0, 0, 1280, 720} {
		t.Errorf("Viewport: expected (0,0,1280,720), got %v", c.Viewport)
	}
}

func TestCameraContainsPixel(t *testing.T) {
	cam := CameraComponent{Viewport: [4]float32{100, 50, 200, 100}}

	if !cam.ContainsPixel(150, 100) {
		t.Error("Interior pixel should be inside the viewport")
	}
	if !cam.ContainsPixel(100, 50) || !cam.ContainsPixel(300, 150) {
		t.Error("Viewport edges are inclusive")
	}
	if cam.ContainsPixel(99, 100) || cam.ContainsPixel(150, 151) {
		t.Error("Pixels outside the rectangle should be rejected")
	}
}

func TestCameraWorldMatrix(t *testing.T) {
	cam := CameraComponent{
		Position: mgl32.Vec3{3, 4, 5},
		LookAt:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
	}

	// The world matrix translation column is the camera position.
	world := cam.WorldMatrix()
	pos := world.Col(3).Vec3()
	if !almostEqual(pos.X(), 3, 1e-4) || !almostEqual(pos.Y(), 4, 1e-4) || !almostEqual(pos.Z(), 5, 1e-4) {
		t.Errorf("World matrix translation: expected (3,4,5), got %v", pos)
	}
}
