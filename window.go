package forge

import (
	"reflect"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule ensures a single shared GLFW window
// (WindowState) is created and made available as a resource. Install
// is idempotent: if a WindowState resource already exists it is
// reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Forge3D"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	app.addResources(ws)

	app.UseSystem(
		System(windowCloseSystem).
			InStage(Finale).
			RunAlways(),
	)
}

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	// No OpenGL context; the surface goes through wgpu
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func windowCloseSystem(cmd *Commands, s *WindowState) {
	if s.windowGlfw.ShouldClose() {
		cmd.app.Quit()
	}
}

// GpuModule brings up the wgpu surface, adapter, device and queue for
// the shared window and keeps the surface configuration in step with
// framebuffer resizes.
type GpuModule struct{}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func (m GpuModule) Install(app *App, cmd *Commands) {
	ws, ok := GetResource[WindowState](app)
	if !ok {
		panic("GpuModule requires PlatformWindowModule")
	}

	app.addResources(createGpuState(ws))

	if bus, busOk := GetResource[EventBus](app); busOk {
		bus.Subscribe(EventWindowFramebufferSize, func(ev Event) {
			if gpu, gpuOk := GetResource[GpuState](app); gpuOk {
				gpu.resize(uint32(ev.Width), uint32(ev.Height))
			}
		})
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

func (gpu *GpuState) resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	gpu.surfaceConfig.Width = width
	gpu.surfaceConfig.Height = height
	gpu.surface.Configure(gpu.adapter, gpu.device, gpu.surfaceConfig)
}

func (gpu *GpuState) Device() *wgpu.Device { return gpu.device }
func (gpu *GpuState) Queue() *wgpu.Queue   { return gpu.queue }
