package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
	"github.com/ericlu327/photonforge-raytracing/tracer/compute"
	"github.com/ericlu327/photonforge-raytracing/types"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Camera movement speed.
	cameraMoveSpeed float32 = 0.05

	// Distance moved per scroll wheel tick.
	scrollMoveSpeed float32 = 0.3

	windowTitle = "photonforge"
)

// An interactive opengl-based renderer. The tonemapped frame buffer is
// uploaded to a texture and blitted to the window every frame while the
// accumulator keeps refining the image; any camera input restarts the
// accumulation.
type interactiveRenderer struct {
	*defaultRenderer

	// opengl handles
	window    *glfw.Window
	fbTexture uint32
	texFbo    uint32

	// input state
	lastCursorPos types.Vec2
	mousePressed  bool

	camera *scene.Camera
}

// Create a new interactive opengl renderer using the specified block
// scheduler and tracing pipeline.
func NewInteractive(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline *compute.Pipeline, opts Options) (Renderer, error) {
	base, err := NewDefault(sc, scheduler, pipeline, opts)
	if err != nil {
		return nil, err
	}

	return &interactiveRenderer{
		defaultRenderer: base.(*defaultRenderer),
		camera:          sc.Camera,
	}, nil
}

// Run the interactive render loop until the window is closed.
func (r *interactiveRenderer) Render() error {
	// The opengl context is bound to the calling thread.
	runtime.LockOSThread()

	if err := r.initGL(); err != nil {
		return err
	}
	defer glfw.Terminate()

	var titleFrames uint32
	titleTick := time.Now()

	for !r.window.ShouldClose() {
		glfw.PollEvents()

		if err := r.renderFrame(); err != nil {
			return err
		}

		// Upload the frame and blit it to the window. The blit flips the
		// Y axis so image row 0 lands at the top of the window.
		frameW, frameH := int32(r.options.FrameW), int32(r.options.FrameH)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, frameW, frameH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.frame.Pix))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
		gl.BlitFramebuffer(0, 0, frameW, frameH, 0, frameH, frameW, 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		r.window.SwapBuffers()

		titleFrames++
		if elapsed := time.Since(titleTick); elapsed >= time.Second {
			fps := float64(titleFrames) / elapsed.Seconds()
			r.window.SetTitle(fmt.Sprintf("%s | %dx%d | %d frames | %.1f fps",
				windowTitle, r.options.FrameW, r.options.FrameH, r.frameIndex, fps))
			titleFrames = 0
			titleTick = time.Now()
		}
	}
	return nil
}

func (r *interactiveRenderer) Close() {
	if r.window != nil {
		r.window.SetShouldClose(true)
	}
	r.defaultRenderer.Close()
}

func (r *interactiveRenderer) initGL() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("renderer: failed to initialize glfw: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var err error
	r.window, err = glfw.CreateWindow(int(r.options.FrameW), int(r.options.FrameH), windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("renderer: could not create opengl window: %v", err)
	}
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("renderer: could not init opengl: %v", err)
	}

	// Setup texture for image data
	gl.GenTextures(1, &r.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(r.options.FrameW), int32(r.options.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)
	r.window.SetScrollCallback(r.onScrollEvent)
	r.window.SetFramebufferSizeCallback(r.onFramebufferResize)

	return nil
}

func (r *interactiveRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var moveDir scene.CameraDirection
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
		return
	case glfw.KeySpace, glfw.KeyR:
		r.ResetAccumulation()
		return
	case glfw.KeyW, glfw.KeyUp:
		moveDir = scene.Forward
	case glfw.KeyS, glfw.KeyDown:
		moveDir = scene.Backward
	case glfw.KeyA, glfw.KeyLeft:
		moveDir = scene.Left
	case glfw.KeyD, glfw.KeyRight:
		moveDir = scene.Right
	case glfw.KeyQ:
		moveDir = scene.Down
	case glfw.KeyE:
		moveDir = scene.Up
	default:
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}
	r.camera.Move(moveDir, speedScaler*cameraMoveSpeed)
	r.UpdateCamera(r.camera)
}

func (r *interactiveRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		r.lastCursorPos[0], r.lastCursorPos[1] = float32(xPos), float32(yPos)
		r.mousePressed = true
	} else {
		r.mousePressed = false
	}
}

func (r *interactiveRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !r.mousePressed {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := types.Vec2{float32(xPos), float32(yPos)}
	delta := r.lastCursorPos.Sub(newPos)
	r.lastCursorPos = newPos

	r.camera.Rotate(delta[0]*mouseSensitivityX, delta[1]*mouseSensitivityY)
	r.UpdateCamera(r.camera)
}

func (r *interactiveRenderer) onScrollEvent(w *glfw.Window, xOff, yOff float64) {
	if yOff > 0 {
		r.camera.Move(scene.Forward, scrollMoveSpeed)
	} else if yOff < 0 {
		r.camera.Move(scene.Backward, scrollMoveSpeed)
	} else {
		return
	}
	r.UpdateCamera(r.camera)
}

func (r *interactiveRenderer) onFramebufferResize(w *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	r.Resize(uint32(width), uint32(height))
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
}
