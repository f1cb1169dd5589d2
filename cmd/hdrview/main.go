package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unsafe"

	"radiance-gl/libio"
	"radiance-gl/radiance"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"
)

//go:embed assets/shaders/imgui.vert
var Res_ImguiVshSrc string

//go:embed assets/shaders/imgui.frag
var Res_ImguiFshSrc string

//go:embed assets/shaders/image.vert
var Res_ImageVshSrc string

//go:embed assets/shaders/image.frag
var Res_ImageFshSrc string

var Arguments struct {
	EnableCompatibilityProfile bool
	Verbose                    bool
	Exposure                   float64
	Gamma                      float64
	Reinhard                   bool
}

// tonemap holds the settings edited in the ui.
type tonemap struct {
	Exposure float32
	Gamma    float32
	Reinhard bool
}

func main() {
	flag.BoolVar(&Arguments.EnableCompatibilityProfile, "enable-compatibility-profile", Arguments.EnableCompatibilityProfile, "")
	flag.BoolVar(&Arguments.Verbose, "verbose", Arguments.Verbose, "logs decoder details to stderr")
	flag.Float64Var(&Arguments.Exposure, "exposure", 0, "initial exposure in stops")
	flag.Float64Var(&Arguments.Gamma, "gamma", 2.2, "initial gamma correction value")
	flag.BoolVar(&Arguments.Reinhard, "reinhard", Arguments.Reinhard, "apply reinhard tonemapping")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [arguments] file.hdr\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || Arguments.Gamma <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if Arguments.Verbose {
		radiance.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	conf := radiance.Default
	conf.FlipVertically = true
	img, err := conf.DecodeFile(flag.Arg(0))
	check(err)

	runtime.LockOSThread()
	err = glfw.Init()
	check(err)
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	if Arguments.EnableCompatibilityProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	title := fmt.Sprintf("%s (%dx%d)", filepath.Base(flag.Arg(0)), img.Width, img.Height)
	ctx, err := glfw.CreateWindow(1600, 900, title, nil, nil)
	check(err)
	ctx.MakeContextCurrent()
	glfw.SwapInterval(1)

	err = initGL()
	check(err)

	imguiShader, err := NewPipeline("imgui", Res_ImguiVshSrc, Res_ImguiFshSrc)
	check(err)
	gui := NewImGui(ctx, imguiShader)
	defer gui.Destroy()

	imageShader, err := NewPipeline("image", Res_ImageVshSrc, Res_ImageFshSrc)
	check(err)
	defer imageShader.Destroy()

	texture, err := uploadImage(img)
	check(err)
	defer gl.DeleteTextures(1, &texture)

	// the quad is generated from gl_VertexID
	var emptyVao uint32
	gl.CreateVertexArrays(1, &emptyVao)
	defer gl.DeleteVertexArrays(1, &emptyVao)

	Input = NewInputManager(ctx)

	winWidth, winHeight := ctx.GetSize()
	view := NewView(img.Width, img.Height, winWidth, winHeight)
	settings := tonemap{
		Exposure: float32(Arguments.Exposure),
		Gamma:    float32(Arguments.Gamma),
		Reinhard: Arguments.Reinhard,
	}

	gl.ClearColor(0.1, 0.1, 0.1, 1.0)

	for !ctx.ShouldClose() {
		glfw.PollEvents()
		Input.Update(ctx)

		winWidth, winHeight = ctx.GetSize()
		view.Resize(winWidth, winHeight)

		if !gui.WantsMouse() {
			if Input.IsMouseDown(glfw.MouseButtonRight) {
				view.Pan(Input.CursorDelta())
			}
			if scroll := Input.ScrollDelta(); scroll != 0 {
				view.ZoomAt(Input.CursorPos(), scroll)
			}
		}
		if Input.IsKeyTap(glfw.KeyEscape) {
			ctx.SetShouldClose(true)
		}

		fbWidth, fbHeight := ctx.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		gl.Clear(gl.COLOR_BUFFER_BIT)

		gl.BindVertexArray(emptyVao)
		imageShader.Bind()
		imageShader.Get(gl.VERTEX_SHADER).SetUniform("u_view_mat", view.Matrix())
		imageShader.Get(gl.FRAGMENT_SHADER).SetUniform("u_exposure", settings.Exposure)
		imageShader.Get(gl.FRAGMENT_SHADER).SetUniform("u_gamma", settings.Gamma)
		imageShader.Get(gl.FRAGMENT_SHADER).SetUniform("u_reinhard", settings.Reinhard)
		gl.BindTextureUnit(0, texture)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

		im.NewFrame()
		drawPanel(img, view, Input.CursorPos(), &settings)
		gui.Draw(ctx)

		ctx.SwapBuffers()
	}
}

func drawPanel(img *libio.FloatImage, view *View, cursor mgl32.Vec2, settings *tonemap) {
	im.Begin("Image")
	defer im.End()

	im.Text(fmt.Sprintf("Size: %dx%d", img.Width, img.Height))
	im.Text(fmt.Sprintf("Zoom: %.2f", view.Zoom))

	if x, y, ok := view.PixelAt(cursor); ok {
		// rows are stored bottom first
		i := img.Index(x, img.Height-y-1)
		im.Text(fmt.Sprintf("Pixel %d,%d: %.4g %.4g %.4g", x, y, img.Pix[i], img.Pix[i+1], img.Pix[i+2]))
	} else {
		im.Text("Pixel: -")
	}

	im.SliderFloat("Exposure", &settings.Exposure, -10, 10)
	im.SliderFloat("Gamma", &settings.Gamma, 1, 3)
	im.Checkbox("Reinhard", &settings.Reinhard)

	if im.Button("Reset view") {
		view.Reset()
	}
}

// uploadImage creates an immutable RGB32F texture from a three channel image.
func uploadImage(img *libio.FloatImage) (uint32, error) {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if img.Width > int(maxSize) || img.Height > int(maxSize) {
		return 0, fmt.Errorf("image size %dx%d exceeds the texture limit of %d", img.Width, img.Height, maxSize)
	}

	var texture uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &texture)
	gl.TextureStorage2D(texture, 1, gl.RGB32F, int32(img.Width), int32(img.Height))
	gl.TextureSubImage2D(texture, 0, 0, 0, int32(img.Width), int32(img.Height), gl.RGB, gl.FLOAT, img.Pointer())
	gl.TextureParameteri(texture, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TextureParameteri(texture, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TextureParameteri(texture, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(texture, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texture, nil
}

func initGL() error {
	err := gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(uintptr(0xffff_ffff_ffff_ffff))
		}
		return addr
	})
	if err != nil {
		return err
	}

	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	groupStack := []string{"top"}
	gl.DebugMessageCallback(
		func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
			if gltype == gl.DEBUG_TYPE_PUSH_GROUP {
				groupStack = append(groupStack, message)
				return
			} else if gltype == gl.DEBUG_TYPE_POP_GROUP {
				groupStack = groupStack[:len(groupStack)-1]
				return
			}
			if severity == gl.DEBUG_SEVERITY_NOTIFICATION {
				return
			}

			var severityStr string
			switch severity {
			case gl.DEBUG_SEVERITY_HIGH:
				severityStr = "CRITICAL_ERROR"
			case gl.DEBUG_SEVERITY_MEDIUM:
				severityStr = "ERROR"
			case gl.DEBUG_SEVERITY_LOW:
				severityStr = "WARNING"
			}
			err := fmt.Sprintf("[%v] #%v: %v", severityStr, id, message)
			if severity == gl.DEBUG_SEVERITY_HIGH {
				stack := strings.Join(groupStack, " > ")
				log.Panicf("%v\ndebug stack: %v", err, stack)
			}
			log.Println(err)
		}, nil)

	return nil
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
