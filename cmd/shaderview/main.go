// shaderview draws a fullscreen triangle with the shaders found in a directory.
// Shaders are rebuilt when their files change, Tab cycles between them, R reloads
// all of them and Escape quits.
package main

import (
	"flag"
	"path/filepath"
	"time"

	"github.com/bloeys/gglm/gglm"
	"github.com/gen-engine/glshader/engine"
	"github.com/gen-engine/glshader/input"
	"github.com/gen-engine/glshader/logging"
	"github.com/gen-engine/glshader/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	shaderDir    = flag.String("dir", "./res/shaders", "directory to load *.glsl combined shaders from")
	shaderName   = flag.String("shader", "", "name of the shader to start with. Defaults to the first one")
	windowWidth  = flag.Int("width", 1280, "window width")
	windowHeight = flag.Int("height", 720, "window height")
	vsync        = flag.Bool("vsync", true, "enable vsync")
)

type viewer struct {
	win     *engine.Window
	lib     *shaders.Library
	watcher *shaders.Watcher

	// Drawing with no vertex buffers still needs a bound VAO on core profiles
	emptyVao uint32

	names      []string
	currIndex  int
	startTime  time.Time
	resolution gglm.Vec2
}

func main() {

	flag.Parse()

	err := engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}
	defer engine.Quit()

	win, err := engine.CreateOpenGLWindowCentered("Shader View", int32(*windowWidth), int32(*windowHeight), engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer win.Destroy()

	engine.SetVSync(*vsync)

	v := newViewer(win)
	defer v.Close()

	v.Run()
}

func newViewer(win *engine.Window) *viewer {

	v := &viewer{
		win:       win,
		lib:       shaders.NewLibrary(),
		startTime: time.Now(),
	}

	shaderPaths, err := filepath.Glob(filepath.Join(*shaderDir, "*.glsl"))
	if err != nil {
		logging.ErrLog.Fatalln("Bad shader directory. Err: ", err)
	}

	if len(shaderPaths) == 0 {
		logging.ErrLog.Fatalf("No *.glsl shaders found in '%s'\n", *shaderDir)
	}

	for _, p := range shaderPaths {
		v.lib.Load(p)
	}

	v.names = v.lib.Names()
	if *shaderName != "" {

		if !v.lib.Exists(*shaderName) {
			logging.ErrLog.Fatalf("Shader '%s' not found. Available shaders: %v\n", *shaderName, v.names)
		}

		for i, name := range v.names {
			if name == *shaderName {
				v.currIndex = i
			}
		}
	}

	v.watcher, err = shaders.NewWatcher(v.lib)
	if err != nil {
		logging.WarnLog.Printf("Shader hot reloading disabled. Err: %v\n", err)
	}

	gl.GenVertexArrays(1, &v.emptyVao)

	w, h := win.SDLWin.GLGetDrawableSize()
	v.resolution = gglm.Vec2{Data: [2]float32{float32(w), float32(h)}}
	win.EventCallbacks = append(win.EventCallbacks, v.handleEvent)

	logging.InfoLog.Printf("Loaded shaders: %v\n", v.names)
	return v
}

func (v *viewer) handleEvent(e sdl.Event) {

	we, ok := e.(*sdl.WindowEvent)
	if !ok || we.Event != sdl.WINDOWEVENT_SIZE_CHANGED {
		return
	}

	w, h := v.win.SDLWin.GLGetDrawableSize()
	v.resolution.Data = [2]float32{float32(w), float32(h)}
}

func (v *viewer) Run() {

	for {

		v.win.HandleInputs()
		if input.IsQuitClicked() || input.KeyClicked(sdl.K_ESCAPE) {
			return
		}

		v.Update()
		v.Render()
		v.win.SwapBuffers()
	}
}

func (v *viewer) Update() {

	if input.KeyClicked(sdl.K_TAB) {
		v.currIndex = (v.currIndex + 1) % len(v.names)
		logging.InfoLog.Printf("Showing shader '%s'\n", v.names[v.currIndex])
	}

	if input.KeyClicked(sdl.K_r) {
		if err := v.lib.ReloadAll(); err != nil {
			logging.ErrLog.Println("Reloading shaders failed. Err: ", err)
		}
	}

	if v.watcher == nil {
		return
	}

	if _, err := v.watcher.ReloadChanged(); err != nil {
		logging.ErrLog.Println("Hot reloading shaders failed. Err: ", err)
	}
}

func (v *viewer) Render() {

	gl.Clear(gl.COLOR_BUFFER_BIT)

	s := v.lib.Get(v.names[v.currIndex])
	if s == nil {
		return
	}

	s.SetUnifFloat32("time", float32(time.Since(v.startTime).Seconds()))
	s.SetUnifVec2("resolution", &v.resolution)

	s.Bind()
	gl.BindVertexArray(v.emptyVao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	s.UnBind()
}

func (v *viewer) Close() {

	if v.watcher != nil {
		v.watcher.Close()
	}

	gl.DeleteVertexArrays(1, &v.emptyVao)
	v.lib.Delete()
}
