// Package glfwwindow opens a desktop window and feeds its events into a
// seascape.EventQueue.
package glfwwindow

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/seascape"
)

type Options struct {
	Width  int
	Height int
	Title  string
}

// Window is a GLFW window without a client API. It implements
// seascape.EventSource and must be used from the main thread.
type Window struct {
	win   *glfw.Window
	queue seascape.EventQueue
}

// Open initialises GLFW and creates the window. Zero options fall back to
// 1280x720 "Seascape".
func Open(opts Options) (*Window, error) {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Title == "" {
		opts.Title = "Seascape"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{win: win}
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.queue.PushWheel(yoff * seascape.WheelDeltaPerNotch)
	})
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		if width > 0 && height > 0 {
			w.queue.PushResize(width, height)
		}
	})
	win.SetContentScaleCallback(func(_ *glfw.Window, x, _ float32) {
		w.queue.PushDevicePixelRatio(float64(x))
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.queue.PushClose()
	})
	return w, nil
}

// PollEvents pumps the GLFW event loop and drains the buffered events into input.
func (w *Window) PollEvents(input *seascape.Input) {
	glfw.PollEvents()
	w.queue.PollEvents(input)
}

func (w *Window) DevicePixelRatio() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
