package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type input struct {
	curr   inputState
	prev   inputState
	scroll float32
}

var Input *input

type inputState struct {
	cursorPos    mgl32.Vec2
	scroll       float32
	keys         []bool
	mousebuttons []bool
}

// NewInputManager polls keys and buttons every Update. Scroll events are
// accumulated from a callback chained in front of any existing one.
func NewInputManager(ctx *glfw.Window) *input {
	i := &input{
		curr: inputState{
			keys:         make([]bool, glfw.KeyLast+1),
			mousebuttons: make([]bool, glfw.MouseButtonLast+1),
		},
		prev: inputState{
			keys:         make([]bool, glfw.KeyLast+1),
			mousebuttons: make([]bool, glfw.MouseButtonLast+1),
		},
	}

	var previous glfw.ScrollCallback
	previous = ctx.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		i.scroll += float32(y)
		if previous != nil {
			previous(w, x, y)
		}
	})

	i.Update(ctx)
	i.prev.cursorPos = i.curr.cursorPos
	copy(i.prev.keys[:], i.curr.keys[:])
	copy(i.prev.mousebuttons[:], i.curr.mousebuttons[:])

	return i
}

func (i *input) CursorDelta() mgl32.Vec2 {
	return i.curr.cursorPos.Sub(i.prev.cursorPos)
}

func (i *input) CursorPos() mgl32.Vec2 {
	return i.curr.cursorPos
}

// ScrollDelta is the vertical scroll since the previous Update.
func (i *input) ScrollDelta() float32 {
	return i.curr.scroll
}

func (i *input) IsKeyTap(key glfw.Key) bool {
	return i.curr.keys[key] && !i.prev.keys[key]
}

func (i *input) IsMouseDown(button glfw.MouseButton) bool {
	return i.curr.mousebuttons[button]
}

func (i *input) Update(ctx *glfw.Window) {
	keys := i.prev.keys
	mousebuttons := i.prev.mousebuttons
	i.prev = i.curr
	cursorX, cursorY := ctx.GetCursorPos()

	for key := 32; key <= int(glfw.KeyLast); key++ {
		keys[key] = ctx.GetKey(glfw.Key(key)) != glfw.Release
	}

	for button := 0; button <= int(glfw.MouseButtonLast); button++ {
		mousebuttons[button] = ctx.GetMouseButton(glfw.MouseButton(button)) != glfw.Release
	}

	i.curr = inputState{
		cursorPos:    mgl32.Vec2{float32(cursorX), float32(cursorY)},
		scroll:       i.scroll,
		keys:         keys,
		mousebuttons: mousebuttons,
	}
	i.scroll = 0
}
