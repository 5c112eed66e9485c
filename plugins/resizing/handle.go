package resizing

import (
	"fmt"
	"log/slog"

	headtable "github.com/domonda/go-headtable"
)

// Events a Handle listens to.
const (
	EventMouseDown = "mousedown"
	EventMouseMove = "mousemove"
	EventMouseUp   = "mouseup"
)

// ResizeObservable is implemented by container elements
// that report their size.
type ResizeObservable interface {
	// ObserveResize calls callback with every new size
	// until the returned function is called.
	ObserveResize(callback func(ResizeEntry)) (stop func())
}

// PointerEvent is a mouse event.
type PointerEvent struct {
	// Button is 0 for the main button.
	Button  int
	ClientX float64
}

// EventTarget dispatches pointer events to listeners.
type EventTarget interface {
	AddEventListener(event string, listener func(PointerEvent)) (remove func())
}

// FrameScheduler runs callbacks before the next render.
type FrameScheduler interface {
	RequestFrame(callback func()) (cancel func())
}

// HandleConfig is the environment of a Handle.
type HandleConfig struct {
	// Handle receives mousedown events.
	Handle EventTarget
	// Document receives mousemove and mouseup events during a drag.
	Document EventTarget
	// Body gets user-select:none during a drag if not nil.
	Body headtable.Element
	// Frames debounces drag updates to one per frame.
	Frames FrameScheduler
}

// Handle resizes a column while its handle is dragged.
type Handle struct {
	column *headtable.Column
	plugin *Plugin
	config HandleConfig

	resizing    bool
	lastX       float64
	cancelFrame func()
	removeDown  func()
	removeMove  func()
	removeUp    func()
}

// NewHandle starts listening for drags of the resize handle of column.
// Call Destroy to remove all listeners.
// Destroying the table or replacing its resizing plugin
// destroys the handle as well.
func NewHandle(column *headtable.Column, config HandleConfig) *Handle {
	p, ok := column.Table().PluginOf(Name)
	if !ok {
		panic(fmt.Errorf("resize handle of column %q needs the %s plugin", column.Key(), Name))
	}
	h := &Handle{column: column, plugin: p.(*Plugin), config: config}
	h.plugin.handles[h] = struct{}{}
	h.removeDown = config.Handle.AddEventListener(EventMouseDown, h.dragStart)
	return h
}

// meta returns the column meta of the current plugin generation.
func (h *Handle) meta() *ColumnMeta {
	return ColumnMetaOf(h.column)
}

func (h *Handle) IsResizing() bool {
	return h.resizing
}

func (h *Handle) dragStart(event PointerEvent) {
	if event.Button != 0 || h.resizing {
		return
	}
	h.resizing = true
	h.meta().isResizing = true
	h.lastX = event.ClientX
	h.removeMove = h.config.Document.AddEventListener(EventMouseMove, h.drag)
	h.removeUp = h.config.Document.AddEventListener(EventMouseUp, h.dragStop)
	if h.config.Body != nil {
		h.config.Body.SetStyle("user-select", "none")
	}
}

func (h *Handle) drag(event PointerEvent) {
	if h.cancelFrame != nil {
		h.cancelFrame()
	}
	h.cancelFrame = h.config.Frames.RequestFrame(func() {
		h.cancelFrame = nil
		if !h.resizing {
			return
		}
		delta := event.ClientX - h.lastX
		h.lastX = event.ClientX
		meta := h.meta()
		meta.isResizing = true
		meta.Resize(delta)
	})
}

func (h *Handle) dragStop(PointerEvent) {
	h.stop()
	table := h.column.Table()
	if err := TableMetaOf(table).SaveWidths(); err != nil {
		table.Logger().Warn("Failed to save column widths", slog.String("plugin", Name), slog.Any("err", err))
	}
}

func (h *Handle) stop() {
	if h.cancelFrame != nil {
		h.cancelFrame()
		h.cancelFrame = nil
	}
	if !h.resizing {
		return
	}
	h.resizing = false
	if table := h.column.Table(); table.HasPlugin(Name) {
		h.meta().isResizing = false
	}
	if h.removeMove != nil {
		h.removeMove()
		h.removeMove = nil
	}
	if h.removeUp != nil {
		h.removeUp()
		h.removeUp = nil
	}
	if h.config.Body != nil {
		h.config.Body.RemoveStyle("user-select")
	}
}

// Destroy stops a drag in progress without saving
// and removes all listeners.
func (h *Handle) Destroy() {
	h.stop()
	if h.removeDown != nil {
		h.removeDown()
		h.removeDown = nil
	}
	delete(h.plugin.handles, h)
}

// FrameQueue is a FrameScheduler for environments
// without a render loop. Callbacks run on Flush.
type FrameQueue struct {
	nextID int
	queue  []queuedFrame
}

type queuedFrame struct {
	id       int
	callback func()
}

var _ FrameScheduler = new(FrameQueue)

func (q *FrameQueue) RequestFrame(callback func()) (cancel func()) {
	id := q.nextID
	q.nextID++
	q.queue = append(q.queue, queuedFrame{id: id, callback: callback})
	return func() {
		for i, frame := range q.queue {
			if frame.id == id {
				q.queue = append(q.queue[:i], q.queue[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of pending callbacks.
func (q *FrameQueue) Len() int {
	return len(q.queue)
}

// Flush runs all pending callbacks in request order and returns their number.
// Callbacks requested during Flush run with the next Flush.
func (q *FrameQueue) Flush() int {
	queue := q.queue
	q.queue = nil
	for _, frame := range queue {
		frame.callback()
	}
	return len(queue)
}
