// Package fyneui adapts fyne widgets and dialogs to the screen, prompt and
// library picker interfaces.
package fyneui

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
)

// Thread posts functions to the fyne event loop
type Thread struct {
	stopped atomic.Bool
	post    func(func())
}

// NewThread creates a Thread backed by fyne.Do
func NewThread() *Thread {
	return &Thread{post: fyne.Do}
}

// Do runs fn on the fyne main goroutine. After Stop it drops fn.
func (t *Thread) Do(fn func()) {
	if t.stopped.Load() {
		return
	}
	if t.post == nil {
		fyne.Do(fn)
		return
	}
	t.post(fn)
}

// Stop drops every later Do. Call it once the event loop has ended.
func (t *Thread) Stop() {
	t.stopped.Store(true)
}
