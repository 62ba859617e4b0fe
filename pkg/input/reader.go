package input

import (
	"bufio"
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
)

// DefaultMaxLineLen is the longest line a Reader keeps. Longer lines are
// cut and still queued, so they are rejected as oversized downstream.
const DefaultMaxLineLen = 4096

// Reader feeds lines read from an io.Reader into a Queue.
type Reader struct {
	In         io.Reader
	Queue      *Queue
	MaxLineLen int
}

// NewReader creates a Reader with its own Queue.
func NewReader(in io.Reader) *Reader {
	return &Reader{In: in, Queue: NewQueue(0), MaxLineLen: DefaultMaxLineLen}
}

// TryLine implements LineSource.
func (r *Reader) TryLine() (string, bool) {
	return r.Queue.TryLine()
}

// Run implements Runnable. It returns nil at the end of input.
func (r *Reader) Run(ctx context.Context) error {
	maxLen := r.MaxLineLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLen
	}
	in := bufio.NewReader(r.In)
	var line []byte
	size := 0
	for {
		chunk, more, err := in.ReadLine()
		if err == io.EOF {
			glog.V(1).Info("end of input")
			return nil
		}
		if err != nil {
			return err
		}
		size += len(chunk)
		if room := maxLen - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}
		if more {
			continue
		}
		if size > maxLen {
			glog.Warningf("input line of %d bytes cut to %d", size, maxLen)
		}
		if err := r.Queue.Push(ctx, string(line)); err != nil {
			return err
		}
		line, size = line[:0], 0
	}
}

// AddToLoop implements LoopAdder.
func (r *Reader) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}
