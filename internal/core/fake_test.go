package core

import (
	"sync"

	"github.com/dkeye/Lingo/internal/domain"
)

type fakeSignal struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
	full   bool
}

func (f *fakeSignal) TrySend(fr Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrConnClosed
	}
	if f.full {
		return ErrBackpressure
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSignal) received() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame(nil), f.frames...)
}

func newSession(sid string) (MemberSession, *fakeSignal) {
	sig := &fakeSignal{}
	return NewMemberSession(SessionID(sid), domain.NewMember("ct-"+sid), sig), sig
}
