package client

import (
	"sync"
)

// slot holds the single terminal outcome of a call. The first settle wins;
// later ones are dropped and report false.
type slot struct {
	once sync.Once
	done chan struct{}
	resp *Response
	err  *Error
}

func newSlot() *slot {
	return &slot{done: make(chan struct{})}
}

func (s *slot) settle(resp *Response, err *Error) bool {
	settled := false
	s.once.Do(func() {
		s.resp, s.err = resp, err
		settled = true
		close(s.done)
	})
	return settled
}

// wait parks until settle has been called.
func (s *slot) wait() (*Response, *Error) {
	<-s.done
	return s.resp, s.err
}
