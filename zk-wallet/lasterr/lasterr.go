// Package lasterr holds the most recent failure of a call sequence so that a
// caller which only sees sentinel results can fetch the message afterwards.
package lasterr

// Slot stores the last error. The zero value is an empty slot. A Slot is
// owned by one goroutine and is not safe for concurrent use.
type Slot struct {
	err error
	msg []byte
}

// Set overwrites the slot with err. A nil err leaves the slot untouched.
func (s *Slot) Set(err error) {
	if err == nil {
		return
	}
	s.err = err
	s.msg = []byte(err.Error())
}

// Err returns the pending error, or nil.
func (s *Slot) Err() error {
	return s.err
}

// Len returns the byte length of the pending message, 0 when there is none.
func (s *Slot) Len() int {
	return len(s.msg)
}

// CopyInto copies the pending message into buf and returns the number of
// bytes written, or -1 when buf is shorter than Len.
func (s *Slot) CopyInto(buf []byte) int {
	if len(buf) < len(s.msg) {
		return -1
	}
	return copy(buf, s.msg)
}
