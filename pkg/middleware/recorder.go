package middleware

import "net/http"

// Recorder wraps a ResponseWriter and remembers the status code written.
type Recorder struct {
	http.ResponseWriter
	status  int
	written bool
}

// NewRecorder wraps w. The status defaults to 200 until WriteHeader is called.
func NewRecorder(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *Recorder) WriteHeader(status int) {
	if !r.written {
		r.status = status
		r.written = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

// Status returns the recorded status code.
func (r *Recorder) Status() int {
	return r.status
}

// Written reports whether a header or body has been sent.
func (r *Recorder) Written() bool {
	return r.written
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *Recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
