package logging

import (
	"bytes"
	"io"
	"net/http"
)

// replayBody hands out the bytes already read from the transport before
// falling through to the original stream.
type replayBody struct {
	buffered *bytes.Reader
	original io.ReadCloser
}

func (b *replayBody) Read(p []byte) (int, error) {
	if b.buffered.Len() > 0 {
		return b.buffered.Read(p)
	}
	return b.original.Read(p)
}

func (b *replayBody) Close() error {
	return b.original.Close()
}

// bufferRequestBody reads the request body once and replaces it with a
// replay reader so the handler still sees every byte.
func bufferRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(r.Body)
	r.Body = &replayBody{
		buffered: bytes.NewReader(data),
		original: r.Body,
	}
	return data, err
}

// bufferedWriter holds the whole response in memory until the handler
// returns. Headers go straight to the real writer's header map.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter(header http.Header) *bufferedWriter {
	return &bufferedWriter{header: header}
}

func (w *bufferedWriter) Header() http.Header {
	return w.header
}

func (w *bufferedWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

// Flush is a no-op; nothing reaches the client before the handler is done.
func (w *bufferedWriter) Flush() {}

func (w *bufferedWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *bufferedWriter) written() bool {
	return w.status != 0 || w.body.Len() > 0
}

// flushTo replays the buffered status and body onto dst.
func (w *bufferedWriter) flushTo(dst http.ResponseWriter) error {
	if !w.written() {
		return nil
	}
	dst.WriteHeader(w.statusCode())
	if w.body.Len() == 0 {
		return nil
	}
	_, err := dst.Write(w.body.Bytes())
	return err
}
