package format

// writer accumulates formatted output one line at a time.
type writer struct {
	opt    Options
	buf    []byte
	indent int
}

func newWriter(opt Options) *writer {
	return &writer{opt: opt}
}

// Bytes returns the accumulated output.
func (w *writer) Bytes() []byte {
	return w.buf
}

func (w *writer) writeIndent() {
	if w.opt.UseTabs {
		for range w.indent {
			w.buf = append(w.buf, '\t')
		}
		return
	}
	for range w.indent * w.opt.IndentWidth {
		w.buf = append(w.buf, ' ')
	}
}

// Line writes an indented line.
func (w *writer) Line(s string) {
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, '\n')
}

// Text appends s to the last line.
func (w *writer) Text(s string) {
	if n := len(w.buf); n > 0 && w.buf[n-1] == '\n' {
		w.buf = w.buf[:n-1]
		w.buf = append(w.buf, s...)
		w.buf = append(w.buf, '\n')
		return
	}
	w.buf = append(w.buf, s...)
}

// Raw writes a line without indentation.
func (w *writer) Raw(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, '\n')
}

// Blank writes an empty line unless the output is empty or already ends
// with one.
func (w *writer) Blank() {
	n := len(w.buf)
	if n == 0 || (n > 1 && w.buf[n-1] == '\n' && w.buf[n-2] == '\n') {
		return
	}
	w.buf = append(w.buf, '\n')
}
