package driver

import (
	"bufio"
	"fmt"
	"io"
)

// queryCursorPosition issues a DSR (CSI 6n) query on out and parses the
// "CSI row ; col R" reply directly off in. Only safe to call before the
// input decoder goroutine starts reading from the same descriptor; once
// the event loop is running, cursor-position queries must go through the
// decoder's cursor-reply channel instead (Decoder.CursorReplies).
func queryCursorPosition(out io.Writer, in io.Reader) (Position, error) {
	if _, err := io.WriteString(out, "\x1b[6n"); err != nil {
		return Position{}, err
	}
	return readCursorPositionReply(bufio.NewReader(in))
}

// readCursorPositionReply consumes bytes until a complete "ESC [ row ; col
// R" sequence has been read, parsing row/col into a zero-based Position.
func readCursorPositionReply(r *bufio.Reader) (Position, error) {
	if b, err := r.ReadByte(); err != nil || b != 0x1b {
		if err != nil {
			return Position{}, err
		}
		return Position{}, fmt.Errorf("driver: cursor position reply missing ESC")
	}
	if b, err := r.ReadByte(); err != nil || b != '[' {
		if err != nil {
			return Position{}, err
		}
		return Position{}, fmt.Errorf("driver: cursor position reply missing '['")
	}
	var row, col int
	row, err := readDecimal(r)
	if err != nil {
		return Position{}, err
	}
	if b, err := r.ReadByte(); err != nil || b != ';' {
		if err != nil {
			return Position{}, err
		}
		return Position{}, fmt.Errorf("driver: cursor position reply missing ';'")
	}
	col, err = readDecimal(r)
	if err != nil {
		return Position{}, err
	}
	if b, err := r.ReadByte(); err != nil || b != 'R' {
		if err != nil {
			return Position{}, err
		}
		return Position{}, fmt.Errorf("driver: cursor position reply missing 'R'")
	}
	return Position{X: col - 1, Y: row - 1}, nil
}

func readDecimal(r *bufio.Reader) (int, error) {
	n := 0
	any := false
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b < '0' || b > '9' {
			if !any {
				return 0, fmt.Errorf("driver: expected digit in cursor position reply")
			}
			if err := r.UnreadByte(); err != nil {
				return 0, err
			}
			return n, nil
		}
		any = true
		n = n*10 + int(b-'0')
	}
}
