package mdstream

import "github.com/mattn/go-runewidth"

// wrapLines soft-wraps each rendered line to width display columns,
// breaking at space runs where possible and hard-splitting any single
// token wider than the whole line.
func wrapLines(lines []Line, width int) []Line {
	var out []Line
	for _, l := range lines {
		out = append(out, wrapLine(l, width)...)
	}
	return out
}

func wrapLine(line Line, width int) []Line {
	if width <= 0 {
		return []Line{line}
	}
	toks := tokensFromLine(line)
	if len(toks) == 0 {
		return []Line{line}
	}

	var out []Line
	var cur []Span
	curWidth := 0

	flush := func() {
		for len(cur) > 0 && isSpaceOnly(cur[len(cur)-1].Content) {
			cur = cur[:len(cur)-1]
		}
		out = append(out, Line{Spans: cur})
		cur = nil
		curWidth = 0
	}

	for _, tok := range toks {
		w := runewidth.StringWidth(tok.Content)
		if w > width {
			runes := []rune(tok.Content)
			for len(runes) > 0 {
				take, tw := 0, 0
				for take < len(runes) {
					rw := runewidth.RuneWidth(runes[take])
					if tw+rw > width {
						break
					}
					tw += rw
					take++
				}
				if take == 0 {
					take = 1
				}
				if curWidth > 0 {
					flush()
				}
				chunk := string(runes[:take])
				cur = append(cur, Span{Content: chunk, Fg: tok.Fg, Mod: tok.Mod})
				curWidth = runewidth.StringWidth(chunk)
				flush()
				runes = runes[take:]
			}
			continue
		}
		if curWidth+w > width && curWidth > 0 {
			flush()
		}
		cur = append(cur, tok)
		curWidth += w
	}
	if len(cur) > 0 || len(out) == 0 {
		flush()
	}
	return out
}

func isSpaceOnly(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r != ' ' {
			return false
		}
	}
	return true
}

// tokensFromLine splits each span's content into runs of space / non-space
// characters so word-wrap can break only at boundaries, while each token
// keeps its originating span's style.
func tokensFromLine(line Line) []Span {
	var toks []Span
	for _, sp := range line.Spans {
		runes := []rune(sp.Content)
		start := 0
		for i := 0; i <= len(runes); i++ {
			atEnd := i == len(runes)
			boundary := atEnd
			if !atEnd && i > start {
				boundary = (runes[i] == ' ') != (runes[start] == ' ')
			}
			if boundary {
				if i > start {
					toks = append(toks, Span{Content: string(runes[start:i]), Fg: sp.Fg, Mod: sp.Mod})
				}
				start = i
			}
		}
	}
	return toks
}
