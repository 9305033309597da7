package keepsake

import "strings"

// Wrap greedily breaks text into lines no wider than maxWidth. Each "\n" starts a new
// paragraph; the result holds one slice of lines per paragraph. A blank paragraph yields no
// lines. Words wider than maxWidth on their own are broken between runes.
func Wrap(m Measurer, text string, maxWidth float64) [][]string {
	paras := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([][]string, 0, len(paras))

	for _, p := range paras {
		var lines []string
		line := ""
		for _, w := range strings.Fields(p) {
			test := w
			if line != "" {
				test = line + " " + w
			}
			if m.Measure(test) <= maxWidth {
				line = test
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.Measure(w) <= maxWidth {
				line = w
				continue
			}
			chunks := breakWord(m, w, maxWidth)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		if line != "" {
			lines = append(lines, line)
		}
		out = append(out, lines)
	}
	return out
}

// breakWord splits a word into chunks that each fit maxWidth. A chunk always holds at least
// one rune, so a glyph wider than the page still makes progress.
func breakWord(m Measurer, w string, maxWidth float64) []string {
	var chunks []string
	cur := ""
	for _, r := range w {
		test := cur + string(r)
		if cur != "" && m.Measure(test) > maxWidth {
			chunks = append(chunks, cur)
			cur = string(r)
			continue
		}
		cur = test
	}
	return append(chunks, cur)
}
