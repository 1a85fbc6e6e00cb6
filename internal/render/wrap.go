package render

import "strings"

// Wrap greedily packs the words of text into lines no wider than maxWidth
// as reported by m at the given size. A word that does not fit on an empty
// line is placed on its own line. Words are never split, dropped or reordered.
func Wrap(text string, maxWidth, size float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		lines   []string
		current = words[0]
	)
	for _, w := range words[1:] {
		candidate := current + " " + w
		if m.Measure(candidate, size) > maxWidth {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
