package highlight

import "strings"

// Merge combines a freshly generated annotation block with the block
// already stored for the same document. The new block's lines are kept
// verbatim in order; every line of the existing block that is not
// byte-identical to a line already retained is appended after them, also
// in order. Blank lines in either input are dropped and the result is
// joined paragraph-style, one blank line between entries, so merging is
// idempotent: running the same block through twice changes nothing.
//
// Comparison is exact. Lines differing only in case or whitespace are
// kept as distinct entries rather than guessed to be the same note.
func Merge(next, existing string) string {
	lines := splitNonBlank(next)
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		seen[line] = struct{}{}
	}
	for _, line := range splitNonBlank(existing) {
		if _, dup := seen[line]; dup {
			continue
		}
		lines = append(lines, line)
		seen[line] = struct{}{}
	}
	return strings.Join(lines, "\n\n")
}

func splitNonBlank(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
