package bookmarks

import "strings"

// Annotation renders the bookmark's annotation block: a summary paragraph,
// a document note paragraph, then one blockquote paragraph per highlight
// followed by its note, hashtag line, and source link. Every entry is
// collapsed onto a single line and entries are blank-line separated, so
// the block survives line-level merging with a previously stored block
// without splitting or duplicating entries.
func (b *Bookmark) Annotation() string {
	var entries []string
	add := func(entry string) {
		if entry != "" {
			entries = append(entries, entry)
		}
	}

	add(oneLine(b.Summary))
	add(oneLine(b.DocNote))
	for _, h := range b.Highlights {
		if quote := oneLine(h.Text); quote != "" {
			add("> " + quote)
		}
		add(oneLine(h.Note))
		add(Hashtags(h.Tags))
		if link := strings.TrimSpace(h.SourceLink); link != "" {
			add("[source](" + link + ")")
		}
	}
	return strings.Join(entries, "\n\n")
}

// Hashtags formats tag names as a single space-separated #tag line.
// Whitespace inside a tag becomes a hyphen so each tag stays one token,
// and a leading # on the source tag is not doubled.
func Hashtags(tags []string) string {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		out = append(out, "#"+strings.Join(strings.Fields(tag), "-"))
	}
	return strings.Join(out, " ")
}

// oneLine collapses all interior whitespace, newlines included, to single
// spaces. Annotation entries must stay on one line to merge cleanly.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
