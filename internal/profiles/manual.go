package profiles

import (
	"strings"

	"resume-tailor/internal/resumedoc"
)

// BuildManualDocument structures hand-entered blocks. Experience and education entries are
// separated by blank lines; the first line of an experience block is the title and the rest
// are bullets. Skills are comma separated.
func BuildManualDocument(in ManualInput, email string) resumedoc.Document {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name, _, _ = strings.Cut(strings.TrimSpace(email), "@")
	}
	if name == "" {
		name = "My Resume"
	}
	doc := resumedoc.Document{
		Name:     name,
		Headline: strings.TrimSpace(in.Headline),
		Email:    strings.TrimSpace(email),
		Summary:  strings.TrimSpace(in.Summary),
	}
	for _, block := range splitBlocks(in.Experience) {
		exp := resumedoc.Experience{Title: block[0]}
		for _, line := range block[1:] {
			exp.Bullets = append(exp.Bullets, strings.TrimLeft(line, "-•* \t"))
		}
		doc.Experience = append(doc.Experience, exp)
	}
	for _, block := range splitBlocks(in.Education) {
		ed := resumedoc.Education{Degree: block[0]}
		if len(block) > 1 {
			ed.School = block[1]
		}
		if len(block) > 2 {
			ed.Year = block[2]
		}
		doc.Education = append(doc.Education, ed)
	}
	doc.Skills = strings.Split(in.Skills, ",")
	doc.Normalize()
	return doc
}

// splitBlocks splits text on blank lines into non-empty blocks of trimmed, non-empty lines.
func splitBlocks(text string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}
