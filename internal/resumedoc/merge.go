package resumedoc

// FillMissing copies top-level sections from base into d for every key absent from the
// model output, so a rewrite can rephrase content but never drop a section.
func (d *Document) FillMissing(base Document, present map[string]bool) {
	if !present["name"] {
		d.Name = base.Name
	}
	if !present["headline"] {
		d.Headline = base.Headline
	}
	if !present["email"] {
		d.Email = base.Email
	}
	if !present["phone"] {
		d.Phone = base.Phone
	}
	if !present["location"] {
		d.Location = base.Location
	}
	if !present["linkedin"] {
		d.LinkedIn = base.LinkedIn
	}
	if !present["summary"] {
		d.Summary = base.Summary
	}
	if !present["experience"] {
		d.Experience = append([]Experience(nil), base.Experience...)
	}
	if !present["education"] {
		d.Education = append([]Education(nil), base.Education...)
	}
	if !present["skills"] {
		d.Skills = append([]string(nil), base.Skills...)
	}
	d.Normalize()
}
