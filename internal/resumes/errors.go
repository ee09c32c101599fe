package resumes

import "errors"

var (
	ErrNotFound  = errors.New("resume not found")
	ErrSlugTaken = errors.New("public slug already taken")
)
