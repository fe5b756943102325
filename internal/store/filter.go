package store

import "github.com/google/uuid"

// CardFilter narrows catalog queries by textbook part, lesson number or
// folder membership. Nil fields are not applied. The zero value matches the
// whole catalog.
type CardFilter struct {
	TextbookPart *int
	LessonNumber *int
	FolderID     *uuid.UUID
}

// Empty reports whether the filter applies no narrowing at all.
func (f CardFilter) Empty() bool {
	return f.TextbookPart == nil && f.LessonNumber == nil && f.FolderID == nil
}
