package model

import (
	"fmt"
	"time"
)

type ResourceType string

const (
	ResourceTypePDF   ResourceType = "PDF"
	ResourceTypeLink  ResourceType = "LINK"
	ResourceTypeVideo ResourceType = "VIDEO"
	ResourceTypeNotes ResourceType = "NOTES"
)

// ParseResourceType converts an untyped value into a ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	switch ResourceType(s) {
	case ResourceTypePDF, ResourceTypeLink, ResourceTypeVideo, ResourceTypeNotes:
		return ResourceType(s), nil
	}
	return "", fmt.Errorf("unknown resource type %q", s)
}

// Resource belongs to a course; LessonID nil means a general course resource.
type Resource struct {
	ID        int64        `json:"id"`
	CourseID  int64        `json:"courseId"`
	LessonID  *int64       `json:"lessonId"`
	Title     string       `json:"title"`
	Type      ResourceType `json:"type"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"createdAt"`
}

// IsGeneral reports whether the resource is not attached to any lesson.
func (r *Resource) IsGeneral() bool {
	return r.LessonID == nil
}

// ResourceWithCourse is a resource joined with its course, used on the dashboard.
type ResourceWithCourse struct {
	Resource
	Course *Course `json:"course"`
}
