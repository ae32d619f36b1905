package model

import "time"

// Course is seeded once and never edited through the API.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Link returns the course page path used by notifications and calendar events.
func (c *Course) Link() string {
	return "/courses/" + c.Slug
}

// CourseSummary is a course with its lesson and resource counters.
type CourseSummary struct {
	Course
	LessonCount   int `json:"lessonCount"`
	ResourceCount int `json:"resourceCount"`
}

type Enrollment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CourseID  int64     `json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultCourses is the catalogue created by the seed command.
var DefaultCourses = []Course{
	{
		Title:       "Frontend Development",
		Description: "Modern frontend with React, Next.js, and TypeScript",
		Slug:        "frontend",
		Color:       "#3B82F6",
	},
	{
		Title:       "Backend Development",
		Description: "Server-side development with Node.js, APIs, and databases",
		Slug:        "backend",
		Color:       "#10B981",
	},
	{
		Title:       "AI Agent Development",
		Description: "Building intelligent AI agents and LLM applications",
		Slug:        "ai-agent",
		Color:       "#8B5CF6",
	},
	{
		Title:       "Deployment & DevOps",
		Description: "CI/CD, Docker, cloud deployment, and infrastructure",
		Slug:        "deployment",
		Color:       "#F59E0B",
	},
}
