package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

const (
	seedInstructorName     = "Instructor"
	seedInstructorEmail    = "instructor@courseapp.com"
	seedInstructorTimezone = "Asia/Kolkata"
)

// seed creates the default catalogue and the instructor. Existing rows are left as is.
func (cli *commandLine) seed(ctx context.Context, password string) error {
	existing, err := cli.repos.Users.GetByEmail(ctx, seedInstructorEmail)
	if err != nil {
		return fmt.Errorf("get instructor: %w", err)
	}
	if existing == nil {
		if password == "" {
			if password, err = cli.readPassword(); err != nil {
				return err
			}
		}
		instructor, err := cli.users.CreateUser(ctx, service.RegisterInput{
			Name:     seedInstructorName,
			Email:    seedInstructorEmail,
			Password: password,
			Timezone: seedInstructorTimezone,
		}, model.RoleInstructor)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Created instructor:", instructor.Email)
	}

	for _, c := range model.DefaultCourses {
		found, err := cli.repos.Courses.GetBySlug(ctx, c.Slug)
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}
		if found != nil {
			continue
		}
		course := c
		if err := cli.repos.Courses.Create(ctx, &course); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		fmt.Fprintln(cli.out, "Created course:", course.Title)
	}

	fmt.Fprintln(cli.out, "Seeding complete!")
	return nil
}
