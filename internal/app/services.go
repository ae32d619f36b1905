package app

import (
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/config"
	"github.com/Freeeeeet/course_app/internal/controller/httpapi"
	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/service"
)

// NewEmailChannel picks the email channel of the configured provider.
func NewEmailChannel(cfg *config.Config, logger *zap.Logger) delivery.Channel {
	switch cfg.EmailProvider {
	case config.EmailProviderSendgrid:
		return delivery.NewSendgridChannel(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFrom)
	case config.EmailProviderConsole:
		return delivery.NewConsoleChannel(cfg.EmailFrom, logger.Named("email"))
	default:
		return delivery.NewNoopChannel(logger.Named("email"))
	}
}

// NewServices wires the services over the repositories and the delivery dispatcher.
func NewServices(repos service.Repositories, dispatcher service.Dispatcher, cfg *config.Config, logger *zap.Logger) httpapi.Services {
	notifications := service.NewNotificationService(repos.Enrollments, repos.Notifications, dispatcher, logger.Named("notifications"))
	lessons := service.NewLessonService(repos.Lessons, repos.Courses, notifications, logger.Named("lessons"))
	resources := service.NewResourceService(repos.Resources, repos.Lessons, repos.Courses, notifications, logger.Named("resources"))

	return httpapi.Services{
		Users:         service.NewUserService(repos.Users, repos.Courses, repos.Enrollments, logger.Named("users")),
		Courses:       service.NewCourseService(repos, lessons, resources, notifications, logger.Named("courses")),
		Lessons:       lessons,
		Resources:     resources,
		Notifications: notifications,
		ExtraClasses:  service.NewExtraClassService(repos, notifications, cfg.InstructorEmail, logger.Named("extra_class")),
	}
}
