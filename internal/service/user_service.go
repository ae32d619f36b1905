package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
	Timezone string `json:"timezone" form:"timezone"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UserService struct {
	users       UserRepository
	courses     CourseRepository
	enrollments EnrollmentRepository
	logger      *zap.Logger
}

func NewUserService(
	users UserRepository,
	courses CourseRepository,
	enrollments EnrollmentRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		logger:      logger,
	}
}

// Register creates a student and enrolls them in every course.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	user, err := s.CreateUser(ctx, input, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	for _, c := range courses {
		if _, err := s.enrollments.Create(ctx, user.ID, c.ID); err != nil {
			return nil, fmt.Errorf("enroll user: %w", err)
		}
	}

	s.logger.Info("Student registered",
		zap.Int64("user_id", user.ID),
		zap.Int("courses", len(courses)),
	)
	return user, nil
}

// CreateUser stores a user with the given role.
func (s *UserService) CreateUser(ctx context.Context, input RegisterInput, role model.Role) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Timezone:     model.LoadLocation(input.Timezone).String(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewFieldError("email", "email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
	)
	return user, nil
}

// Authenticate checks the credentials and returns the user.
func (s *UserService) Authenticate(ctx context.Context, input LoginInput) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Enroll adds the user to a course. It reports false when already enrolled.
func (s *UserService) Enroll(ctx context.Context, email, courseSlug string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return false, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	course, err := s.courses.GetBySlug(ctx, courseSlug)
	if err != nil {
		return false, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return false, fmt.Errorf("course %s: %w", courseSlug, ErrNotFound)
	}

	created, err := s.enrollments.Create(ctx, user.ID, course.ID)
	if err != nil {
		return false, fmt.Errorf("enroll user: %w", err)
	}
	if created {
		s.logger.Info("User enrolled", zap.Int64("user_id", user.ID), zap.String("course", course.Slug))
	}
	return created, nil
}

// ResetPassword replaces the password of the user with the given email.
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLength {
		return NewFieldError("password", fmt.Sprintf("password must be at least %d characters in length", MinPasswordLength))
	}
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Password reset", zap.Int64("user_id", user.ID))
	return nil
}

// SetTelegramChat links or, with a nil chat id, unlinks the user's Telegram chat.
func (s *UserService) SetTelegramChat(ctx context.Context, userID int64, chatID *int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.TelegramChatID = chatID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Telegram chat updated",
		zap.Int64("user_id", user.ID),
		zap.Bool("linked", chatID != nil),
	)
	return user, nil
}

// StudentSummary is a student with the courses they are enrolled in.
type StudentSummary struct {
	*model.User
	Courses []*model.Course `json:"courses"`
}

// ListStudents returns every student, newest first, for the instructor.
func (s *UserService) ListStudents(ctx context.Context, session *Session) ([]*StudentSummary, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}

	students, err := s.users.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	out := make([]*StudentSummary, 0, len(students))
	for i := len(students) - 1; i >= 0; i-- {
		courses, err := s.enrollments.ListCoursesByUser(ctx, students[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list student courses: %w", err)
		}
		if courses == nil {
			courses = []*model.Course{}
		}
		out = append(out, &StudentSummary{User: students[i], Courses: courses})
	}
	return out, nil
}
