package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

const defaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"

// WelcomeJob is the payload published to the notification queue when a user
// record is first created.
type WelcomeJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UpdateUserInput carries the patchable profile fields; nil means unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Name      *string
	Bio       *string
}

func (in UpdateUserInput) Empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Name == nil && in.Bio == nil
}

type UserService struct {
	log          *slog.Logger
	users        domain.UserRepository
	roster       *RosterService
	queue        contracts.NotificationQueue
	welcomeTopic string
}

func NewUserService(
	log *slog.Logger,
	users domain.UserRepository,
	roster *RosterService,
	queue contracts.NotificationQueue,
	welcomeTopic string,
) *UserService {
	return &UserService{
		log:          log,
		users:        users,
		roster:       roster,
		queue:        queue,
		welcomeTopic: welcomeTopic,
	}
}

// ResolveUser maps the verified auth identity to the durable user row. Every
// request path resolves before acting; routing never works on auth ids.
func (s *UserService) ResolveUser(ctx context.Context, ident *domain.AuthIdentity) (*domain.User, error) {
	return s.users.GetUserByAuthID(ctx, ident.ID)
}

// GetOrCreateAccount serves the account view, creating the durable user on
// first contact. A newly created user gets a welcome notification queued;
// queue failure is logged and dropped, account creation already succeeded.
// Reports whether the snapshot came from the cache.
func (s *UserService) GetOrCreateAccount(ctx context.Context, ident *domain.AuthIdentity) (*ProfileSnapshot, bool, error) {
	user, err := s.users.GetUserByAuthID(ctx, ident.ID)
	if err == domain.ErrUserNotFound {
		user, err = s.createUser(ctx, ident)
	}
	if err != nil {
		return nil, false, err
	}
	return s.roster.GetProfile(ctx, user)
}

func (s *UserService) createUser(ctx context.Context, ident *domain.AuthIdentity) (*domain.User, error) {
	name := strings.TrimSpace(ident.FirstName + " " + ident.LastName)
	if name == "" {
		name = "Anonymous User"
	}
	profileURL := ident.ProfileURL
	if profileURL == "" {
		profileURL = defaultAvatarURL
	}
	user, err := s.users.CreateUser(ctx, &domain.User{
		ID:         uuid.New(),
		AuthID:     ident.ID,
		Email:      ident.Email,
		Name:       name,
		FirstName:  ident.FirstName,
		LastName:   ident.LastName,
		ProfileURL: profileURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	job, _ := json.Marshal(WelcomeJob{Email: user.Email, Name: user.FirstName})
	if err := s.queue.Publish(ctx, s.welcomeTopic, job); err != nil {
		s.log.ErrorContext(ctx, "user - welcome job publish failed", "user_id", user.ID, "error", err)
	}
	s.log.InfoContext(ctx, "user - account created", "user_id", user.ID, "auth_id", ident.ID)
	return user, nil
}

// UpdateProfile patches the user's profile, bumps last_active and drops the
// cached profile so the next read rebuilds it.
func (s *UserService) UpdateProfile(ctx context.Context, ident *domain.AuthIdentity, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetUserByAuthID(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Name != nil {
		user.Name = *in.Name
	} else if in.FirstName != nil || in.LastName != nil {
		user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	updated, err := s.users.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.roster.InvalidateProfile(ctx, updated.ID); err != nil {
		s.log.ErrorContext(ctx, "user - profile cache invalidation failed", "user_id", updated.ID, "error", err)
	}
	return updated, nil
}
