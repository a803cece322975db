package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
	"github.com/organizae/users-service/internal/pkg/security"
)

const defaultCacheTTL = 60 * time.Second

var _ ports.UserService = (*UserService)(nil)

// UserService runs the user lifecycle: store writes followed by cache
// invalidation and event publication, and reads through the cache.
type UserService struct {
	repo     ports.UserRepository
	cache    ports.Cache
	events   ports.EventPublisher
	log      zerolog.Logger
	cacheTTL time.Duration
}

func NewUserService(
	repo ports.UserRepository,
	cache ports.Cache,
	events ports.EventPublisher,
	log zerolog.Logger,
	cacheTTL time.Duration,
) *UserService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &UserService{
		repo:     repo,
		cache:    cache,
		events:   events,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// Create registers a new account with the default role. The email is checked
// before anything is written.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Create")
	defer func() { finishSpan(span, err) }()

	if err = s.ensureEmailAvailable(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "create", domain.ChannelUserCreated, domain.NewUserEventPayload(*created), domain.CacheKeyAllUsers)
	s.log.Info().Int64("user_id", created.ID).Msg("user created")

	out := created.Public()
	return &out, nil
}

// FindAll returns every user, served from the collection snapshot when cached.
func (s *UserService) FindAll(ctx context.Context) (_ []domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.FindAll")
	defer func() { finishSpan(span, err) }()

	var users []domain.User
	if s.cache.Get(ctx, domain.CacheKeyAllUsers, &users) {
		metrics.CacheRequestsTotal.WithLabelValues("collection", "hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return users, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("collection", "miss").Inc()

	users, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}

	s.cache.Set(ctx, domain.CacheKeyAllUsers, users, s.cacheTTL)
	return users, nil
}

// FindOne returns a single user, served from its snapshot when cached.
func (s *UserService) FindOne(ctx context.Context, id int64) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.FindOne")
	defer func() { finishSpan(span, err) }()
	span.SetAttributes(attribute.Int64("user.id", id))

	key := domain.CacheKeyUser(id)

	var cached domain.User
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheRequestsTotal.WithLabelValues("single", "hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("single", "miss").Inc()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := user.Public()
	s.cache.Set(ctx, key, out, s.cacheTTL)
	return &out, nil
}

// Update merges the non-nil fields of in onto the stored record.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Update")
	defer func() { finishSpan(span, err) }()
	span.SetAttributes(attribute.Int64("user.id", id))

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		if err = s.ensureEmailAvailable(ctx, *in.Email, id); err != nil {
			return nil, err
		}
	}

	next := current.Public()
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.Email != nil {
		next.Email = *in.Email
	}
	if in.Password != nil {
		if next.Password, err = security.HashPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "update", domain.ChannelUserUpdated, domain.NewUserEventPayload(*updated),
		domain.CacheKeyUser(id), domain.CacheKeyAllUsers)
	s.log.Info().Int64("user_id", id).Msg("user updated")

	out := updated.Public()
	return &out, nil
}

// Remove deletes the user physically.
func (s *UserService) Remove(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "UserService.Remove")
	defer func() { finishSpan(span, err) }()
	span.SetAttributes(attribute.Int64("user.id", id))

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	s.afterWrite(ctx, "delete", domain.ChannelUserDeleted, domain.UserDeletedPayload{ID: id},
		domain.CacheKeyUser(id), domain.CacheKeyAllUsers)
	s.log.Info().Int64("user_id", id).Msg("user removed")
	return nil
}

// FindByEmail returns the full record including the password hash. It backs
// credential verification only and bypasses the cache.
func (s *UserService) FindByEmail(ctx context.Context, email string) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.FindByEmail")
	defer func() { finishSpan(span, err) }()

	return s.repo.FindByEmail(ctx, email)
}

// ensureEmailAvailable fails with ErrEmailInUse when email belongs to a user
// other than ownerID. Pass 0 for accounts that do not exist yet.
func (s *UserService) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	if email == "" {
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID != ownerID:
		return domain.ErrEmailInUse
	}
	return nil
}

// afterWrite invalidates keys in one batch and then publishes the event.
// Callers invoke it only once the store write has committed.
func (s *UserService) afterWrite(ctx context.Context, op, channel string, payload any, keys ...string) {
	s.cache.Delete(ctx, keys...)
	s.events.Publish(ctx, channel, payload)
	metrics.UserWritesTotal.WithLabelValues(op).Inc()
}
