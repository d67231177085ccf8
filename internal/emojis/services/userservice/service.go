package userservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/domain/validation"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/tokenrepo"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/userrepo"
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/Leopold1975/emoji_best/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users      Repository
	tokens     TokenRepository
	tokenCache TokenCache
	emojis     EmojiLister
	cleaner    EmojiCleaner
	validator  *validation.Validator
	cfg        config.Auth
	lg         logger.Logger
	now        func() time.Time
}

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByEmail(context.Context, string) (models.User, error)
	GetUserByID(context.Context, int64) (models.User, error)
	UpdateUser(context.Context, models.User) error
	DeleteUser(context.Context, int64) error
}

type TokenRepository interface {
	CreateToken(context.Context, models.AccessToken) error
	GetToken(context.Context, string) (models.AccessToken, error)
	DeleteToken(context.Context, string) error
	DeleteExpired(context.Context, time.Time) (int64, error)
}

type TokenCache interface {
	SetToken(context.Context, models.AccessToken) error
	GetUserID(context.Context, string) (int64, error)
	DeleteToken(context.Context, string) error
}

type EmojiLister interface {
	ListByUser(context.Context, int64) ([]models.Emoji, error)
}

// EmojiCleaner drops what is kept outside the database for emojis removed along with their owner.
type EmojiCleaner interface {
	Forget(context.Context, []models.Emoji)
}

func New(users Repository, tokens TokenRepository, tokenCache TokenCache, emojis EmojiLister,
	cleaner EmojiCleaner, cfg config.Auth, lg logger.Logger,
) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		tokenCache: tokenCache,
		emojis:     emojis,
		cleaner:    cleaner,
		validator:  validation.New(),
		cfg:        cfg,
		lg:         lg,
		now:        time.Now,
	}
}

// SignUp creates a user and issues the first access token for it.
func (us *UserService) SignUp(ctx context.Context, req CreateUserRequest) (models.User, models.AccessToken, error) {
	if err := us.validator.Struct(req); err != nil {
		return models.User{}, models.AccessToken{}, err //nolint:wrapcheck
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, models.AccessToken{}, fmt.Errorf("generate from password error: %w", err)
	}

	u, err := us.users.CreateUser(ctx, models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			verr := validation.Errors{}
			verr.Add("email", validation.Taken, req.Email)

			return models.User{}, models.AccessToken{}, verr
		}

		return models.User{}, models.AccessToken{}, fmt.Errorf("create user error: %w", err)
	}

	t, err := us.issueToken(ctx, u.ID)
	if err != nil {
		return models.User{}, models.AccessToken{}, err
	}

	return u, t, nil
}

func (us *UserService) SignIn(ctx context.Context, req SignInRequest) (models.User, models.AccessToken, error) {
	u, err := us.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, models.AccessToken{}, models.ErrInvalidCredentials
		}

		return models.User{}, models.AccessToken{}, fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return models.User{}, models.AccessToken{}, models.ErrInvalidCredentials
	}

	t, err := us.issueToken(ctx, u.ID)
	if err != nil {
		return models.User{}, models.AccessToken{}, err
	}

	return u, t, nil
}

func (us *UserService) SignOut(ctx context.Context, token string) error {
	if err := us.tokenCache.DeleteToken(ctx, token); err != nil {
		us.lg.Errorf("delete token cache error: %s", err.Error())
	}

	if err := us.tokens.DeleteToken(ctx, token); err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return models.ErrUnauthorized
		}

		return fmt.Errorf("delete token error: %w", err)
	}

	return nil
}

// Authenticate resolves the owner of an access token.
func (us *UserService) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, models.ErrUnauthorized
	}

	userID, err := us.tokenCache.GetUserID(ctx, token)
	if err != nil {
		if !errors.Is(err, tokenrepo.ErrNotFound) {
			us.lg.Errorf("get token cache error: %s", err.Error())
		}

		t, err := us.tokens.GetToken(ctx, token)
		if err != nil {
			if errors.Is(err, tokenrepo.ErrNotFound) {
				return models.User{}, models.ErrUnauthorized
			}

			return models.User{}, fmt.Errorf("get token error: %w", err)
		}

		if t.Expired(us.now()) {
			return models.User{}, models.ErrUnauthorized
		}

		if err := us.tokenCache.SetToken(ctx, t); err != nil {
			us.lg.Errorf("set token cache error: %s", err.Error())
		}

		userID = t.UserID
	}

	u, err := us.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, models.ErrUnauthorized
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

func (us *UserService) UpdateUser(ctx context.Context, u models.User, req UpdateUserRequest) (models.User, error) {
	if err := us.validator.Struct(req); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	if req.Email != "" {
		u.Email = req.Email
	}

	if req.Name != "" {
		u.Name = req.Name
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("generate from password error: %w", err)
		}

		u.PasswordHash = string(hash)
	}

	u.UpdatedAt = us.now()

	if err := us.users.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrAlreadyExists):
			verr := validation.Errors{}
			verr.Add("email", validation.Taken, u.Email)

			return models.User{}, verr
		case errors.Is(err, userrepo.ErrNotFound):
			return models.User{}, models.ErrNotFound
		}

		return models.User{}, fmt.Errorf("update user error: %w", err)
	}

	return u, nil
}

// DeleteUser deletes a user. The user's emojis go with it, so their cache entries and images are dropped too.
func (us *UserService) DeleteUser(ctx context.Context, id int64) error {
	emojis, err := us.emojis.ListByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("list emojis error: %w", err)
	}

	if err := us.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.ErrNotFound
		}

		return fmt.Errorf("delete user error: %w", err)
	}

	if len(emojis) > 0 {
		us.cleaner.Forget(ctx, emojis)
	}

	return nil
}

// Profile returns a user together with the emojis the user uploaded.
func (us *UserService) Profile(ctx context.Context, id int64) (models.User, []models.Emoji, error) {
	u, err := us.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, nil, models.ErrNotFound
		}

		return models.User{}, nil, fmt.Errorf("get user error: %w", err)
	}

	emojis, err := us.emojis.ListByUser(ctx, id)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("list emojis error: %w", err)
	}

	return u, emojis, nil
}

// BackgroundPurge deletes expired access tokens every interval until ctx is done.
func (us *UserService) BackgroundPurge(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	us.purge(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			us.purge(ctx)
		}
	}
}

func (us *UserService) purge(ctx context.Context) {
	n, err := us.tokens.DeleteExpired(ctx, us.now())
	if err != nil {
		us.lg.Errorf("purge expired tokens error: %s", err.Error())

		return
	}

	if n > 0 {
		us.lg.Infof("purged %d expired access tokens", n)
	}
}

func (us *UserService) issueToken(ctx context.Context, userID int64) (models.AccessToken, error) {
	now := us.now()

	t := models.AccessToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(us.cfg.TokenTTL),
		CreatedAt: now,
	}

	if err := us.tokens.CreateToken(ctx, t); err != nil {
		return models.AccessToken{}, fmt.Errorf("create token error: %w", err)
	}

	if err := us.tokenCache.SetToken(ctx, t); err != nil {
		us.lg.Errorf("set token cache error: %s", err.Error())
	}

	return t, nil
}
