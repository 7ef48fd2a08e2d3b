// Package services contains server-side business logic. This file implements
// UserService: signup with email confirmation, login, refresh token rotation
// and resolving the current user through the cache.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/dbx"
	"github.com/contactkeeper/contactkeeper/internal/logging"
	"github.com/contactkeeper/contactkeeper/internal/server/auth"
	"github.com/contactkeeper/contactkeeper/internal/server/avatar"
	"github.com/contactkeeper/contactkeeper/internal/server/cache"
	"github.com/contactkeeper/contactkeeper/internal/server/config"
	"github.com/contactkeeper/contactkeeper/internal/server/email"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/repomanager"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - SignUp: create users and kick off email confirmation
// - Login: verify credentials and mint tokens
// - Refresh: rotate the stored refresh token and mint a new pair
// - CurrentUser: resolve an access token to a user, cache first
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	cache       cache.UserCache
	sender      email.Sender
	uploader    avatar.Uploader
	logger      logging.Logger

	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	emailTokenValidityDuration   time.Duration
	userCacheTTL                 time.Duration
	baseURL                      string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService,
	userCache cache.UserCache, sender email.Sender, uploader avatar.Uploader,
	logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		cache:                        userCache,
		sender:                       sender,
		uploader:                     uploader,
		logger:                       logger,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		emailTokenValidityDuration:   cfg.EmailTokenValidityDuration,
		userCacheTTL:                 cfg.UserCacheTTL,
		baseURL:                      cfg.BaseURL,
	}
}

// SignUp registers a new user. The password is stored as a bcrypt digest and
// the avatar defaults to the Gravatar for the address. A confirmation email
// is sent in the background; signup succeeds even when delivery fails.
func (s *UserService) SignUp(ctx context.Context, emailAddr string, password string) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, emailAddr); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	avatarURL := avatar.GravatarURL(emailAddr)
	user := &models.User{
		Email:    emailAddr,
		Password: digest,
		Avatar:   &avatarURL,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	go s.sendConfirmationEmail(user.Email)

	return user, nil
}

// sendConfirmationEmail issues an email-scoped token and delivers the
// confirmation link. Runs detached from the request context.
func (s *UserService) sendConfirmationEmail(emailAddr string) {
	token, err := s.tokens.Issue(emailAddr, auth.PurposeEmail, s.emailTokenValidityDuration)
	if err != nil {
		s.logger.Error("error issuing confirmation token", "email", emailAddr, "error", err)
		return
	}

	confirmURL := fmt.Sprintf("%s/api/auth/confirmed_email/%s", s.baseURL, token)
	if err := s.sender.SendConfirmation(context.Background(), emailAddr, confirmURL); err != nil {
		s.logger.Error("error sending confirmation email", "email", emailAddr, "error", err)
	}
}

// Login verifies credentials and issues a token pair. The account must exist
// and be confirmed before the password is checked.
func (s *UserService) Login(ctx context.Context, emailAddr string, password string) (*TokenPair, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if !user.Confirmed {
		return nil, common.ErrEmailNotConfirmed
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, common.ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, repo, user)
}

// Refresh validates a refresh token against the copy stored for the user and
// rotates it. The cross-check and the rotation run in one transaction so the
// stored token cannot change between the read and the write. A token that
// does not match the stored one invalidates the stored token, forcing a
// fresh login.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	emailAddr, err := s.tokens.Verify(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}

	var pair *TokenPair
	var mismatch bool

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByEmail(ctx, emailAddr)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidRefreshToken
			}
			return common.ErrorInternal
		}

		// The clear on mismatch has to commit, so returning nil here and
		// reporting the outcome through the flag keeps WithTx from rolling
		// it back.
		if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
			mismatch = true
			if err := repo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
				s.logger.Error("error clearing refresh token", "email", emailAddr, "error", err)
			}
			return nil
		}

		pair, err = s.generateTokenPair(ctx, repo, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidRefreshToken) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, common.ErrorInternal
	}
	if mismatch {
		return nil, common.ErrInvalidRefreshToken
	}

	return pair, nil
}

// generateTokenPair mints an access and a refresh token for user and stores
// the refresh token as the single active one through repo, which may be
// bound to a transaction. A concurrent login wins by overwriting; only the
// last issued refresh token stays valid.
func (s *UserService) generateTokenPair(ctx context.Context, repo users.Repository, user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.Issue(user.Email, auth.PurposeAccess, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.tokens.Issue(user.Email, auth.PurposeRefresh, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// CurrentUser resolves an access token to the user it was issued for. The
// cache is consulted first; on a miss the database copy is cached for the
// configured TTL. A subject that no longer exists is unauthorized.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {

	emailAddr, err := s.tokens.Verify(accessToken, auth.PurposeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.cache.Get(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrCacheMiss) {
		return nil, fmt.Errorf("error reading user cache: %w", err)
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := s.cache.Set(ctx, user, s.userCacheTTL); err != nil {
		return nil, fmt.Errorf("error storing user cache: %w", err)
	}

	return user, nil
}

// RequestEmailConfirmation re-sends the confirmation email. The returned
// flag reports that the address is already confirmed and nothing was sent.
func (s *UserService) RequestEmailConfirmation(ctx context.Context, emailAddr string) (bool, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, common.ErrorInternal
	}

	if user.Confirmed {
		return true, nil
	}

	go s.sendConfirmationEmail(user.Email)

	return false, nil
}

// ConfirmEmail validates an email-scoped token and marks the subject
// confirmed. Confirming twice is not an error; the returned flag reports
// that the address was already confirmed.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (bool, error) {

	emailAddr, err := s.tokens.Verify(token, auth.PurposeEmail)
	if err != nil {
		return false, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrVerification
		}
		return false, common.ErrorInternal
	}

	if user.Confirmed {
		return true, nil
	}

	if err := repo.ConfirmEmail(ctx, emailAddr); err != nil {
		return false, common.ErrorInternal
	}

	return false, nil
}

// UpdateAvatar uploads a new avatar image and stores its URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, emailAddr string, body io.Reader, contentType string) (*models.User, error) {

	url, err := s.uploader.Upload(ctx, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("error uploading avatar: %w", err)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.UpdateAvatar(ctx, emailAddr, url)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
