package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/logging"
	"github.com/dmitrijs2005/orgbook/internal/server/auth"
	"github.com/dmitrijs2005/orgbook/internal/server/avatars"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// Avatar is an uploaded image on its way to the avatar store.
type Avatar struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type NewUser struct {
	Name     string
	Email    string
	Password string
	Avatar   Avatar
}

// UserChanges is a partial update; nil fields are left unchanged.
type UserChanges struct {
	Name     *string
	Email    *string
	Password *string
	Avatar   *Avatar
}

// UserService manages accounts, their avatar files and login.
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	avatars                     avatars.Store
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
}

func NewUserService(m repomanager.RepositoryManager, store avatars.Store, logger logging.Logger, secretKey string, tokenValidity time.Duration) *UserService {
	return &UserService{
		repomanager:                 m,
		avatars:                     store,
		logger:                      logger.With("module", "user_service"),
		jwtSecret:                   []byte(secretKey),
		accessTokenValidityDuration: tokenValidity,
		hashCost:                    bcrypt.DefaultCost,
	}
}

func (s *UserService) Find(ctx context.Context, p models.FindParams) ([]*models.User, error) {
	return s.repomanager.Users().Find(ctx, p)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users().Get(ctx, id)
}

// Create stores the avatar first and removes it again if the account cannot
// be inserted.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	key, err := s.saveAvatar(ctx, in.Avatar)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       key,
	})
	if err != nil {
		s.dropAvatar(ctx, key)
		return nil, err
	}

	s.logger.Info(ctx, "user created", "id", u.ID)
	return u, nil
}

// Update applies ch. A replaced avatar is deleted only after the record
// points at the new one.
func (s *UserService) Update(ctx context.Context, id string, ch UserChanges) (*models.User, error) {
	var upd models.UserUpdate
	upd.Name = ch.Name
	upd.Email = ch.Email

	if ch.Password != nil {
		hash, err := s.hashPassword(*ch.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}

	if upd.Empty() && ch.Avatar == nil {
		return s.Get(ctx, id)
	}

	var newKey string
	if ch.Avatar != nil {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		key, err := s.saveAvatar(ctx, *ch.Avatar)
		if err != nil {
			return nil, err
		}
		newKey = key
		upd.Avatar = &newKey
	}

	var (
		oldKey string
		out    *models.User
	)
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		cur, err := r.Users().Get(ctx, id)
		if err != nil {
			return err
		}
		oldKey = cur.Avatar

		out, err = r.Users().Update(ctx, id, upd)
		return err
	})
	if err != nil {
		if newKey != "" {
			s.dropAvatar(ctx, newKey)
		}
		return nil, err
	}

	if newKey != "" && oldKey != "" && oldKey != newKey {
		s.dropAvatar(ctx, oldKey)
	}
	return out, nil
}

// Delete trashes, restores or erases an account. Erase also removes the
// avatar and returns a nil record.
func (s *UserService) Delete(ctx context.Context, id string, mode models.DeleteMode) (*models.User, error) {
	repo := s.repomanager.Users()

	switch mode {
	case models.DeleteTrash:
		return repo.Trash(ctx, id)
	case models.DeleteRestore:
		return repo.Restore(ctx, id)
	case models.DeleteErase:
		u, err := repo.Erase(ctx, id)
		if err != nil {
			return nil, err
		}
		if u.Avatar != "" {
			s.dropAvatar(ctx, u.Avatar)
		}
		s.logger.Info(ctx, "user erased", "id", id)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown delete mode %q", common.ErrorValidation, mode)
}

// Login checks the credentials of a live account and returns a signed
// access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// --- helpers below ---

func (s *UserService) hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return string(b), nil
}

func (s *UserService) saveAvatar(ctx context.Context, a Avatar) (string, error) {
	if a.Body == nil {
		return "", fmt.Errorf("%w: avatar is missing", common.ErrorValidation)
	}
	key := avatars.NewKey(a.Filename)
	if err := s.avatars.Save(ctx, key, a.Body, a.Size, a.ContentType); err != nil {
		return "", fmt.Errorf("%w: save avatar: %v", common.ErrorInternal, err)
	}
	return key, nil
}

func (s *UserService) dropAvatar(ctx context.Context, key string) {
	if err := s.avatars.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "avatar not removed", "key", key, "error", err)
	}
}
