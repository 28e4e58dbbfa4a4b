package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/repository"
)

// UserService registers and resolves users.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register returns the user with the given nickname, creating one when it is
// new. Public ids are short random tokens, not guessable sequences.
func (s *UserService) Register(ctx context.Context, nickname string) (*model.UserView, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, validationf("nickname is required")
	}

	publicID := uuid.NewString()[:8]
	user, err := s.userRepo.GetOrCreate(ctx, nickname, publicID)
	if err != nil {
		return nil, err
	}
	return userView(user), nil
}

func (s *UserService) GetByPublicID(ctx context.Context, publicID string) (*model.UserView, error) {
	user, err := s.userRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return userView(user), nil
}

func (s *UserService) GetByNickname(ctx context.Context, nickname string) (*model.UserView, error) {
	user, err := s.userRepo.FindByNickname(ctx, nickname)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return userView(user), nil
}

func userView(user *model.User) *model.UserView {
	return &model.UserView{
		ID:        user.ID,
		UserID:    user.PublicID,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
