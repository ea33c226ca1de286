package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"shop-recommend-app/internal/modules/account/domain"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// timingDummyHash 存在しないユーザーでも同程度の時間をかけるためのハッシュ
func timingDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// AuthUseCase ログインとプロフィール参照のユースケース
type AuthUseCase struct {
	userRepo domain.UserRepository
	tokens   *TokenManager
}

// NewAuthUseCase 新しいAuthUseCaseを作成
func NewAuthUseCase(userRepo domain.UserRepository, tokens *TokenManager) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login 認証してトークンを返す
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(timingDummyHash(), []byte(password))
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Generate(user)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate トークンを検証
func (uc *AuthUseCase) Authenticate(token string) (*Claims, error) {
	return uc.tokens.Validate(token)
}

// SellerProfile 出品者プロフィールを取得
func (uc *AuthUseCase) SellerProfile(ctx context.Context, username string) (*domain.SellerProfile, error) {
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if !user.IsSeller {
		return nil, fmt.Errorf("%w: %s is not a seller", domain.ErrUserNotFound, username)
	}
	profile := user.Profile()
	return &profile, nil
}

// HashPassword パスワードをbcryptでハッシュ化
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
