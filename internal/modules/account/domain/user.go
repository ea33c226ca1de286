package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserNotFound ユーザーが存在しない
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials ユーザー名またはパスワードが誤っている
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken トークンが不正または期限切れ
	ErrInvalidToken = errors.New("invalid token")
)

// User 利用者（出品者を含む）
type User struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string
	Bio          string
	AvatarURL    string
	Followers    int
	Following    int
	IsSeller     bool
	CreatedAt    time.Time
}

// SellerProfile 出品者プロフィールの公開表現
type SellerProfile struct {
	Username  string `json:"nombre_usuario"`
	FullName  string `json:"nombre_completo"`
	Bio       string `json:"biografia"`
	Followers int    `json:"seguidores"`
	Following int    `json:"siguiendo"`
	AvatarURL string `json:"avatar_url"`
}

// DefaultAvatarURL アバター未設定時の画像
const DefaultAvatarURL = "static/img/Perfil.png"

// Profile 公開プロフィールに変換
func (u *User) Profile() SellerProfile {
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = DefaultAvatarURL
	}
	return SellerProfile{
		Username:  u.Username,
		FullName:  u.FullName,
		Bio:       u.Bio,
		Followers: u.Followers,
		Following: u.Following,
		AvatarURL: avatar,
	}
}

// UserRepository ユーザーリポジトリ
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}
