package database

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User BUNモデル
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique,type:varchar(150)"`
	FullName     string    `bun:"full_name,type:varchar(255),default:''"`
	PasswordHash string    `bun:"password_hash,notnull,type:varchar(255)"`
	Bio          *string   `bun:"bio,type:text"`
	AvatarURL    *string   `bun:"avatar_url,type:varchar(255)"`
	Followers    int       `bun:"followers,notnull,default:0"`
	Following    int       `bun:"following,notnull,default:0"`
	IsSeller     bool      `bun:"is_seller,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Product BUNモデル
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Name        string          `bun:"name,notnull,type:varchar(255)"`
	Description *string         `bun:"description,type:text"`
	Price       decimal.Decimal `bun:"price,notnull,type:decimal(10,2)"`
	Stock       int             `bun:"stock,notnull,default:0"`
	ImageURL    *string         `bun:"image_url,type:varchar(255)"`
	SellerID    *int64          `bun:"seller_id"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// RecommendationLog BUNモデル
type RecommendationLog struct {
	bun.BaseModel `bun:"table:recommendation_logs"`

	ID          string    `bun:"id,pk,type:varchar(36)"`
	Description string    `bun:"description,notnull,type:text"`
	ProductText string    `bun:"product_text,notnull,type:text"`
	Degraded    bool      `bun:"degraded,notnull,default:false"`
	Cause       string    `bun:"cause,notnull,type:varchar(32)"`
	HasImage    bool      `bun:"has_image,notnull,default:false"`
	Provider    string    `bun:"provider,notnull,type:varchar(32)"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
