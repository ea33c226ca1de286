package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	accountdomain "shop-recommend-app/internal/modules/account/domain"
)

// DemoSellerUsername デモ用出品者のユーザー名
const DemoSellerUsername = "JaneDoe"

type demoProduct struct {
	name        string
	description string
	price       string
	stock       int
}

var demoProducts = []demoProduct{
	{"Cuaderno profesional", "200 hojas con espiral metálico", "45.50", 120},
	{"Mochila universitaria", "Compartimento acolchado para laptop de 15 pulgadas", "599.00", 35},
	{"Calculadora científica", "240 funciones con pantalla de dos líneas", "389.90", 40},
	{"Juego de plumas de gel", "Paquete de 10 colores con punta fina", "89.00", 200},
	{"Lámpara de escritorio LED", "Brillo ajustable con puerto USB", "349.00", 25},
}

// SeedDemoData デモ用の出品者と商品を登録する
//
// usersテーブルが空のときだけ投入し、投入した場合はtrueを返す。
func SeedDemoData(ctx context.Context, db *bun.DB, passwordHash string) (bool, error) {
	count, err := db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		bio := "Lorem ipsum dolor"
		avatar := accountdomain.DefaultAvatarURL
		seller := &User{
			Username:     DemoSellerUsername,
			FullName:     "Jane Doe",
			PasswordHash: passwordHash,
			Bio:          &bio,
			AvatarURL:    &avatar,
			Followers:    1450,
			Following:    789,
			IsSeller:     true,
			CreatedAt:    now,
		}
		if _, err := tx.NewInsert().Model(seller).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert demo seller: %w", err)
		}

		products := make([]*Product, 0, len(demoProducts))
		for _, p := range demoProducts {
			description := p.description
			products = append(products, &Product{
				Name:        p.name,
				Description: &description,
				Price:       decimal.RequireFromString(p.price),
				Stock:       p.stock,
				SellerID:    &seller.ID,
				CreatedAt:   now,
			})
		}
		if _, err := tx.NewInsert().Model(&products).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert demo products: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
