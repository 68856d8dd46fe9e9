package domain

import "github.com/shopspring/decimal"

type Item struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Available   bool            `db:"available"`
	CreatedAt   string          `db:"created_at"`
	SellerID    string          `db:"seller_id"`
}

type ItemPhoto struct {
	ID     string `db:"id"`
	ItemID string `db:"item_id"`
	// Photo is a media-relative path ("item_photos/<name>").
	Photo string `db:"photo"`
}

type ItemReview struct {
	ID        string `db:"id"`
	Rate      int    `db:"rate"`
	Text      string `db:"text"`
	CreatedAt string `db:"created_at"`
	ItemID    string `db:"item_id"`
	AuthorID  string `db:"author_id"`
}

type Cart struct {
	ID      string `db:"id"`
	OwnerID string `db:"owner_id"`
}
