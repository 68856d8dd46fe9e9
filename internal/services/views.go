package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

// View types are the JSON shapes the API returns. Nesting is assembled
// explicitly from flat repo reads; nothing serializes recursively.

// Money renders a price with exactly two fraction digits; plain
// decimal.String trims trailing zeros, which would turn 5.00 into 5.
type Money struct{ decimal.Decimal }

func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, m.StringFixed(2)), nil
}

type CompactUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type CompactItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PhotoView struct {
	ID    string `json:"id"`
	Item  string `json:"item"`
	Photo string `json:"photo"`
}

type ReviewView struct {
	ID        string      `json:"id"`
	Rate      int         `json:"rate"`
	Text      string      `json:"text"`
	CreatedAt string      `json:"created_at"`
	Item      CompactItem `json:"item"`
	Author    CompactUser `json:"author"`
}

type ItemView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       Money           `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   string          `json:"created_at"`
	Photos      []PhotoView     `json:"photos"`
	Seller      CompactUser     `json:"seller"`
	Reviews     []ReviewView    `json:"reviews"`
}

type CartView struct {
	ID    string        `json:"id"`
	Owner CompactUser   `json:"owner"`
	Items []CompactItem `json:"items"`
}

type UserView struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Bio        string        `json:"bio"`
	ProfilePic string        `json:"profile_pic"`
	Country    string        `json:"country"`
	Items      []CompactItem `json:"items"`
	Reviewed   []ReviewView  `json:"reviewed"`
	Cart       *CartView     `json:"cart"`
}

// mediaURL turns a stored media-relative path into the URL the
// media route serves it under.
func mediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return "/media/" + rel
}

func reviewView(row repos.ReviewRow) ReviewView {
	return ReviewView{
		ID:        row.ID,
		Rate:      row.Rate,
		Text:      row.Text,
		CreatedAt: row.CreatedAt,
		Item:      CompactItem{ID: row.ItemID, Name: row.ItemName},
		Author:    CompactUser{ID: row.AuthorID, Username: row.AuthorUsername},
	}
}

func photoView(p domain.ItemPhoto) PhotoView {
	return PhotoView{ID: p.ID, Item: p.ItemID, Photo: mediaURL(p.Photo)}
}
