package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewRow carries a review joined with the item and author names it
// is rendered with, so response assembly stays a single query.
type ReviewRow struct {
	ID             string `db:"id"`
	Rate           int    `db:"rate"`
	Text           string `db:"text"`
	CreatedAt      string `db:"created_at"`
	ItemID         string `db:"item_id"`
	ItemName       string `db:"item_name"`
	AuthorID       string `db:"author_id"`
	AuthorUsername string `db:"author_username"`
}

const reviewRowQuery = `
	SELECT rv.id, rv.rate, rv.text, rv.created_at,
	       rv.item_id, i.name AS item_name,
	       rv.author_id, u.username AS author_username
	FROM item_reviews rv
	JOIN items i ON i.id = rv.item_id
	JOIN users u ON u.id = rv.author_id`

func (r *ReviewRepo) Create(rv domain.ItemReview) error {
	_, err := r.db.Exec(`
		INSERT INTO item_reviews(id,rate,text,created_at,item_id,author_id)
		VALUES(?,?,?,?,?,?)
	`, rv.ID, rv.Rate, rv.Text, rv.CreatedAt, rv.ItemID, rv.AuthorID)
	return err
}

// FindForItem resolves a review only when it belongs to the given
// item, so a path mismatch reads as not-found.
func (r *ReviewRepo) FindForItem(itemID, id string) (domain.ItemReview, error) {
	var rv domain.ItemReview
	err := r.db.Get(&rv, `
		SELECT id, rate, text, created_at, item_id, author_id
		FROM item_reviews WHERE id=? AND item_id=?
	`, id, itemID)
	return rv, err
}

// Update writes the mutable review fields; created_at, item and author
// never change.
func (r *ReviewRepo) Update(id string, rate int, text string) error {
	_, err := r.db.Exec(`UPDATE item_reviews SET rate=?, text=? WHERE id=?`, rate, text, id)
	return err
}

func (r *ReviewRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM item_reviews WHERE id=?`, id)
	return err
}

func (r *ReviewRepo) Row(id string) (ReviewRow, error) {
	var row ReviewRow
	err := r.db.Get(&row, reviewRowQuery+` WHERE rv.id=?`, id)
	return row, err
}

func (r *ReviewRepo) ForItems(itemIDs []string) ([]ReviewRow, error) {
	out := []ReviewRow{}
	if len(itemIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(reviewRowQuery+` WHERE rv.item_id IN (?) ORDER BY rv.created_at, rv.id`, itemIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&out, query, args...)
	return out, err
}

func (r *ReviewRepo) ForAuthor(authorID string) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.db.Select(&out, reviewRowQuery+` WHERE rv.author_id=? ORDER BY rv.created_at, rv.id`, authorID)
	return out, err
}

func (r *ReviewRepo) AllRows() ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.db.Select(&out, reviewRowQuery+` ORDER BY rv.created_at, rv.id`)
	return out, err
}
