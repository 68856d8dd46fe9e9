package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `id, name, description, price, available, created_at, seller_id`

func (r *ItemRepo) List() ([]domain.Item, error) {
	out := []domain.Item{}
	err := r.db.Select(&out, `SELECT `+itemCols+` FROM items ORDER BY created_at, id`)
	return out, err
}

func (r *ItemRepo) Get(id string) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `SELECT `+itemCols+` FROM items WHERE id=?`, id)
	return it, err
}

func (r *ItemRepo) BySeller(sellerID string) ([]domain.Item, error) {
	out := []domain.Item{}
	err := r.db.Select(&out, `SELECT `+itemCols+` FROM items WHERE seller_id=? ORDER BY created_at, id`, sellerID)
	return out, err
}

func (r *ItemRepo) Create(it domain.Item) error {
	_, err := r.db.Exec(`
		INSERT INTO items(id,name,description,price,available,created_at,seller_id)
		VALUES(?,?,?,?,?,?,?)
	`, it.ID, it.Name, it.Description, it.Price.StringFixed(2), it.Available, it.CreatedAt, it.SellerID)
	return err
}

// Update writes the mutable listing fields; created_at and seller_id
// never change after creation.
func (r *ItemRepo) Update(it domain.Item) error {
	_, err := r.db.Exec(`
		UPDATE items SET name=?, description=?, price=?, available=?
		WHERE id=?
	`, it.Name, it.Description, it.Price.StringFixed(2), it.Available, it.ID)
	return err
}

// DeleteCascade removes a listing with its photos, reviews and any
// cart references in one transaction.
func (r *ItemRepo) DeleteCascade(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM item_photos WHERE item_id=?`,
		`DELETE FROM item_reviews WHERE item_id=?`,
		`DELETE FROM cart_items WHERE item_id=?`,
		`DELETE FROM items WHERE id=?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// --- photos ---

func (r *ItemRepo) AddPhoto(p domain.ItemPhoto) error {
	_, err := r.db.Exec(`INSERT INTO item_photos(id,item_id,photo) VALUES(?,?,?)`,
		p.ID, p.ItemID, p.Photo)
	return err
}

func (r *ItemRepo) Photos(itemIDs []string) ([]domain.ItemPhoto, error) {
	out := []domain.ItemPhoto{}
	if len(itemIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, item_id, photo FROM item_photos WHERE item_id IN (?) ORDER BY id`, itemIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&out, query, args...)
	return out, err
}
