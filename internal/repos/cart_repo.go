package repos

import (
	"bazaar/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Ensure returns the owner's cart id, creating the cart row on first use.
func (r *CartRepo) Ensure(ownerID string) (string, error) {
	var id string
	if err := r.db.Get(&id, `SELECT id FROM carts WHERE owner_id=?`, ownerID); err == nil {
		return id, nil
	}
	id = uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO carts(id,owner_id) VALUES(?,?)
		ON CONFLICT(owner_id) DO NOTHING
	`, id, ownerID)
	if err != nil {
		return "", err
	}
	// Re-read in case a concurrent request won the insert.
	if err := r.db.Get(&id, `SELECT id FROM carts WHERE owner_id=?`, ownerID); err != nil {
		return "", err
	}
	return id, nil
}

// Add is a no-op when the item is already in the cart.
func (r *CartRepo) Add(cartID, itemID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id, item_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id, item_id) DO NOTHING
	`, cartID, itemID)
	return err
}

// Remove is a no-op when the item is not in the cart.
func (r *CartRepo) Remove(cartID, itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND item_id=?`, cartID, itemID)
	return err
}

type CartItemRow struct {
	CartID  string `db:"cart_id"`
	OwnerID string `db:"owner_id"`
	ItemID  string `db:"item_id"`
	Name    string `db:"name"`
}

func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	out := []CartItemRow{}
	err := r.db.Select(&out, `
	  SELECT ci.cart_id, c.owner_id, ci.item_id, i.name
	  FROM cart_items ci
	  JOIN carts c ON c.id = ci.cart_id
	  JOIN items i ON i.id = ci.item_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.item_id
	`, cartID)
	return out, err
}

func (r *CartRepo) AllItems() ([]CartItemRow, error) {
	out := []CartItemRow{}
	err := r.db.Select(&out, `
	  SELECT ci.cart_id, c.owner_id, ci.item_id, i.name
	  FROM cart_items ci
	  JOIN carts c ON c.id = ci.cart_id
	  JOIN items i ON i.id = ci.item_id
	  ORDER BY ci.created_at, ci.item_id
	`)
	return out, err
}

func (r *CartRepo) ByOwner(ownerID string) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.db.Get(&c, `SELECT id, owner_id FROM carts WHERE owner_id=?`, ownerID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepo) All() ([]domain.Cart, error) {
	out := []domain.Cart{}
	err := r.db.Select(&out, `SELECT id, owner_id FROM carts`)
	return out, err
}
