package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,username,password_hash,email,first_name,last_name,bio,profile_pic,country,created_at`

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users ORDER BY created_at, id`)
	return out, err
}

func (r *UserRepo) UsernameTaken(username string) (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, username); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,username,password_hash)
		VALUES(?,?,?)
	`, u.ID, u.Username, u.Hash)
	return err
}

// Update writes the mutable profile fields; username, hash and
// created_at are left untouched.
func (r *UserRepo) Update(u domain.User) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET email=?, first_name=?, last_name=?, bio=?, profile_pic=?, country=?
		WHERE id=?
	`, u.Email, u.FirstName, u.LastName, u.Bio, u.ProfilePic, u.Country, u.ID)
	return err
}

// CompactByIDs resolves ids to usernames in one query.
func (r *UserRepo) CompactByIDs(ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, username FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	rows := []struct {
		ID       string `db:"id"`
		Username string `db:"username"`
	}{}
	if err := r.DB.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Username
	}
	return out, nil
}

// DeleteCascade removes a user together with their items (and those
// items' photos, reviews and cart references), authored reviews, cart
// and sessions, all in one transaction.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var itemIDs []string
	if err := tx.Select(&itemIDs, `SELECT id FROM items WHERE seller_id=?`, userID); err != nil {
		return err
	}
	if len(itemIDs) > 0 {
		for _, q := range []string{
			`DELETE FROM item_photos WHERE item_id IN (?)`,
			`DELETE FROM item_reviews WHERE item_id IN (?)`,
			`DELETE FROM cart_items WHERE item_id IN (?)`,
			`DELETE FROM items WHERE id IN (?)`,
		} {
			query, args, err := sqlx.In(q, itemIDs)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(query, args...); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM item_reviews WHERE author_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE owner_id=?)`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE owner_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// --- bearer token sessions ---

func (r *UserRepo) CreateSession(token, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)`, token, userID)
	return err
}

func (r *UserRepo) SessionUser(token string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.username,u.password_hash,u.email,u.first_name,u.last_name,
             u.bio,u.profile_pic,u.country,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, token)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) DeleteSession(token string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE id=?`, token)
	return err
}
