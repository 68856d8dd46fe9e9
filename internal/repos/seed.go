package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo inserts a couple of demo accounts and listings for manual
// poking. Idempotent; safe to run on every start.
func SeedDemo(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/items")

	mk := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	users := []struct{ ID, Username, Hash string }{
		{"u-demo-ann", "ann", mk("Passw0rd!")},
		{"u-demo-ben", "ben", mk("Passw0rd!")},
	}
	for _, u := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,password_hash)
			VALUES(?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, u.ID, u.Username, u.Hash); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO carts(id,owner_id) VALUES(?,?)
			ON CONFLICT(owner_id) DO NOTHING
		`, "c-"+u.ID, u.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO items(id,name,description,price,seller_id) VALUES
		  ('i-demo-lamp','Desk Lamp','Articulated desk lamp, warm bulb included.','24.50','u-demo-ann'),
		  ('i-demo-amp','Tube Amplifier','Hand-wired guitar amp, recently serviced.','340.00','u-demo-ben')
	`); err != nil {
		return err
	}

	return tx.Commit()
}
