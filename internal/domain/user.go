package domain

type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Hash      string `db:"password_hash"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Bio       string `db:"bio"`
	// ProfilePic is a media-relative path, empty when unset.
	ProfilePic string `db:"profile_pic"`
	Country    string `db:"country"`
	CreatedAt  string `db:"created_at"`
}
