package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type UserService struct {
	Users   *repos.UserRepo
	Items   *repos.ItemRepo
	Reviews *repos.ReviewRepo
	Carts   *repos.CartRepo
}

func NewUserService(users *repos.UserRepo, items *repos.ItemRepo, reviews *repos.ReviewRepo, carts *repos.CartRepo) *UserService {
	return &UserService{Users: users, Items: items, Reviews: reviews, Carts: carts}
}

func (s *UserService) Find(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Create registers an account from username and password only; every
// other profile field starts empty. The cart is created up front.
func (s *UserService) Create(username, password string) (UserView, error) {
	taken, err := s.Users.UsernameTaken(username)
	if err != nil {
		return UserView{}, err
	}
	if taken {
		return UserView{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return UserView{}, err
	}
	u := domain.User{ID: uuid.NewString(), Username: username, Hash: string(hash)}
	if err := s.Users.Create(u); err != nil {
		return UserView{}, err
	}
	if _, err := s.Carts.Ensure(u.ID); err != nil {
		return UserView{}, err
	}
	return s.Get(u.ID)
}

func (s *UserService) Update(u domain.User) (UserView, error) {
	if err := s.Users.Update(u); err != nil {
		return UserView{}, err
	}
	return s.Get(u.ID)
}

func (s *UserService) Delete(id string) error {
	return s.Users.DeleteCascade(id)
}

func (s *UserService) Get(id string) (UserView, error) {
	u, err := s.Find(id)
	if err != nil {
		return UserView{}, err
	}

	items, err := s.Items.BySeller(u.ID)
	if err != nil {
		return UserView{}, err
	}
	rrows, err := s.Reviews.ForAuthor(u.ID)
	if err != nil {
		return UserView{}, err
	}
	cart, err := s.cartView(*u)
	if err != nil {
		return UserView{}, err
	}

	v := userView(*u)
	for _, it := range items {
		v.Items = append(v.Items, CompactItem{ID: it.ID, Name: it.Name})
	}
	for _, row := range rrows {
		v.Reviewed = append(v.Reviewed, reviewView(row))
	}
	v.Cart = cart
	return v, nil
}

// List assembles every user's public view from four full-table reads,
// one per relation.
func (s *UserService) List() ([]UserView, error) {
	users, err := s.Users.List()
	if err != nil {
		return nil, err
	}
	items, err := s.Items.List()
	if err != nil {
		return nil, err
	}
	rrows, err := s.Reviews.AllRows()
	if err != nil {
		return nil, err
	}
	carts, err := s.Carts.All()
	if err != nil {
		return nil, err
	}
	cartRows, err := s.Carts.AllItems()
	if err != nil {
		return nil, err
	}

	itemsBySeller := map[string][]CompactItem{}
	for _, it := range items {
		itemsBySeller[it.SellerID] = append(itemsBySeller[it.SellerID], CompactItem{ID: it.ID, Name: it.Name})
	}
	reviewsByAuthor := map[string][]ReviewView{}
	for _, row := range rrows {
		reviewsByAuthor[row.AuthorID] = append(reviewsByAuthor[row.AuthorID], reviewView(row))
	}
	cartItemsByCart := map[string][]CompactItem{}
	for _, row := range cartRows {
		cartItemsByCart[row.CartID] = append(cartItemsByCart[row.CartID], CompactItem{ID: row.ItemID, Name: row.Name})
	}
	usernames := map[string]string{}
	for _, u := range users {
		usernames[u.ID] = u.Username
	}
	cartsByOwner := map[string]*CartView{}
	for _, c := range carts {
		cv := &CartView{
			ID:    c.ID,
			Owner: CompactUser{ID: c.OwnerID, Username: usernames[c.OwnerID]},
			Items: cartItemsByCart[c.ID],
		}
		if cv.Items == nil {
			cv.Items = []CompactItem{}
		}
		cartsByOwner[c.OwnerID] = cv
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		v := userView(u)
		if list := itemsBySeller[u.ID]; list != nil {
			v.Items = list
		}
		if list := reviewsByAuthor[u.ID]; list != nil {
			v.Reviewed = list
		}
		v.Cart = cartsByOwner[u.ID]
		out = append(out, v)
	}
	return out, nil
}

// cartView reads the owner's cart. Accounts get their cart at signup;
// a missing row reads as no cart rather than triggering an insert, so
// anonymous profile GETs never write.
func (s *UserService) cartView(u domain.User) (*CartView, error) {
	cart, err := s.Carts.ByOwner(u.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.Carts.Items(cart.ID)
	if err != nil {
		return nil, err
	}
	cv := &CartView{
		ID:    cart.ID,
		Owner: CompactUser{ID: u.ID, Username: u.Username},
		Items: []CompactItem{},
	}
	for _, row := range rows {
		cv.Items = append(cv.Items, CompactItem{ID: row.ItemID, Name: row.Name})
	}
	return cv, nil
}

// userView maps the public profile fields; the password hash never
// leaves this package.
func userView(u domain.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Bio:        u.Bio,
		ProfilePic: mediaURL(u.ProfilePic),
		Country:    u.Country,
		Items:      []CompactItem{},
		Reviewed:   []ReviewView{},
	}
}
