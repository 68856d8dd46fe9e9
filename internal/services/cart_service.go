package services

import (
	"database/sql"
	"errors"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Items *repos.ItemRepo
}

func NewCartService(carts *repos.CartRepo, items *repos.ItemRepo) *CartService {
	return &CartService{Carts: carts, Items: items}
}

// Add puts the item in the owner's cart. Adding an item that is
// already there is a no-op; the cart is created on first use.
func (s *CartService) Add(owner domain.User, itemID string) (CartView, error) {
	if err := s.itemExists(itemID); err != nil {
		return CartView{}, err
	}
	cartID, err := s.Carts.Ensure(owner.ID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.Add(cartID, itemID); err != nil {
		return CartView{}, err
	}
	return s.View(owner)
}

// Remove takes the item out of the owner's cart; removing an absent
// item is a no-op.
func (s *CartService) Remove(owner domain.User, itemID string) (CartView, error) {
	if err := s.itemExists(itemID); err != nil {
		return CartView{}, err
	}
	cartID, err := s.Carts.Ensure(owner.ID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.Remove(cartID, itemID); err != nil {
		return CartView{}, err
	}
	return s.View(owner)
}

func (s *CartService) View(owner domain.User) (CartView, error) {
	cartID, err := s.Carts.Ensure(owner.ID)
	if err != nil {
		return CartView{}, err
	}
	rows, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	v := CartView{
		ID:    cartID,
		Owner: CompactUser{ID: owner.ID, Username: owner.Username},
		Items: []CompactItem{},
	}
	for _, row := range rows {
		v.Items = append(v.Items, CompactItem{ID: row.ItemID, Name: row.Name})
	}
	return v, nil
}

func (s *CartService) itemExists(itemID string) error {
	_, err := s.Items.Get(itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
