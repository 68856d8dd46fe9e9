package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type CatalogService struct {
	Items   *repos.ItemRepo
	Reviews *repos.ReviewRepo
	Users   *repos.UserRepo
}

func NewCatalogService(items *repos.ItemRepo, reviews *repos.ReviewRepo, users *repos.UserRepo) *CatalogService {
	return &CatalogService{Items: items, Reviews: reviews, Users: users}
}

// Find returns the raw listing row, for permission checks.
func (s *CatalogService) Find(id string) (domain.Item, error) {
	it, err := s.Items.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, ErrNotFound
	}
	return it, err
}

func (s *CatalogService) ListItems() ([]ItemView, error) {
	items, err := s.Items.List()
	if err != nil {
		return nil, err
	}
	return s.assemble(items)
}

func (s *CatalogService) GetItem(id string) (ItemView, error) {
	it, err := s.Find(id)
	if err != nil {
		return ItemView{}, err
	}
	views, err := s.assemble([]domain.Item{it})
	if err != nil {
		return ItemView{}, err
	}
	return views[0], nil
}

// assemble builds nested item views from three flat reads: photos,
// reviews and seller names, each fetched once for the whole batch.
func (s *CatalogService) assemble(items []domain.Item) ([]ItemView, error) {
	ids := make([]string, 0, len(items))
	sellerIDs := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		sellerIDs = append(sellerIDs, it.SellerID)
	}

	photos, err := s.Items.Photos(ids)
	if err != nil {
		return nil, err
	}
	photosByItem := map[string][]PhotoView{}
	for _, p := range photos {
		photosByItem[p.ItemID] = append(photosByItem[p.ItemID], photoView(p))
	}

	rrows, err := s.Reviews.ForItems(ids)
	if err != nil {
		return nil, err
	}
	reviewsByItem := map[string][]ReviewView{}
	for _, row := range rrows {
		reviewsByItem[row.ItemID] = append(reviewsByItem[row.ItemID], reviewView(row))
	}

	sellers, err := s.Users.CompactByIDs(sellerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		v := ItemView{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       Money{it.Price},
			Available:   it.Available,
			CreatedAt:   it.CreatedAt,
			Photos:      photosByItem[it.ID],
			Seller:      CompactUser{ID: it.SellerID, Username: sellers[it.SellerID]},
			Reviews:     reviewsByItem[it.ID],
		}
		if v.Photos == nil {
			v.Photos = []PhotoView{}
		}
		if v.Reviews == nil {
			v.Reviews = []ReviewView{}
		}
		out = append(out, v)
	}
	return out, nil
}

// CreateItem stores a listing for the seller; photo paths have already
// been written to the media dir by the caller.
func (s *CatalogService) CreateItem(seller domain.User, name, description string, price decimal.Decimal, available bool, photos []string) (ItemView, error) {
	it := domain.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Available:   available,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		SellerID:    seller.ID,
	}
	if err := s.Items.Create(it); err != nil {
		return ItemView{}, err
	}
	if err := s.addPhotos(it.ID, photos); err != nil {
		return ItemView{}, err
	}
	return s.GetItem(it.ID)
}

// UpdateItem writes the mutable fields and appends any new photos.
func (s *CatalogService) UpdateItem(it domain.Item, photos []string) (ItemView, error) {
	if err := s.Items.Update(it); err != nil {
		return ItemView{}, err
	}
	if err := s.addPhotos(it.ID, photos); err != nil {
		return ItemView{}, err
	}
	return s.GetItem(it.ID)
}

func (s *CatalogService) DeleteItem(id string) error {
	return s.Items.DeleteCascade(id)
}

func (s *CatalogService) addPhotos(itemID string, photos []string) error {
	for _, rel := range photos {
		p := domain.ItemPhoto{ID: uuid.NewString(), ItemID: itemID, Photo: rel}
		if err := s.Items.AddPhoto(p); err != nil {
			return err
		}
	}
	return nil
}
