package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Items   *repos.ItemRepo
}

func NewReviewService(reviews *repos.ReviewRepo, items *repos.ItemRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Items: items}
}

// Create attaches a review to the item; the author is always the
// caller, whatever the payload said. A seller reviewing their own
// listing is permitted.
func (s *ReviewService) Create(author domain.User, itemID string, rate int, text string) (ReviewView, error) {
	it, err := s.Items.Get(itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return ReviewView{}, ErrNotFound
	}
	if err != nil {
		return ReviewView{}, err
	}

	rv := domain.ItemReview{
		ID:        uuid.NewString(),
		Rate:      rate,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		ItemID:    it.ID,
		AuthorID:  author.ID,
	}
	if err := s.Reviews.Create(rv); err != nil {
		return ReviewView{}, err
	}
	return s.view(rv.ID)
}

// Find resolves a review under the given item; a review that exists
// but hangs off another item reads as not-found.
func (s *ReviewService) Find(itemID, reviewID string) (domain.ItemReview, error) {
	rv, err := s.Reviews.FindForItem(itemID, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ItemReview{}, ErrNotFound
	}
	return rv, err
}

func (s *ReviewService) Update(id string, rate int, text string) (ReviewView, error) {
	if err := s.Reviews.Update(id, rate, text); err != nil {
		return ReviewView{}, err
	}
	return s.view(id)
}

func (s *ReviewService) Delete(id string) error {
	return s.Reviews.Delete(id)
}

func (s *ReviewService) view(id string) (ReviewView, error) {
	row, err := s.Reviews.Row(id)
	if err != nil {
		return ReviewView{}, err
	}
	return reviewView(row), nil
}
