package usecase

import (
	"context"
	"log"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/infrastructure/ratelimit"
	"campusbooks/pkg/errors"
)

// InterestUseCase manages "notify me when available" records. Registration is
// idempotent per (ISBN, user): a second call is a logged no-op, not an error.
type InterestUseCase struct {
	interestRepo repository.InterestRepository
	rateLimiter  *ratelimit.RateLimiter
}

func NewInterestUseCase(interestRepo repository.InterestRepository, rateLimiter *ratelimit.RateLimiter) *InterestUseCase {
	return &InterestUseCase{
		interestRepo: interestRepo,
		rateLimiter:  rateLimiter,
	}
}

func (uc *InterestUseCase) Register(ctx context.Context, isbn, userID string) error {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "register_interest")
	if !allowed {
		log.Printf("Register interest rate limited: user %s must wait %v", userID, waitTime)
		return errors.TooManyRequests("Too many interest registrations. Please wait before trying again")
	}

	existing, err := uc.interestRepo.FindByISBNAndUser(ctx, isbn, userID)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		log.Printf("Interest already exists for user %s and ISBN %s", userID, isbn)
		return nil
	}

	interest := &entity.Interest{
		ISBN:   isbn,
		UserID: userID,
	}
	if err := uc.interestRepo.Create(ctx, interest); err != nil {
		return err
	}

	log.Printf("Interest added for user %s for ISBN %s", userID, isbn)
	return nil
}

// Unregister removes every matching record; registration keeps the pair
// unique, but historic duplicates from races are swept too. Unregistering a
// pair with no records is a no-op.
func (uc *InterestUseCase) Unregister(ctx context.Context, isbn, userID string) error {
	deleted, err := uc.interestRepo.DeleteByISBNAndUser(ctx, isbn, userID)
	if err != nil {
		return err
	}

	if deleted > 0 {
		log.Printf("Interest removed for user %s for ISBN %s", userID, isbn)
	}
	return nil
}

func (uc *InterestUseCase) ListFor(ctx context.Context, userID string) ([]*entity.Interest, error) {
	return uc.interestRepo.ListByUserID(ctx, userID)
}
