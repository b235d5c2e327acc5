package usecase

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/multierr"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

// NotifierUseCase fans a listing's availability out to everyone who
// registered interest in its ISBN. Notification IDs are derived from
// (book, user), so re-running the fan-out for the same listing is a
// per-recipient no-op instead of a duplicate.
type NotifierUseCase struct {
	bookRepo         repository.BookRepository
	interestRepo     repository.InterestRepository
	notificationRepo repository.NotificationRepository
}

func NewNotifierUseCase(
	bookRepo repository.BookRepository,
	interestRepo repository.InterestRepository,
	notificationRepo repository.NotificationRepository,
) *NotifierUseCase {
	return &NotifierUseCase{
		bookRepo:         bookRepo,
		interestRepo:     interestRepo,
		notificationRepo: notificationRepo,
	}
}

// NotifyInterested is a no-op when the book is gone or not available. A
// failed write for one recipient does not stop delivery to the rest; the
// aggregate error is returned for logging.
func (uc *NotifierUseCase) NotifyInterested(ctx context.Context, bookID string) error {
	book, err := uc.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			log.Printf("No need to notify: book %s does not exist", bookID)
			return nil
		}
		return err
	}

	if !book.Status {
		return nil
	}

	interests, err := uc.interestRepo.ListByISBN(ctx, book.ISBN)
	if err != nil {
		return err
	}

	var errs error
	delivered := 0
	for _, interest := range interests {
		notification := &entity.Notification{
			ID:      fmt.Sprintf("%s_%s", bookID, interest.UserID),
			UserID:  interest.UserID,
			Title:   "Book Now Available",
			Message: fmt.Sprintf("The book \"%s\" you were interested in is now available.", book.Title),
			Read:    false,
			Type:    entity.NotificationTypeBookAvailability,
			BookID:  bookID,
		}

		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			log.Printf("Failed to notify user %s about book %s: %v", interest.UserID, bookID, err)
			errs = multierr.Append(errs, err)
			continue
		}
		delivered++
	}

	if len(interests) > 0 {
		log.Printf("Availability fan-out for book %s: %d/%d notifications written", bookID, delivered, len(interests))
	}

	return errs
}
