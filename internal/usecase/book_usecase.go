package usecase

import (
	"context"
	"log"
	"sort"
	"sync"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/domain/service"
	"campusbooks/pkg/errors"
)

// BookUseCase owns the in-memory mirror of the books collection. The cache is
// only ever written by Refresh and Search; mutations go to the store and then
// trigger a refresh, so the mirror never shows state the store did not commit.
type BookUseCase struct {
	bookRepo repository.BookRepository
	notifier *NotifierUseCase
	coverArt *service.CoverArtService

	mu      sync.RWMutex
	books   []*entity.Book
	loading bool
}

func NewBookUseCase(
	bookRepo repository.BookRepository,
	notifier *NotifierUseCase,
	coverArt *service.CoverArtService,
) *BookUseCase {
	return &BookUseCase{
		bookRepo: bookRepo,
		notifier: notifier,
		coverArt: coverArt,
	}
}

type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Description string
	Condition   string
	Course      string
	Price       string
	Available   bool
}

type UpdateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Description string
	Condition   string
	Course      string
	Price       string
	Available   bool
}

var searchFields = map[string]func(*entity.Book) string{
	"title":  func(b *entity.Book) string { return b.Title },
	"author": func(b *entity.Book) string { return b.Author },
	"isbn":   func(b *entity.Book) string { return b.ISBN },
	"course": func(b *entity.Book) string { return b.Course },
}

// Refresh replaces the whole mirror from the store. On failure the previous
// contents are kept.
func (uc *BookUseCase) Refresh(ctx context.Context) error {
	uc.setLoading(true)
	defer uc.setLoading(false)

	books, err := uc.bookRepo.List(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	uc.books = books
	uc.mu.Unlock()

	return nil
}

// Search filters the collection on a single field and replaces the mirror
// with the result. ISBN matches exactly; other fields match by prefix and are
// re-sorted by how close the field length is to the query length. Callers
// must reject empty queries before calling.
func (uc *BookUseCase) Search(ctx context.Context, query, field string) ([]*entity.Book, error) {
	selector, ok := searchFields[field]
	if !ok {
		return nil, errors.BadRequest("Unsupported search field", nil)
	}

	uc.setLoading(true)
	defer uc.setLoading(false)

	var books []*entity.Book
	var err error

	if field == "isbn" {
		books, err = uc.bookRepo.ListByISBN(ctx, query)
	} else {
		books, err = uc.bookRepo.SearchByFieldPrefix(ctx, field, query)
		if err == nil {
			sort.SliceStable(books, func(i, j int) bool {
				return lengthDistance(selector(books[i]), query) < lengthDistance(selector(books[j]), query)
			})
		}
	}
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.books = books
	uc.mu.Unlock()

	return books, nil
}

func (uc *BookUseCase) Create(ctx context.Context, sellerID string, input CreateBookInput) (*entity.Book, error) {
	book := &entity.Book{
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        input.ISBN,
		Description: input.Description,
		Condition:   input.Condition,
		Course:      input.Course,
		Price:       input.Price,
		CoverURL:    uc.coverArt.CoverURL(input.ISBN),
		SellerID:    sellerID,
		Status:      input.Available,
	}

	if err := uc.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	uc.refreshAfterMutation(ctx)

	if book.Status {
		uc.notifyAsync(book.ID)
	}

	return book, nil
}

func (uc *BookUseCase) Update(ctx context.Context, userID, bookID string, input UpdateBookInput) (*entity.Book, error) {
	book, err := uc.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if book.SellerID != userID {
		return nil, errors.Forbidden("Only the seller can edit this listing", nil)
	}

	wasAvailable := book.Status

	book.Title = input.Title
	book.Author = input.Author
	book.Description = input.Description
	book.Condition = input.Condition
	book.Course = input.Course
	book.Price = input.Price
	book.Status = input.Available
	if input.ISBN != book.ISBN {
		book.ISBN = input.ISBN
		book.CoverURL = uc.coverArt.CoverURL(input.ISBN)
	}

	if err := uc.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	uc.refreshAfterMutation(ctx)

	if !wasAvailable && book.Status {
		uc.notifyAsync(book.ID)
	}

	return book, nil
}

func (uc *BookUseCase) Remove(ctx context.Context, userID, bookID string) error {
	book, err := uc.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	if book.SellerID != userID {
		return errors.Forbidden("Only the seller can delete this listing", nil)
	}

	if err := uc.bookRepo.Delete(ctx, bookID); err != nil {
		return err
	}

	uc.refreshAfterMutation(ctx)

	return nil
}

func (uc *BookUseCase) GetByID(ctx context.Context, bookID string) (*entity.Book, error) {
	return uc.bookRepo.GetByID(ctx, bookID)
}

func (uc *BookUseCase) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Book, error) {
	return uc.bookRepo.ListBySellerID(ctx, sellerID)
}

// Books returns a copy of the current mirror contents.
func (uc *BookUseCase) Books() []*entity.Book {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	books := make([]*entity.Book, len(uc.books))
	copy(books, uc.books)
	return books
}

func (uc *BookUseCase) Loading() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.loading
}

func (uc *BookUseCase) setLoading(loading bool) {
	uc.mu.Lock()
	uc.loading = loading
	uc.mu.Unlock()
}

// refreshAfterMutation keeps the mirror in step with a committed write. The
// write already succeeded, so a refresh failure is logged, not surfaced.
func (uc *BookUseCase) refreshAfterMutation(ctx context.Context) {
	if err := uc.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh book cache after mutation: %v", err)
	}
}

// notifyAsync fires the availability fan-out without blocking or failing the
// triggering mutation. Delivery errors are logged; there is no retry.
func (uc *BookUseCase) notifyAsync(bookID string) {
	go func() {
		if err := uc.notifier.NotifyInterested(context.Background(), bookID); err != nil {
			log.Printf("Availability fan-out for book %s failed: %v", bookID, err)
		}
	}()
}

func lengthDistance(value, query string) int {
	d := len(value) - len(query)
	if d < 0 {
		return -d
	}
	return d
}
