package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/service"
	"campusbooks/pkg/errors"
)

func newBookFixture() (*BookUseCase, *fakeBookRepo, *fakeInterestRepo, *fakeNotificationRepo) {
	bookRepo := newFakeBookRepo()
	interestRepo := newFakeInterestRepo()
	notificationRepo := newFakeNotificationRepo()
	notifier := NewNotifierUseCase(bookRepo, interestRepo, notificationRepo)
	coverArt := service.NewCoverArtService("https://covers.openlibrary.org")
	return NewBookUseCase(bookRepo, notifier, coverArt), bookRepo, interestRepo, notificationRepo
}

func TestCreateBookDerivesCoverURL(t *testing.T) {
	uc, _, _, _ := newBookFixture()

	book, err := uc.Create(context.Background(), "seller-1", CreateBookInput{
		Title:     "Intro to Algorithms",
		Author:    "Cormen",
		ISBN:      "9780262033848",
		Condition: entity.ConditionGood,
		Price:     "45",
		Available: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780262033848-M.jpg?default=false", book.CoverURL)
	assert.Equal(t, "seller-1", book.SellerID)
	assert.NotEmpty(t, book.ID)
}

func TestCreateAvailableBookNotifiesInterestedUsers(t *testing.T) {
	uc, _, interestRepo, notificationRepo := newBookFixture()
	ctx := context.Background()

	require.NoError(t, interestRepo.Create(ctx, &entity.Interest{ISBN: "9780262033848", UserID: "buyer-1"}))

	_, err := uc.Create(ctx, "seller-1", CreateBookInput{
		Title:     "Intro to Algorithms",
		Author:    "Cormen",
		ISBN:      "9780262033848",
		Condition: entity.ConditionGood,
		Price:     "45",
		Available: true,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		notifications, err := notificationRepo.ListByUserID(ctx, "buyer-1")
		return err == nil && len(notifications) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateUnavailableBookDoesNotNotify(t *testing.T) {
	uc, _, interestRepo, notificationRepo := newBookFixture()
	ctx := context.Background()

	require.NoError(t, interestRepo.Create(ctx, &entity.Interest{ISBN: "9780262033848", UserID: "buyer-1"}))

	_, err := uc.Create(ctx, "seller-1", CreateBookInput{
		Title:     "Intro to Algorithms",
		Author:    "Cormen",
		ISBN:      "9780262033848",
		Condition: entity.ConditionGood,
		Price:     "45",
		Available: false,
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	notifications, err := notificationRepo.ListByUserID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestUpdateBookNotifiesOnlyOnAvailabilityFlip(t *testing.T) {
	uc, _, interestRepo, notificationRepo := newBookFixture()
	ctx := context.Background()

	require.NoError(t, interestRepo.Create(ctx, &entity.Interest{ISBN: "9780262033848", UserID: "buyer-1"}))

	book, err := uc.Create(ctx, "seller-1", CreateBookInput{
		Title:     "Intro to Algorithms",
		Author:    "Cormen",
		ISBN:      "9780262033848",
		Condition: entity.ConditionGood,
		Price:     "45",
		Available: false,
	})
	require.NoError(t, err)

	input := UpdateBookInput{
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		Condition: book.Condition,
		Price:     "40",
		Available: true,
	}
	_, err = uc.Update(ctx, "seller-1", book.ID, input)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		notifications, err := notificationRepo.ListByUserID(ctx, "buyer-1")
		return err == nil && len(notifications) == 1
	}, time.Second, 10*time.Millisecond)

	// A second update that stays available must not fan out again.
	input.Price = "35"
	_, err = uc.Update(ctx, "seller-1", book.ID, input)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	notifications, err := notificationRepo.ListByUserID(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestUpdateBookRejectsNonSeller(t *testing.T) {
	uc, _, _, _ := newBookFixture()
	ctx := context.Background()

	book, err := uc.Create(ctx, "seller-1", CreateBookInput{
		Title:     "Calculus",
		Author:    "Stewart",
		ISBN:      "9781285741550",
		Condition: entity.ConditionNew,
		Price:     "80",
	})
	require.NoError(t, err)

	_, err = uc.Update(ctx, "someone-else", book.ID, UpdateBookInput{
		Title: "Hijacked", Author: "x", ISBN: book.ISBN, Condition: entity.ConditionNew, Price: "1",
	})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestRemoveBookRejectsNonSeller(t *testing.T) {
	uc, _, _, _ := newBookFixture()
	ctx := context.Background()

	book, err := uc.Create(ctx, "seller-1", CreateBookInput{
		Title:     "Calculus",
		Author:    "Stewart",
		ISBN:      "9781285741550",
		Condition: entity.ConditionNew,
		Price:     "80",
	})
	require.NoError(t, err)

	err = uc.Remove(ctx, "someone-else", book.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	err = uc.Remove(ctx, "seller-1", book.ID)
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, book.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSearchByISBNMatchesExactly(t *testing.T) {
	uc, bookRepo, _, _ := newBookFixture()
	ctx := context.Background()

	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "A", ISBN: "9780262033848", SellerID: "s"}))
	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "B", ISBN: "9780262033", SellerID: "s"}))

	books, err := uc.Search(ctx, "9780262033", "isbn")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "B", books[0].Title)
}

func TestSearchByTitleOrdersByLengthProximity(t *testing.T) {
	uc, bookRepo, _, _ := newBookFixture()
	ctx := context.Background()

	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Calculus: Early Transcendentals", ISBN: "1", SellerID: "s"}))
	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Calculus", ISBN: "2", SellerID: "s"}))
	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Calculus II", ISBN: "3", SellerID: "s"}))
	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Chemistry", ISBN: "4", SellerID: "s"}))

	books, err := uc.Search(ctx, "Calculus", "title")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Calculus", books[0].Title)
	assert.Equal(t, "Calculus II", books[1].Title)
	assert.Equal(t, "Calculus: Early Transcendentals", books[2].Title)
}

func TestSearchRejectsUnknownField(t *testing.T) {
	uc, _, _, _ := newBookFixture()

	_, err := uc.Search(context.Background(), "anything", "price")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSearchReplacesCachedBooks(t *testing.T) {
	uc, bookRepo, _, _ := newBookFixture()
	ctx := context.Background()

	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Calculus", ISBN: "1", SellerID: "s"}))
	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Chemistry", ISBN: "2", SellerID: "s"}))

	require.NoError(t, uc.Refresh(ctx))
	assert.Len(t, uc.Books(), 2)

	_, err := uc.Search(ctx, "Calculus", "title")
	require.NoError(t, err)
	assert.Len(t, uc.Books(), 1)
}

func TestRefreshKeepsCacheOnFailure(t *testing.T) {
	uc, bookRepo, _, _ := newBookFixture()
	ctx := context.Background()

	require.NoError(t, bookRepo.Create(ctx, &entity.Book{Title: "Calculus", ISBN: "1", SellerID: "s"}))
	require.NoError(t, uc.Refresh(ctx))
	require.Len(t, uc.Books(), 1)

	bookRepo.listErr = errors.Internal("store unavailable", nil)
	err := uc.Refresh(ctx)
	require.Error(t, err)

	assert.Len(t, uc.Books(), 1)
	assert.False(t, uc.Loading())
}
