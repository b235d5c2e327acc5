package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusbooks/internal/domain/entity"
	"campusbooks/pkg/errors"
)

type fakeBookRepo struct {
	mu      sync.Mutex
	books   map[string]*entity.Book
	listErr error
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[string]*entity.Book)}
}

func (f *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt

	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return nil, errors.NotFound("Book", nil)
	}
	copied := *book
	return &copied, nil
}

func (f *fakeBookRepo) List(ctx context.Context) ([]*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	var books []*entity.Book
	for _, book := range f.books {
		copied := *book
		books = append(books, &copied)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (f *fakeBookRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Book, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	var books []*entity.Book
	for _, book := range all {
		if book.SellerID == sellerID {
			books = append(books, book)
		}
	}
	return books, nil
}

func (f *fakeBookRepo) ListByISBN(ctx context.Context, isbn string) ([]*entity.Book, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	var books []*entity.Book
	for _, book := range all {
		if book.ISBN == isbn {
			books = append(books, book)
		}
	}
	return books, nil
}

func (f *fakeBookRepo) SearchByFieldPrefix(ctx context.Context, field, prefix string) ([]*entity.Book, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	selector := searchFields[field]
	var books []*entity.Book
	for _, book := range all {
		if strings.HasPrefix(selector(book), prefix) {
			books = append(books, book)
		}
	}
	return books, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[book.ID]; !ok {
		return errors.NotFound("Book", nil)
	}
	book.UpdatedAt = time.Now()
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[id]; !ok {
		return errors.NotFound("Book", nil)
	}
	delete(f.books, id)
	return nil
}

type fakeInterestRepo struct {
	mu        sync.Mutex
	interests []*entity.Interest
	createErr error
}

func newFakeInterestRepo() *fakeInterestRepo {
	return &fakeInterestRepo{}
}

func (f *fakeInterestRepo) Create(ctx context.Context, interest *entity.Interest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	if interest.ID == "" {
		interest.ID = uuid.New().String()
	}
	interest.Timestamp = time.Now()

	stored := *interest
	f.interests = append(f.interests, &stored)
	return nil
}

func (f *fakeInterestRepo) FindByISBNAndUser(ctx context.Context, isbn, userID string) ([]*entity.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []*entity.Interest
	for _, interest := range f.interests {
		if interest.ISBN == isbn && interest.UserID == userID {
			copied := *interest
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (f *fakeInterestRepo) ListByISBN(ctx context.Context, isbn string) ([]*entity.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []*entity.Interest
	for _, interest := range f.interests {
		if interest.ISBN == isbn {
			copied := *interest
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (f *fakeInterestRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []*entity.Interest
	for _, interest := range f.interests {
		if interest.UserID == userID {
			copied := *interest
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (f *fakeInterestRepo) DeleteByISBNAndUser(ctx context.Context, isbn, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deleted := 0
	kept := f.interests[:0]
	for _, interest := range f.interests {
		if interest.ISBN == isbn && interest.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, interest)
	}
	f.interests = kept
	return deleted, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*entity.Notification
	watchers      map[string]chan []*entity.Notification
	createErrFor  map[string]error
	watchErr      error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[string]*entity.Notification),
		watchers:      make(map[string]chan []*entity.Notification),
		createErrFor:  make(map[string]error),
	}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.createErrFor[notification.UserID]; err != nil {
		return err
	}

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	// An existing document under the same ID is left untouched.
	if _, ok := f.notifications[notification.ID]; ok {
		return nil
	}
	notification.Timestamp = time.Now()

	stored := *notification
	f.notifications[notification.ID] = &stored
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	copied := *notification
	return &copied, nil
}

func (f *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []*entity.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			copied := *notification
			found = append(found, &copied)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	notification.Read = true
	return nil
}

func (f *fakeNotificationRepo) WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Notification, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}

	out := make(chan []*entity.Notification, 8)

	f.mu.Lock()
	f.watchers[userID] = out
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.watchers[userID] == out {
			delete(f.watchers, userID)
		}
		f.mu.Unlock()
		close(out)
	}()

	return out, nil
}

func (f *fakeNotificationRepo) emit(userID string, snapshot []*entity.Notification) {
	f.mu.Lock()
	ch := f.watchers[userID]
	f.mu.Unlock()

	if ch != nil {
		ch <- snapshot
	}
}

type fakeConversationRepo struct {
	mu              sync.Mutex
	conversations   map[string]*entity.Conversation
	messages        map[string][]*entity.Message
	watchers        map[string]chan []*entity.Conversation
	messageWatchers map[string]chan []*entity.Message
	lastMessageErr  error
	markReadErrFor  map[string]error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations:   make(map[string]*entity.Conversation),
		messages:        make(map[string][]*entity.Message),
		watchers:        make(map[string]chan []*entity.Conversation),
		messageWatchers: make(map[string]chan []*entity.Message),
		markReadErrFor:  make(map[string]error),
	}
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.conversations[conversation.ID]; ok {
		return errors.Conflict("Conversation already exists")
	}
	conversation.CreatedAt = time.Now()

	stored := *conversation
	f.conversations[conversation.ID] = &stored
	return nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	conversation, ok := f.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conversation
	return &copied, nil
}

func (f *fakeConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []*entity.Conversation
	for _, conversation := range f.conversations {
		for _, participant := range conversation.Participants {
			if participant == userID {
				copied := *conversation
				found = append(found, &copied)
				break
			}
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (f *fakeConversationRepo) UpdateLastMessage(ctx context.Context, conversationID string, last entity.LastMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lastMessageErr != nil {
		return f.lastMessageErr
	}

	conversation, ok := f.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	// The store stamps the zero timestamp server-side.
	if last.CreatedAt.IsZero() {
		last.CreatedAt = time.Now()
	}
	conversation.LastMessage = last
	return nil
}

func (f *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	stored := *message
	f.messages[message.ConversationID] = append(f.messages[message.ConversationID], &stored)
	return nil
}

func (f *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []*entity.Message
	for _, message := range f.messages[conversationID] {
		copied := *message
		messages = append(messages, &copied)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (f *fakeConversationRepo) ListUnreadMessages(ctx context.Context, conversationID, excludeSenderID string) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []*entity.Message
	for _, message := range f.messages[conversationID] {
		if !message.Read && message.SenderID != excludeSenderID {
			copied := *message
			messages = append(messages, &copied)
		}
	}
	return messages, nil
}

func (f *fakeConversationRepo) MarkMessageRead(ctx context.Context, conversationID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.markReadErrFor[messageID]; err != nil {
		return err
	}

	for _, message := range f.messages[conversationID] {
		if message.ID == messageID {
			message.Read = true
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (f *fakeConversationRepo) WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Conversation, error) {
	out := make(chan []*entity.Conversation, 8)

	f.mu.Lock()
	f.watchers[userID] = out
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.watchers[userID] == out {
			delete(f.watchers, userID)
		}
		f.mu.Unlock()
		close(out)
	}()

	return out, nil
}

func (f *fakeConversationRepo) WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, error) {
	out := make(chan []*entity.Message, 8)

	f.mu.Lock()
	f.messageWatchers[conversationID] = out
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.messageWatchers[conversationID] == out {
			delete(f.messageWatchers, conversationID)
		}
		f.mu.Unlock()
		close(out)
	}()

	return out, nil
}

func (f *fakeConversationRepo) emitConversations(userID string, snapshot []*entity.Conversation) {
	f.mu.Lock()
	ch := f.watchers[userID]
	f.mu.Unlock()

	if ch != nil {
		ch <- snapshot
	}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	purged []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	user.UpdatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return errors.NotFound("User", nil)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) PurgeUserData(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.purged = append(f.purged, userID)
	return nil
}
