package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{client: client}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		doc := r.client.Collection("notifications").NewDoc()
		notification.ID = doc.ID
	}

	// Create, not Set: re-delivery with the same deterministic ID finds the
	// document already present and leaves it alone, so a notification the
	// user already read stays read.
	_, err := r.client.Collection("notifications").Doc(notification.ID).Create(ctx, notification)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection("notifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}
	notification.ID = doc.Ref.ID

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Notification, error) {
	query := r.client.Collection("notifications").Where("userId", "==", userID)

	iter := query.Documents(ctx)
	var notifications []*entity.Notification

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, errors.Internal("Failed to parse notification data", err)
		}
		notification.ID = doc.Ref.ID
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification as read", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Notification, error) {
	query := r.client.Collection("notifications").Where("userId", "==", userID)
	snapshots := query.Snapshots(ctx)

	out := make(chan []*entity.Notification, 1)

	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Notification listener for user %s failed: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to materialize notification snapshot for user %s: %v", userID, err)
				return
			}

			notifications := make([]*entity.Notification, 0, len(docs))
			for _, doc := range docs {
				var notification entity.Notification
				if err := doc.DataTo(&notification); err != nil {
					log.Printf("Error parsing notification %s: %v", doc.Ref.ID, err)
					continue
				}
				notification.ID = doc.Ref.ID
				notifications = append(notifications, &notification)
			}

			select {
			case out <- notifications:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
