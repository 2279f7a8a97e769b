package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertNotification(ctx context.Context, n *Notification) (*Notification, error) {
	n.Read = false
	n.CreatedAt = time.Now().UTC()

	res, err := s.Notifications.InsertOne(ctx, n)
	if err != nil {
		return nil, err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return n, nil
}

func (s *Store) GetNotification(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var n Notification
	err := s.Notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &n, nil
}

// GetNotifications returns the user's notifications newest first, capped at
// 100.
func (s *Store) GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]*Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(100)

	var notifications []*Notification
	cur, err := s.Notifications.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &notifications)
	return notifications, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.Notifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"read": true},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}
