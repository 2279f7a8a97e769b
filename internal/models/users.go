package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"agrihub/internal/auth"
)

// InsertUser hashes the password and stores the user. A duplicate email is
// reported as ErrDuplicateEmail, backed by the unique index.
func (s *Store) InsertUser(ctx context.Context, email, password, name, phone, address string, role auth.Role) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Phone:        phone,
		Role:         role,
		Address:      address,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.Users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// Authenticate looks the user up by email and verifies the password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := s.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	cur, err := s.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &users)
	return users, err
}

func (s *Store) GetUsersByRole(ctx context.Context, role auth.Role) ([]*User, error) {
	var users []*User
	cur, err := s.Users.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &users)
	return users, err
}

// CountUsers counts users with the given role, or all users when role is
// empty.
func (s *Store) CountUsers(ctx context.Context, role auth.Role) (int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	return s.Users.CountDocuments(ctx, filter)
}
