package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/system/indexes"
	"github.com/dalemusser/pagepulse/internal/app/system/normalize"
	"github.com/dalemusser/pagepulse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for stored password hashes.
const bcryptCost = 12

// MinPasswordLen is the shortest password Create accepts.
const MinPasswordLen = 8

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidCredentials covers unknown email, wrong password and non-password accounts alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDisabled is returned when a disabled account tries to sign in.
	ErrDisabled = errors.New("account is disabled")
	// ErrInvalidEmail and ErrWeakPassword reject Create input.
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLen)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the provider lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		{
			Keys:    bson.D{{Key: "auth_return_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_users_auth_return"),
		},
	})
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a password user after normalizing the name and email and
// hashing the password.
func (s *Store) Create(ctx context.Context, name, email, password string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return models.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(name),
		Email:        email,
		AuthMethod:   models.AuthPassword,
		PasswordHash: string(hash),
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks an email/password pair.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Burn comparable time so unknown emails are not distinguishable.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.AuthMethod != models.AuthPassword || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Status == models.StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// dummyHash is a bcrypt hash of a random string at bcryptCost.
func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte(primitive.NewObjectID().Hex()), bcryptCost)
	})
	return dummy
}

// FindOrCreateOAuth returns the user signed in through provider with the
// given subject id. A first sign-in links to an existing account with the
// same email, or creates one. Linking keeps the account's auth method, so
// a password account can still sign in with its password.
func (s *Store) FindOrCreateOAuth(ctx context.Context, provider, subject, email, name string) (*models.User, error) {
	email = normalize.Email(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"auth_return_id": subject}).Decode(&u)
	if err == nil {
		return activeOnly(&u)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now().UTC()
	set := bson.M{
		"auth_return_id": subject,
		"updated_at":     now,
	}
	setOnInsert := bson.M{
		"auth_method": provider,
		"name":        normalize.Name(name),
		"status":      models.StatusActive,
		"created_at":  now,
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err = s.c.FindOneAndUpdate(ctx, bson.M{"email": email},
		bson.M{"$set": set, "$setOnInsert": setOnInsert}, opts).Decode(&u)
	if err != nil {
		return nil, err
	}
	return activeOnly(&u)
}

func activeOnly(u *models.User) (*models.User, error) {
	if u.Status == models.StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}
