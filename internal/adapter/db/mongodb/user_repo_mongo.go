package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"user-auth-service/internal/domain/user"
	pkgerrors "user-auth-service/pkg/errors"
)

// userDocument is the stored shape of a user in the users collection.
type userDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Address     string        `bson:"address"`
	Email       string        `bson:"email"`
	PhoneNumber string        `bson:"phoneNumber"`
	Password    string        `bson:"password"`
}

// UserRepoMongo implements the user Repository on a MongoDB collection.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a repository over coll.
func NewUserRepoMongo(coll *mongo.Collection, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: coll, log: log}
}

// EnsureIndexes creates the unique email index used to reject concurrent
// duplicate signups.
func (r *UserRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Create inserts a new user and returns the hex form of its ObjectID.
func (r *UserRepoMongo) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	doc := userDocument{
		Name:        u.Name,
		Address:     u.Address,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Password:    u.PasswordHash,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.log.Warn("duplicate email rejected by unique index", zap.String("email", u.Email))
			return "", pkgerrors.NewConflictError("user", "User already exists")
		}
		r.log.Error("failed to insert user", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	r.log.Info("user created in mongo", zap.String("id", oid.Hex()))
	return oid.Hex(), nil
}

// GetByID retrieves a user by the hex form of its ObjectID.
func (r *UserRepoMongo) GetByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warn("malformed user id", zap.String("id", id))
		return nil, pkgerrors.NewNotFoundError("user", "User not found")
	}

	u, err := r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		r.log.Error("failed to get user from mongo", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		r.log.Warn("user not found", zap.String("id", id))
		return nil, pkgerrors.NewNotFoundError("user", "User not found")
	}
	return u, nil
}

// GetByEmail retrieves a user by email address. A missing user is (nil, nil).
func (r *UserRepoMongo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := r.findOne(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		r.log.Error("failed to get user by email from mongo", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepoMongo) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Address:      doc.Address,
		Email:        doc.Email,
		PhoneNumber:  doc.PhoneNumber,
		PasswordHash: doc.Password,
	}, nil
}

// Ping checks the server behind the collection.
func (r *UserRepoMongo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
