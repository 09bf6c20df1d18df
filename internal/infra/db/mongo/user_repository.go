package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "minpaku/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainuser.ErrEmailAlreadyUsed
		}
		return err
	}
	return nil
}

type userDocument struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Furigana     string `bson:"furigana"`
	PostalCode   string `bson:"postal_code"`
	Address      string `bson:"address"`
	PhoneNumber  string `bson:"phone_number"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Enabled      bool   `bson:"enabled"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Name:         u.Name,
		Furigana:     u.Furigana,
		PostalCode:   u.PostalCode,
		Address:      u.Address,
		PhoneNumber:  u.PhoneNumber,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Name:         d.Name,
		Furigana:     d.Furigana,
		PostalCode:   d.PostalCode,
		Address:      d.Address,
		PhoneNumber:  d.PhoneNumber,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domainuser.Role(d.Role),
		Enabled:      d.Enabled,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}
