package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainfavorite "minpaku/internal/domain/favorite"
	domainhouse "minpaku/internal/domain/house"
)

type FavoriteRepository struct {
	col *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{col: db.Collection("favorites")}
}

// EnsureIndexes creates the unique (house, user) pair index.
func (r *FavoriteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "house_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *FavoriteRepository) Exists(ctx context.Context, houseID domainhouse.HouseID, userID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"house_id": string(houseID), "user_id": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FavoriteRepository) Save(ctx context.Context, f *domainfavorite.Favorite) error {
	doc := favoriteDocument{
		ID:        f.ID,
		HouseID:   string(f.HouseID),
		UserID:    f.UserID,
		CreatedAt: f.CreatedAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"house_id": doc.HouseID, "user_id": doc.UserID}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, opts)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// A concurrent add already stored the pair.
		return nil
	}
	return err
}

func (r *FavoriteRepository) Delete(ctx context.Context, houseID domainhouse.HouseID, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"house_id": string(houseID), "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainfavorite.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, size int) (domainfavorite.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	filter := bson.M{"user_id": userID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainfavorite.Page{}, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainfavorite.Page{}, err
	}
	defer cursor.Close(ctx)
	var items []*domainfavorite.Favorite
	for cursor.Next(ctx) {
		var doc favoriteDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainfavorite.Page{}, err
		}
		items = append(items, &domainfavorite.Favorite{
			ID:        doc.ID,
			HouseID:   domainhouse.HouseID(doc.HouseID),
			UserID:    doc.UserID,
			CreatedAt: timestampToTime(doc.CreatedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return domainfavorite.Page{}, err
	}
	return domainfavorite.Page{
		Items: items,
		Total: int(total),
		Page:  page,
		Size:  size,
	}, nil
}

type favoriteDocument struct {
	ID        string `bson:"id"`
	HouseID   string `bson:"house_id"`
	UserID    string `bson:"user_id"`
	CreatedAt int64  `bson:"created_at"`
}
