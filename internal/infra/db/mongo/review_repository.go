package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhouse "minpaku/internal/domain/house"
	domainreview "minpaku/internal/domain/review"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByHouse(ctx context.Context, houseID domainhouse.HouseID, page, size int) (domainreview.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	filter := bson.M{"house_id": string(houseID)}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainreview.Page{}, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainreview.Page{}, err
	}
	defer cursor.Close(ctx)
	var items []*domainreview.Review
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainreview.Page{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainreview.Page{}, err
	}
	return domainreview.Page{
		Items: items,
		Total: int(total),
		Page:  page,
		Size:  size,
	}, nil
}

func (r *ReviewRepository) HasUserReviewed(ctx context.Context, houseID domainhouse.HouseID, userID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"house_id": string(houseID), "user_id": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rv *domainreview.Review) error {
	doc := newReviewDocument(rv)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ReviewID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	HouseID   string `bson:"house_id"`
	UserID    string `bson:"user_id"`
	Score     int    `bson:"score"`
	Comment   string `bson:"comment"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newReviewDocument(rv *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:        string(rv.ID),
		HouseID:   string(rv.HouseID),
		UserID:    rv.UserID,
		Score:     rv.Score,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UnixMilli(),
		UpdatedAt: rv.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:        domainreview.ReviewID(d.ID),
		HouseID:   domainhouse.HouseID(d.HouseID),
		UserID:    d.UserID,
		Score:     d.Score,
		Comment:   d.Comment,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
