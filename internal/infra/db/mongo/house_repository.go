package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhouse "minpaku/internal/domain/house"
)

type HouseRepository struct {
	col *mongo.Collection
}

func NewHouseRepository(db *mongo.Database) *HouseRepository {
	return &HouseRepository{col: db.Collection("houses")}
}

func (r *HouseRepository) ByID(ctx context.Context, id domainhouse.HouseID) (*domainhouse.House, error) {
	var doc houseDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhouse.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HouseRepository) Save(ctx context.Context, h *domainhouse.House) error {
	doc := newHouseDocument(h)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *HouseRepository) Delete(ctx context.Context, id domainhouse.HouseID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainhouse.ErrNotFound
	}
	return nil
}

func (r *HouseRepository) Search(ctx context.Context, params domainhouse.SearchParams) (domainhouse.SearchResult, error) {
	normalized := params.Normalized()
	filter := bson.M{}
	if normalized.Keyword != "" {
		pattern := regexQuote(normalized.Keyword)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"address": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if normalized.Area != "" {
		filter["address"] = bson.M{"$regex": regexQuote(normalized.Area), "$options": "i"}
	}
	if normalized.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": normalized.MaxPrice}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainhouse.SearchResult{}, err
	}

	sortDoc := bson.D{{Key: "created_at", Value: -1}}
	if normalized.Order == domainhouse.SortByPriceAsc {
		sortDoc = bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	}
	findOpts := options.Find().
		SetSort(sortDoc).
		SetSkip(int64(normalized.Offset())).
		SetLimit(int64(normalized.Size))

	items, err := r.findHouses(ctx, filter, findOpts)
	if err != nil {
		return domainhouse.SearchResult{}, err
	}
	return domainhouse.SearchResult{
		Items: items,
		Total: int(total),
		Page:  normalized.Page,
		Size:  normalized.Size,
	}, nil
}

func (r *HouseRepository) Newest(ctx context.Context, limit int) ([]*domainhouse.House, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	return r.findHouses(ctx, bson.M{}, opts)
}

func (r *HouseRepository) Popular(ctx context.Context, limit int) ([]*domainhouse.House, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reservation_count", Value: -1}}).SetLimit(int64(limit))
	return r.findHouses(ctx, bson.M{}, opts)
}

func (r *HouseRepository) findHouses(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainhouse.House, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var items []*domainhouse.House
	for cursor.Next(ctx) {
		var doc houseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toAggregate())
	}
	return items, cursor.Err()
}

func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}

type houseDocument struct {
	ID               string `bson:"_id"`
	Name             string `bson:"name"`
	Description      string `bson:"description"`
	Price            int64  `bson:"price"`
	Capacity         int    `bson:"capacity"`
	PostalCode       string `bson:"postal_code"`
	Address          string `bson:"address"`
	PhoneNumber      string `bson:"phone_number"`
	ImageName        string `bson:"image_name"`
	ReservationCount int64  `bson:"reservation_count"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
}

func newHouseDocument(h *domainhouse.House) houseDocument {
	return houseDocument{
		ID:               string(h.ID),
		Name:             h.Name,
		Description:      h.Description,
		Price:            h.Price,
		Capacity:         h.Capacity,
		PostalCode:       h.PostalCode,
		Address:          h.Address,
		PhoneNumber:      h.PhoneNumber,
		ImageName:        h.ImageName,
		ReservationCount: h.ReservationCount,
		CreatedAt:        h.CreatedAt.UnixMilli(),
		UpdatedAt:        h.UpdatedAt.UnixMilli(),
	}
}

func (d houseDocument) toAggregate() *domainhouse.House {
	return &domainhouse.House{
		ID:               domainhouse.HouseID(d.ID),
		Name:             d.Name,
		Description:      d.Description,
		Price:            d.Price,
		Capacity:         d.Capacity,
		PostalCode:       d.PostalCode,
		Address:          d.Address,
		PhoneNumber:      d.PhoneNumber,
		ImageName:        d.ImageName,
		ReservationCount: d.ReservationCount,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
	}
}
