package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhouse "minpaku/internal/domain/house"
	domainreservation "minpaku/internal/domain/reservation"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("reservations")}
}

// EnsureIndexes creates the unique payment_ref index backing finalize
// idempotency.
func (r *ReservationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "payment_ref", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) ByPaymentRef(ctx context.Context, ref string) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"payment_ref": ref}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreservation.ErrDuplicatePaymentRef
		}
		return err
	}
	return nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, page, size int) (domainreservation.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	filter := bson.M{"user_id": userID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainreservation.Page{}, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainreservation.Page{}, err
	}
	defer cursor.Close(ctx)
	var items []*domainreservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainreservation.Page{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainreservation.Page{}, err
	}
	return domainreservation.Page{
		Items: items,
		Total: int(total),
		Page:  page,
		Size:  size,
	}, nil
}

type reservationDocument struct {
	ID             string `bson:"_id"`
	HouseID        string `bson:"house_id"`
	UserID         string `bson:"user_id"`
	CheckinDate    int64  `bson:"checkin_date"`
	CheckoutDate   int64  `bson:"checkout_date"`
	NumberOfPeople int    `bson:"number_of_people"`
	Amount         int64  `bson:"amount"`
	PaymentRef     string `bson:"payment_ref"`
	CreatedAt      int64  `bson:"created_at"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:             string(res.ID),
		HouseID:        string(res.HouseID),
		UserID:         res.UserID,
		CheckinDate:    res.CheckinDate.UnixMilli(),
		CheckoutDate:   res.CheckoutDate.UnixMilli(),
		NumberOfPeople: res.NumberOfPeople,
		Amount:         res.Amount,
		PaymentRef:     res.PaymentRef,
		CreatedAt:      res.CreatedAt.UnixMilli(),
	}
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	return &domainreservation.Reservation{
		ID:             domainreservation.ReservationID(d.ID),
		HouseID:        domainhouse.HouseID(d.HouseID),
		UserID:         d.UserID,
		CheckinDate:    timestampToTime(d.CheckinDate),
		CheckoutDate:   timestampToTime(d.CheckoutDate),
		NumberOfPeople: d.NumberOfPeople,
		Amount:         d.Amount,
		PaymentRef:     d.PaymentRef,
		CreatedAt:      timestampToTime(d.CreatedAt),
	}
}
