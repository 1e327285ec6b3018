package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rohatours/internal/adapters/observability"
	"rohatours/internal/domain"
)

// bookingDoc is the stored shape of domain.Booking.
type bookingDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName  string             `bson:"customerName"`
	CustomerEmail string             `bson:"customerEmail"`
	Package       string             `bson:"package"`
	TravelerCount int                `bson:"travelerCount"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func toDoc(b domain.Booking) bookingDoc {
	return bookingDoc{
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Package:       b.Package,
		TravelerCount: b.TravelerCount,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}

func (d bookingDoc) toDomain() domain.Booking {
	b := domain.Booking{
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		Package:       d.Package,
		TravelerCount: d.TravelerCount,
		Status:        domain.BookingStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}
	if !d.ID.IsZero() {
		b.ID = d.ID.Hex()
	}
	return b
}

type Repo struct {
	conn       *Manager
	collection string
	opTimeout  time.Duration
}

func New(conn *Manager, collection string, opTimeout time.Duration) *Repo {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Repo{conn: conn, collection: collection, opTimeout: opTimeout}
}

func (r *Repo) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(r.collection), nil
}

func (r *Repo) Connect(ctx context.Context) error {
	_, err := r.conn.Client(ctx)
	return err
}

func (r *Repo) Insert(ctx context.Context, b domain.Booking) (id string, err error) {
	c, err := r.coll(ctx)
	if err != nil {
		return "", err
	}
	start := time.Now()
	defer func() { observability.ObserveStorage("insert", err, time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	res, err := c.InsertOne(ctx, toDoc(b))
	if err != nil {
		return "", classify("insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: insert: unexpected id type %T", domain.ErrStorage, res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repo) ListRecent(ctx context.Context, limit int) (out []domain.Booking, err error) {
	c, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { observability.ObserveStorage("find", err, time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	// _id breaks createdAt ties so equal timestamps still come back newest first.
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := c.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify("find", err)
	}
	defer cur.Close(ctx)

	out = make([]domain.Booking, 0, limit)
	for cur.Next(ctx) {
		var d bookingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, classify("decode", err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, classify("find", err)
	}
	return out, nil
}

// EnsureIndexes creates the createdAt index backing the list sort.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	c, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	_, err = c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return classify("create index", err)
	}
	return nil
}

// classify wraps a driver error in the matching domain error class.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConnection, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}
