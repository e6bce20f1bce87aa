package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/dbx"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding users. The repository
// manager creates a unique index on email.
const CollectionName = "users"

type document struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Avatar       string             `bson:"avatar"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty"`
}

func (d *document) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		DeletedAt:    d.DeletedAt,
	}
}

type MongoRepository struct {
	coll dbx.Collection
	now  func() time.Time
}

func NewMongoRepository(coll dbx.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: func() time.Time {
		return time.Now().UTC().Truncate(time.Millisecond)
	}}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.ErrorNotFound
	}
	return oid, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func decodeOne(res *mongo.SingleResult) (*models.User, error) {
	var d document
	if err := res.Decode(&d); err != nil {
		return nil, classify(err)
	}
	return d.model(), nil
}

func (r *MongoRepository) Find(ctx context.Context, p models.FindParams) ([]*models.User, error) {
	filter := bson.M{}
	if p.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(p.Search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"name": re}, bson.M{"email": re}}
	}

	opts := options.Find()
	if field, ok := SortField(p.SortBy); ok {
		opts.SetSort(bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	}
	if p.Limit > 0 {
		opts.SetLimit(int64(p.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]*models.User, 0)
	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d.model())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return decodeOne(r.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return decodeOne(r.coll.FindOne(ctx, bson.M{"email": email, "deletedAt": bson.M{"$exists": false}}))
}

func (r *MongoRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	now := r.now()
	d := &document{
		ID:           primitive.NewObjectID(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, classify(err)
	}
	return d.model(), nil
}

func (r *MongoRepository) update(ctx context.Context, id string, update bson.M) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts))
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": r.now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["passwordHash"] = *upd.PasswordHash
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) Trash(ctx context.Context, id string) (*models.User, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"deletedAt": r.now()}})
}

func (r *MongoRepository) Restore(ctx context.Context, id string) (*models.User, error) {
	return r.update(ctx, id, bson.M{"$unset": bson.M{"deletedAt": ""}})
}

func (r *MongoRepository) Erase(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return decodeOne(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
}
