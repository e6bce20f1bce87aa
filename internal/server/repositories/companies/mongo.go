package companies

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

// CollectionName is the MongoDB collection holding companies.
const CollectionName = "companies"

type document struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Since     time.Time          `bson:"since"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
	DeletedAt *time.Time         `bson:"deletedAt,omitempty"`
}

func (d *document) model() *models.Company {
	return &models.Company{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Since:     d.Since.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
		DeletedAt: d.DeletedAt,
	}
}

type MongoRepository struct {
	coll dbx.Collection
	now  func() time.Time
}

func NewMongoRepository(coll dbx.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: mongoNow}
}

// mongoNow truncates to the millisecond precision BSON dates keep.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.ErrorNotFound
	}
	return oid, nil
}

func decodeOne(res *mongo.SingleResult) (*models.Company, error) {
	var d document
	if err := res.Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d.model(), nil
}

func (r *MongoRepository) Find(ctx context.Context, p models.FindParams) ([]*models.Company, error) {
	filter := bson.M{}
	if p.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(p.Search), "$options": "i"}
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

	result := make([]*models.Company, 0)
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

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Company, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return decodeOne(r.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (r *MongoRepository) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	now := r.now()
	d := &document{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Since:     c.Since.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d.model(), nil
}

func (r *MongoRepository) update(ctx context.Context, id string, update bson.M) (*models.Company, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts))
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd models.CompanyUpdate) (*models.Company, error) {
	set := bson.M{"updatedAt": r.now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Since != nil {
		set["since"] = upd.Since.UTC()
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) Trash(ctx context.Context, id string) (*models.Company, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"deletedAt": r.now()}})
}

func (r *MongoRepository) Restore(ctx context.Context, id string) (*models.Company, error) {
	return r.update(ctx, id, bson.M{"$unset": bson.M{"deletedAt": ""}})
}

func (r *MongoRepository) Erase(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = decodeOne(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
	return err
}
