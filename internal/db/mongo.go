package db

import (
	"context"
	"fmt"
	"time"

	"scholar_spider/internal/config"
	"scholar_spider/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB mirrors persisted authors and visited listing pages.
type MongoDB struct {
	client  *mongo.Client
	authors *mongo.Collection
	pages   *mongo.Collection
}

func NewMongoDB(cfg config.DBConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Connection))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)
	d := &MongoDB{
		client:  client,
		authors: database.Collection(cfg.Collections.Authors),
		pages:   database.Collection(cfg.Collections.Pages),
	}

	if err := d.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't create indexes: %w", err)
	}

	return d, nil
}

func (d *MongoDB) createIndexes(ctx context.Context) error {
	_, err := d.authors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "last_scraped", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = d.pages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "url", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

// AuthorUpdate builds the upsert document for record. scraped_count is
// incremented on every save.
func AuthorUpdate(record *models.AuthorRecord) (bson.M, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	delete(set, "_id")
	delete(set, "scraped_count")

	return bson.M{
		"$set": set,
		"$inc": bson.M{"scraped_count": 1},
	}, nil
}

func (d *MongoDB) SaveAuthor(ctx context.Context, record *models.AuthorRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update, err := AuthorUpdate(record)
	if err != nil {
		return fmt.Errorf("encode author %s: %w", record.ID, err)
	}

	opts := options.Update().SetUpsert(true)
	_, err = d.authors.UpdateOne(ctx, bson.M{"_id": record.ID}, update, opts)
	return err
}

// GetAuthor returns the mirrored record for id, or nil when there is none.
func (d *MongoDB) GetAuthor(ctx context.Context, id string) (*models.AuthorRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record models.AuthorRecord
	err := d.authors.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &record, err
}

func (d *MongoDB) SavePageVisit(ctx context.Context, visit *models.PageVisit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := d.pages.InsertOne(ctx, visit)
	return err
}

func (d *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}
