// Package store persists canonical jobs in MongoDB.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	databaseName   = "jobs_db"
	collectionName = "jobs"
)

type Store struct {
	client *mongo.Client
	jobs   *mongo.Collection
}

func New(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &Store{
		client: client,
		jobs:   client.Database(databaseName).Collection(collectionName),
	}, nil
}

// SaveJobs bulk-inserts jobs, doing nothing for an empty batch.
func (s *Store) SaveJobs(ctx context.Context, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	docs := make([]any, 0, len(jobs))
	for _, job := range jobs {
		docs = append(docs, job)
	}
	_, err := s.jobs.InsertMany(ctx, docs)
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
