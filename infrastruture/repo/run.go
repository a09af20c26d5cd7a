package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/rover-mapper/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepo handles the persistence of completed mapping runs.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &RunRepo{
		collection: collection,
	}
}

// Save inserts or updates a run in the repository.
// If the run already exists, it updates the existing record.
func (r *RunRepo) Save(run *dmn.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": run.ID}
	update := bson.M{
		"$set": bson.M{
			"startedAt":        run.StartedAt,
			"finishedAt":       run.FinishedAt,
			"nodesExplored":    run.NodesExplored,
			"physicalScans":    run.PhysicalScans,
			"cachedScans":      run.CachedScans,
			"backtracks":       run.Backtracks,
			"deadEndReversals": run.DeadEndReversals,
			"moveFailures":     run.MoveFailures,
			"conflicts":        run.Conflicts,
			"budgetExhausted":  run.BudgetExhausted,
			"interrupted":      run.Interrupted,
			"document":         run.Document,
			"updatedAt":        time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves a run by its ID.
// Returns an error if the run is not found or if an unexpected error occurs.
func (r *RunRepo) ByID(id uuid.UUID) (*dmn.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	var run dmn.Run
	if err := r.collection.FindOne(ctx, filter).Decode(&run); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("run not found")
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &run, nil
}

// Latest retrieves the most recently started run.
// Returns an error if no run exists or if an unexpected error occurs.
func (r *RunRepo) Latest() (*dmn.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	var run dmn.Run
	if err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&run); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("run not found")
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &run, nil
}
