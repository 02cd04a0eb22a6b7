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

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

const todosCollection = "todos"

type TodoRepository struct {
	coll *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{coll: db.Collection(todosCollection)}
}

type todoDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *todoDoc) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		Priority:    domain.Priority(d.Priority),
		DueDate:     d.DueDate,
		OwnerID:     d.OwnerID.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// sortFields maps API sort names onto document fields.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"title":     "title",
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	ownerOID, err := primitive.ObjectIDFromHex(todo.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := todoDoc{
		ID:          primitive.NewObjectID(),
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    string(todo.Priority),
		DueDate:     todo.DueDate,
		OwnerID:     ownerOID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TodoRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc todoDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TodoRepository) List(ctx context.Context, ownerID string, filter ports.TodoListFilter) ([]*domain.Todo, error) {
	ownerOID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"owner_id": ownerOID}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	if filter.Priority != "" {
		query["priority"] = string(filter.Priority)
	}

	field, ok := sortFields[filter.SortBy]
	if !ok {
		field = "created_at"
	}
	direction := -1
	if filter.SortOrder == "asc" {
		direction = 1
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: direction}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer cur.Close(ctx)

	todos := make([]*domain.Todo, 0)
	for cur.Next(ctx) {
		var doc todoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode todo: %w", err)
		}
		todos = append(todos, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, ownerID, id string, update ports.TodoUpdate) (*domain.Todo, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Completed != nil {
		set["completed"] = *update.Completed
	}
	if update.Priority != nil {
		set["priority"] = string(*update.Priority)
	}
	if update.DueDate != nil {
		set["due_date"] = *update.DueDate
	}

	change := bson.M{"$set": set}
	if update.ClearDueDate {
		delete(set, "due_date")
		change["$unset"] = bson.M{"due_date": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, change, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// Toggle negates the completed flag with a pipeline update so the flip is a
// single atomic document mutation, not a read-modify-write.
func (r *TodoRepository) Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"completed":  bson.M{"$not": "$completed"},
			"updated_at": "$$NOW",
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("toggle todo: %w", err)
	}
	return doc.toDomain(), nil
}

// Summary aggregates the owner's counts in one pipeline pass. An owner with
// no todos gets the zero-valued summary, never an absent result.
func (r *TodoRepository) Summary(ctx context.Context, ownerID string) (*domain.TodoSummary, error) {
	ownerOID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return &domain.TodoSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerOID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{"$completed", 1, 0}}},
			"pending":   bson.M{"$sum": bson.M{"$cond": bson.A{"$completed", 0, 1}}},
			"high_priority": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$priority", "high"}}, 1, 0}}},
			"medium_priority": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$priority", "medium"}}, 1, 0}}},
			"low_priority": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$priority", "low"}}, 1, 0}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("summarize todos: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Total          int64 `bson:"total"`
		Completed      int64 `bson:"completed"`
		Pending        int64 `bson:"pending"`
		HighPriority   int64 `bson:"high_priority"`
		MediumPriority int64 `bson:"medium_priority"`
		LowPriority    int64 `bson:"low_priority"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("summarize todos: %w", err)
	}

	return &domain.TodoSummary{
		Total:          row.Total,
		Completed:      row.Completed,
		Pending:        row.Pending,
		HighPriority:   row.HighPriority,
		MediumPriority: row.MediumPriority,
		LowPriority:    row.LowPriority,
	}, nil
}

// EnsureIndexes creates the owner-scoped query indexes.
func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedFilter builds the mandatory owner-scoped id filter. A malformed id is
// indistinguishable from a missing record.
func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}
	ownerOID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}
	return bson.M{"_id": oid, "owner_id": ownerOID}, nil
}
