package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Text        string             `bson:"text"`
	Completed   bool               `bson:"completed"`
	CompletedAt *int64             `bson:"completedAt"`
}

func (d todoDocument) toDomain() domain.Todo {
	return domain.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
	}
}

type TodoRepository struct {
	coll *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) repository.TodoRepository {
	return &TodoRepository{coll: db.Collection(todosCollection)}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "text", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create todos text index: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	doc := todoDocument{
		ID:          primitive.NewObjectID(),
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	todo.ID = doc.ID.Hex()
	return nil
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	todos := make([]domain.Todo, len(docs))
	for i := range docs {
		todos[i] = docs[i].toDomain()
	}
	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return decodeTodo(r.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (r *TodoRepository) Remove(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return decodeTodo(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
}

func (r *TodoRepository) Update(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"completed":   update.Completed,
		"completedAt": update.CompletedAt,
	}
	if update.Text != nil {
		set["text"] = *update.Text
	}

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeTodo(res)
}

func (r *TodoRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete todos: %w", err)
	}
	return res.DeletedCount, nil
}

func decodeTodo(res *mongo.SingleResult) (*domain.Todo, error) {
	var doc todoDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("decode todo: %w", err)
	}
	todo := doc.toDomain()
	return &todo, nil
}
