package paper

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each paper as one document in a papers collection.
type MongoStore struct {
	col *mongo.Collection
}

// ConnectMongo dials the cluster and returns a store over db.papers.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	return client, NewMongoStore(client.Database(dbName).Collection("papers")), nil
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (s *MongoStore) SavePaper(ctx context.Context, doc Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (s *MongoStore) GetPaper(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (s *MongoStore) ListPapers(ctx context.Context, opts ListOpts) ([]Summary, error) {
	filter := bson.M{}
	if opts.SchoolID != "" {
		filter["schoolId"] = opts.SchoolID
	}
	if term := strings.TrimSpace(opts.Q); term != "" {
		re := bson.M{"$regex": term, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"subject": re},
			bson.M{"class": re},
			bson.M{"examType": re},
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{
			"class": 1, "subject": 1, "examType": 1,
			"status": 1, "createdAt": 1, "totalMarks": 1,
		})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var row struct {
			ID         string `bson:"_id"`
			Class      string `bson:"class"`
			Subject    string `bson:"subject"`
			ExamType   string `bson:"examType"`
			Status     string `bson:"status"`
			CreatedAt  string `bson:"createdAt"`
			TotalMarks int    `bson:"totalMarks"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, Summary(row))
	}
	return out, cur.Err()
}

func (s *MongoStore) DeletePaper(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
