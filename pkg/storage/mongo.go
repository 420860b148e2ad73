package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/mydungeon/pkg/errors"
)

// DefaultBucket is the GridFS bucket name used when none is configured.
const DefaultBucket = "results"

// MongoStore keeps artifacts in a GridFS bucket. When a name is saved more
// than once, Open returns the newest revision.
type MongoStore struct {
	client   *mongo.Client
	bucket   *gridfs.Bucket
	database string
	name     string
}

// NewMongoStore connects to uri and opens the bucket in database.
func NewMongoStore(ctx context.Context, uri, database, bucket string) (*MongoStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "ping mongo")
	}
	b, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName(bucket))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "open bucket %s", bucket)
	}
	return &MongoStore{client: client, bucket: b, database: database, name: bucket}, nil
}

// Save uploads data and returns "gridfs://{database}/{bucket}/{name}".
func (s *MongoStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(dl); err != nil {
			return "", errors.Wrap(errors.ErrCodeStorageFailed, err, "save %s", name)
		}
	}
	opts := options.GridFSUpload().SetMetadata(map[string]string{"content_type": "image/png"})
	if _, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorageFailed, err, "save %s", name)
	}
	return fmt.Sprintf("gridfs://%s/%s/%s", s.database, s.name, name), nil
}

// Open downloads the newest revision of name into memory.
func (s *MongoStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(dl); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "open %s", name)
		}
	}
	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStreamByName(name, &buf); err != nil {
		if stderrors.Is(err, gridfs.ErrFileNotFound) {
			return nil, errors.New(errors.ErrCodeNotFound, "artifact %s not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "open %s", name)
	}
	return io.NopCloser(&buf), nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
