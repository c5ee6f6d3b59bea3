package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	s3manageriface.UploaderAPI
	objects map[string][]byte
}

func (f *fakeUploader) UploadWithContext(ctx aws.Context, in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + "/" + *in.Key
	f.objects[key] = data
	return &s3manager.UploadOutput{Location: "s3://" + key}, nil
}

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches int
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItemWithContext(ctx aws.Context, in *dynamodb.BatchGetItemInput, opts ...request.Option) (*dynamodb.BatchGetItemOutput, error) {
	f.batches++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		if len(ka.Keys) > maxBatchGet {
			return nil, io.ErrShortBuffer
		}
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir}

	loc, err := sink.Put(context.Background(), "songs/etude.json", []byte(`{}`), "application/json")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(filepath.Join(dir, "songs", "etude.json"), loc)
	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(`{}`, string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sink.Put(ctx, "late.json", nil, "application/json")
	assert.Error(err)
}

func TestS3SinkAndMulti(t *testing.T) {
	up := &fakeUploader{objects: map[string][]byte{}}
	s3 := &S3Sink{Bucket: "tabs", Prefix: "converted", uploader: up}
	dir := t.TempDir()

	loc, err := Multi{s3, FileSink{Dir: dir}}.Put(context.Background(), "etude.json", []byte("doc"), "application/json")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("s3://tabs/converted/etude.json", loc)
	assert.Equal([]byte("doc"), up.objects["tabs/converted/etude.json"])
	assert.FileExists(filepath.Join(dir, "etude.json"))
}

func TestCatalogRoundTrip(t *testing.T) {
	db := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	catalog := &Catalog{Table: "tabdex", client: db}
	score := &model.Score{
		Format: model.GP5,
		Title:  "Etude",
		Artist: "Someone",
		Tempo:  96,
		Tracks: []model.Track{{Staves: []model.Staff{{Bars: make([]model.Bar, 3)}}}},
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var names []string
	for i := 0; i < 150; i++ {
		name := "song" + strconv.Itoa(i) + ".gp5"
		names = append(names, name)
		require.NoError(t, catalog.Put(context.Background(), NewEntry(name, "out/"+name+".json", score, at)))
	}

	got, err := catalog.Get(context.Background(), append(names, "missing.gp5"))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(got, 150)
	assert.Equal(2, db.batches)
	e := got["song7.gp5"]
	assert.Equal("Etude", e.Title)
	assert.Equal("gp5", e.Format)
	assert.Equal(3, e.Bars)
	assert.Equal(1, e.Tracks)
	assert.Equal(96.0, e.Tempo)
	assert.Equal("2024-05-01T12:00:00Z", e.ConvertedAt)
	assert.NotContains(got, "missing.gp5")
}
