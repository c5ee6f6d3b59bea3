package store

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

// maxBatchGet is the DynamoDB limit on keys per BatchGetItem call.
const maxBatchGet = 100

// Entry is one converted file. PK is the source file name.
type Entry struct {
	PK          string  `dynamodbav:"PK"`
	Title       string  `dynamodbav:"Title"`
	Artist      string  `dynamodbav:"Artist"`
	Album       string  `dynamodbav:"Album"`
	Format      string  `dynamodbav:"Format"`
	Tempo       float64 `dynamodbav:"Tempo"`
	Tracks      int     `dynamodbav:"Tracks"`
	Bars        int     `dynamodbav:"Bars"`
	Location    string  `dynamodbav:"Location"`
	ConvertedAt string  `dynamodbav:"ConvertedAt"`
}

// NewEntry summarizes a normalized score stored at location.
func NewEntry(name, location string, score *model.Score, at time.Time) Entry {
	e := Entry{
		PK:          name,
		Title:       score.Title,
		Artist:      score.Artist,
		Album:       score.Album,
		Format:      score.Format.String(),
		Tempo:       score.Tempo,
		Tracks:      len(score.Tracks),
		Location:    location,
		ConvertedAt: at.UTC().Format(time.RFC3339),
	}
	if len(score.Tracks) > 0 && len(score.Tracks[0].Staves) > 0 {
		e.Bars = len(score.Tracks[0].Staves[0].Bars)
	}
	return e
}

type Catalog struct {
	Table  string
	client dynamodbiface.DynamoDBAPI
}

func NewCatalog(sess *session.Session, table string) *Catalog {
	return &Catalog{Table: table, client: dynamodb.New(sess)}
}

func (c *Catalog) Put(ctx context.Context, e Entry) error {
	item, err := dynamodbattribute.MarshalMap(e)
	if err != nil {
		return errors.Wrap(err, "marshal catalog entry")
	}
	_, err = c.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.Table),
		Item:      item,
	})
	return errors.Wrapf(err, "put %s into %s", e.PK, c.Table)
}

// Get looks entries up by file name. Names without an entry are absent
// from the result.
func (c *Catalog) Get(ctx context.Context, names []string) (map[string]Entry, error) {
	res := make(map[string]Entry)
	for start := 0; start < len(names); start += maxBatchGet {
		end := start + maxBatchGet
		if end > len(names) {
			end = len(names)
		}
		var keys []map[string]*dynamodb.AttributeValue
		for _, name := range names[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(name)},
			})
		}
		out, err := c.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				c.Table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "batch get from %s", c.Table)
		}
		for _, item := range out.Responses[c.Table] {
			var e Entry
			if err := dynamodbattribute.UnmarshalMap(item, &e); err != nil {
				return nil, errors.Wrap(err, "unmarshal catalog entry")
			}
			res[e.PK] = e
		}
	}
	return res, nil
}
