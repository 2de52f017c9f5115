package db

import (
	"fmt"

	"github.com/pianovis/handex/constants"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

type SongMetadata struct {
	Title  string
	Artist string
}

// GetSongMetadatas looks up title/artist for midi filenames in the
// metadata table. Lookup is optional: when no endpoint is configured
// the caller falls back to filename-derived names.
func GetSongMetadatas(filenames []string) (map[string]SongMetadata, error) {
	res := make(map[string]SongMetadata)

	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" || len(filenames) == 0 {
		return res, nil
	}
	if len(filenames) > 10 {
		return nil, fmt.Errorf("metadata lookup limited to 10 filenames, got %v", len(filenames))
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB session: %w", err)
	}

	client := dynamodb.New(sess)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			"handex-metadata": {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		return nil, fmt.Errorf("fetching song metadata: %w", err)
	}

	for _, v := range dbres.Responses["handex-metadata"] {
		var m SongMetadata
		if v["Title"] != nil && v["Title"].S != nil {
			m.Title = *v["Title"].S
		}
		if v["Artist"] != nil && v["Artist"].S != nil {
			m.Artist = *v["Artist"].S
		}
		res[*v["PK"].S] = m
	}

	return res, nil
}
