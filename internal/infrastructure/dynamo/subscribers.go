package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/drehill/site-api/internal/domain"
)

// SubscriberRepo provides typed DynamoDB operations for the subscribers table,
// keyed by email.
type SubscriberRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriberRepo(client *dynamodb.Client, tableName string) *SubscriberRepo {
	return &SubscriberRepo{client: client, tableName: tableName}
}

// Put inserts the subscriber. Returns domain.ErrConflict when the email is
// already subscribed (conditional put on the partition key).
func (r *SubscriberRepo) Put(ctx context.Context, s *domain.Subscriber) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("already subscribed: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// ListEmails returns every subscriber email address.
func (r *SubscriberRepo) ListEmails(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(r.tableName),
		ProjectionExpression: aws.String("email"),
	}
	var emails []string
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var subs []domain.Subscriber
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
			return nil, err
		}
		for _, s := range subs {
			emails = append(emails, s.Email)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return emails, nil
}
