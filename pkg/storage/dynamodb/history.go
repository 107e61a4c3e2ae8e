package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remi/shift-exchange/pkg/models"
)

// getHistoryItem reads one history record with a strongly consistent read.
// A nil record with a nil error means the record does not exist.
func (s *Store) getHistoryItem(ctx context.Context, historyID string) (*models.HistoryRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": historyID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.HistoryTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history record from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var record models.HistoryRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
	}
	return &record, nil
}

// GetHistoryRecord retrieves a history record by the originating offer id.
func (s *Store) GetHistoryRecord(ctx context.Context, historyID string) (*models.HistoryRecord, error) {
	record, err := s.getHistoryItem(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("history record with ID %s not found", historyID)
	}
	return record, nil
}

// ListHistory retrieves the most recent completed matches of a tenant,
// ordered by match time descending. It prefers the feed index and falls back
// to a full scan with in-memory filtering and sorting when the index is not
// available; callers see identical results either way.
func (s *Store) ListHistory(ctx context.Context, tenant string, limit int32) ([]models.HistoryRecord, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.HistoryTableName),
		IndexName:              aws.String(historyFeedIndex),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: historyFeedPartition(tenant)},
		},
		ScanIndexForward: aws.Bool(false), // Sort by match time in descending order
		Limit:            &limit,
	})
	if err != nil {
		slog.Log(ctx, slog.LevelDebug, "history feed index query failed, falling back to scan", "error", err)
		return s.scanHistory(ctx, tenant, limit)
	}

	var records []models.HistoryRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history records: %w", err)
	}
	return records, nil
}

// scanHistory is the index-less fallback: an unordered full read of the
// history table, filtered and sorted in memory.
func (s *Store) scanHistory(ctx context.Context, tenant string, limit int32) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.HistoryTableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}

		var page []models.HistoryRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scanned history: %w", err)
		}
		for _, record := range page {
			if record.Tenant == tenant {
				records = append(records, record)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ExchangedAt.After(records[j].ExchangedAt)
	})
	if int32(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}
